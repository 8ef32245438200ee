package coach

import "github.com/claude/gymbuddy/internal/pose"

// Performance accumulates one exercise block's results across all of its
// sets, and is handed to the Recorder collaborator when the block completes
// or is stopped mid-way.
type Performance struct {
	Exercise       ExerciseKind
	WeightLbs      *float64
	SetReps        []int
	Scores         []int
	InjuryWarnings int
}

// NewPerformance starts an empty performance record for an exercise.
func NewPerformance(exercise ExerciseKind) *Performance {
	return &Performance{Exercise: exercise}
}

// RecordSet folds one finished set's tracker results into the record.
func (p *Performance) RecordSet(trackers map[pose.Side]*Tracker) {
	total := 0
	for _, side := range pose.Sides {
		t, ok := trackers[side]
		if !ok {
			continue
		}
		p.Scores = append(p.Scores, t.Scores()...)
		if t.InjuryWarning() {
			p.InjuryWarnings++
		}
		total += t.Reps()
	}
	p.SetReps = append(p.SetReps, total)
}

// TotalReps sums reps across all recorded sets.
func (p *Performance) TotalReps() int {
	total := 0
	for _, n := range p.SetReps {
		total += n
	}
	return total
}

// AvgScore is the mean over every recorded rep score, 0 when empty.
func (p *Performance) AvgScore() float64 {
	if len(p.Scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range p.Scores {
		sum += s
	}
	return float64(sum) / float64(len(p.Scores))
}

// BestScore is the highest recorded rep score, 0 when empty.
func (p *Performance) BestScore() int {
	best := 0
	for _, s := range p.Scores {
		if s > best {
			best = s
		}
	}
	return best
}

// WorstScore is the lowest recorded rep score, 0 when empty.
func (p *Performance) WorstScore() int {
	if len(p.Scores) == 0 {
		return 0
	}
	worst := p.Scores[0]
	for _, s := range p.Scores[1:] {
		if s < worst {
			worst = s
		}
	}
	return worst
}

// Empty reports whether nothing was recorded (no sets, no scores).
func (p *Performance) Empty() bool {
	return len(p.SetReps) == 0 && len(p.Scores) == 0
}
