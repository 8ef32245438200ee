package coach

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// ExerciseConfig is one routine entry: which exercise, and its set/rep/rest
// targets. Immutable once loaded.
type ExerciseConfig struct {
	Exercise    ExerciseKind
	Sets        int
	Reps        int
	RestSeconds float64
}

// DisplayName returns the human-readable exercise name.
func (c ExerciseConfig) DisplayName() string {
	if p, ok := Profiles[c.Exercise]; ok {
		return p.DisplayName
	}
	return string(c.Exercise)
}

// Routine is the ordered exercise queue for one workout run: a FIFO queue
// plus a single current slot. Skipped exercises go to the back of the queue,
// never dropped.
type Routine struct {
	queue     []ExerciseConfig
	total     int
	completed int
	current   *ExerciseConfig
	done      bool
}

// NewRoutine creates a routine over the given entries.
func NewRoutine(entries []ExerciseConfig) *Routine {
	return &Routine{queue: append([]ExerciseConfig(nil), entries...), total: len(entries)}
}

// LoadRoutine reads a routine CSV with the header
// exercise,sets,reps,rest_seconds. Entries with an unknown exercise kind or
// unparseable numbers are skipped with a warning; a bad row never fails the
// rest of the routine.
func LoadRoutine(path string, log *slog.Logger) (*Routine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening routine file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading routine file: %w", err)
	}
	if len(rows) == 0 {
		return NewRoutine(nil), nil
	}

	col := map[string]int{}
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, required := range []string{"exercise", "sets", "reps", "rest_seconds"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("routine file missing column %q", required)
		}
	}

	var entries []ExerciseConfig
	for _, row := range rows[1:] {
		kind := ExerciseKind(row[col["exercise"]])
		if !KnownExercise(kind) {
			log.Warn("skipping unknown exercise in routine", "exercise", string(kind))
			continue
		}
		sets, err1 := strconv.Atoi(row[col["sets"]])
		reps, err2 := strconv.Atoi(row[col["reps"]])
		rest, err3 := strconv.ParseFloat(row[col["rest_seconds"]], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			log.Warn("skipping malformed routine entry", "exercise", string(kind))
			continue
		}
		entries = append(entries, ExerciseConfig{
			Exercise:    kind,
			Sets:        sets,
			Reps:        reps,
			RestSeconds: rest,
		})
	}
	return NewRoutine(entries), nil
}

// Current returns the active entry, if any.
func (r *Routine) Current() *ExerciseConfig { return r.current }

// Done reports whether the queue has been exhausted.
func (r *Routine) Done() bool { return r.done }

// Remaining is the number of queued (not current, not completed) entries.
func (r *Routine) Remaining() int { return len(r.queue) }

// Progress returns the "completed/total" display string.
func (r *Routine) Progress() string {
	return fmt.Sprintf("%d/%d", r.completed, r.total)
}

// Advance pops the queue head into the current slot. When the queue is
// empty it marks the routine done and returns nil.
func (r *Routine) Advance() *ExerciseConfig {
	if len(r.queue) == 0 {
		r.done = true
		r.current = nil
		return nil
	}
	cfg := r.queue[0]
	r.queue = r.queue[1:]
	r.current = &cfg
	return r.current
}

// CompleteCurrent counts the current entry as done and clears the slot.
func (r *Routine) CompleteCurrent() {
	r.completed++
	r.current = nil
}

// SkipCurrent defers the current entry to the back of the queue and clears
// the slot.
func (r *Routine) SkipCurrent() {
	if r.current != nil {
		r.queue = append(r.queue, *r.current)
		r.current = nil
	}
}

// Summary returns the display-ordered upcoming list: current first (if any),
// then the queue in FIFO order.
func (r *Routine) Summary() []string {
	var items []string
	if r.current != nil {
		items = append(items, "> "+r.current.DisplayName()+" (current)")
	}
	for _, cfg := range r.queue {
		items = append(items, "  "+cfg.DisplayName())
	}
	return items
}
