package coach

import "github.com/claude/gymbuddy/internal/pose"

// Session is the set/rest state machine for one exercise block. Reps per
// set, rest duration, and total sets are fixed at construction; the caller
// contract is that all three are positive. Timing is wall-clock based (the
// caller passes the frame stream's monotonic seconds), never frame counts,
// so rest countdowns survive frame-rate jitter.
type Session struct {
	repsPerSet  int
	restSeconds float64
	totalSets   int

	currentSet int
	resting    bool
	restStart  float64
	restWarned bool
	finished   bool
}

// NewSession creates a session for the given exercise configuration.
func NewSession(cfg ExerciseConfig) *Session {
	return &Session{
		repsPerSet:  cfg.Reps,
		restSeconds: cfg.RestSeconds,
		totalSets:   cfg.Sets,
	}
}

// Start moves the session to set 1.
func (s *Session) Start() {
	s.currentSet = 1
	s.resting = false
	s.finished = false
	s.restWarned = false
}

// CurrentSet returns the 1-based set number.
func (s *Session) CurrentSet() int { return s.currentSet }

// TotalSets returns the configured set count.
func (s *Session) TotalSets() int { return s.totalSets }

// RepsPerSet returns the configured rep target per set.
func (s *Session) RepsPerSet() int { return s.repsPerSet }

// RestSeconds returns the configured rest duration.
func (s *Session) RestSeconds() float64 { return s.restSeconds }

// Resting reports whether a rest period is in progress.
func (s *Session) Resting() bool { return s.resting }

// Finished reports whether every set is done. Terminal.
func (s *Session) Finished() bool { return s.finished }

// CheckSetComplete is true once any one side's rep count reaches the target,
// even if the other side is behind. The OR across sides is deliberate:
// either limb hitting the target ends the set. Only meaningful while
// actively exercising.
func (s *Session) CheckSetComplete(trackers map[pose.Side]*Tracker) bool {
	if s.resting || s.finished {
		return false
	}
	for _, t := range trackers {
		if t.Reps() >= s.repsPerSet {
			return true
		}
	}
	return false
}

// BeginRest starts the rest period at time now and re-arms the one-shot
// rest-break warning.
func (s *Session) BeginRest(now float64) {
	s.resting = true
	s.restStart = now
	s.restWarned = false
}

// RestRemaining returns the rest seconds left, floored at zero.
func (s *Session) RestRemaining(now float64) float64 {
	if !s.resting {
		return 0
	}
	rem := s.restSeconds - (now - s.restStart)
	if rem < 0 {
		return 0
	}
	return rem
}

// CheckRestDone is true once the rest period has elapsed.
func (s *Session) CheckRestDone(now float64) bool {
	return s.resting && s.RestRemaining(now) <= 0
}

// AdvanceSet moves to the next set, returning true, or to the finished
// terminal state, returning false, once the set counter passes the total.
func (s *Session) AdvanceSet() bool {
	s.resting = false
	s.currentSet++
	if s.currentSet > s.totalSets {
		s.finished = true
		return false
	}
	return true
}

// ShouldWarnRestBreak fires at most once per rest period, letting the caller
// interrupt rest with a spoken warning when the user starts moving too
// early. ResetRestWarn re-arms it once the motion stops.
func (s *Session) ShouldWarnRestBreak() bool {
	if !s.resting || s.restWarned {
		return false
	}
	s.restWarned = true
	return true
}

// ResetRestWarn re-arms the rest-break warning.
func (s *Session) ResetRestWarn() {
	s.restWarned = false
}
