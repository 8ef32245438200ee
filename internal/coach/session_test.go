package coach

import (
	"testing"

	"github.com/claude/gymbuddy/internal/pose"
)

func testTrackers(leftReps, rightReps int) map[pose.Side]*Tracker {
	l := NewTracker(Profiles[BicepCurl], pose.Left)
	r := NewTracker(Profiles[BicepCurl], pose.Right)
	l.reps = leftReps
	r.reps = rightReps
	return map[pose.Side]*Tracker{pose.Left: l, pose.Right: r}
}

// TestSetCompleteEitherSide checks a set ends as soon as either limb hits the
// rep target, even with the other side behind.
func TestSetCompleteEitherSide(t *testing.T) {
	s := NewSession(ExerciseConfig{Sets: 3, Reps: 8, RestSeconds: 60})
	s.Start()

	if s.CheckSetComplete(testTrackers(7, 7)) {
		t.Error("set complete before either side reached the target")
	}
	if !s.CheckSetComplete(testTrackers(8, 3)) {
		t.Error("set not complete with one side at target")
	}
	if !s.CheckSetComplete(testTrackers(2, 8)) {
		t.Error("set not complete with the other side at target")
	}
}

// TestSetCompleteGatedWhileResting checks completion never fires during rest
// or after the session finished.
func TestSetCompleteGatedWhileResting(t *testing.T) {
	s := NewSession(ExerciseConfig{Sets: 1, Reps: 1, RestSeconds: 10})
	s.Start()
	s.BeginRest(0)

	if s.CheckSetComplete(testTrackers(5, 5)) {
		t.Error("set completion must be suppressed while resting")
	}

	s.AdvanceSet() // past the only set: finished
	if !s.Finished() {
		t.Fatal("session should be finished")
	}
	if s.CheckSetComplete(testTrackers(5, 5)) {
		t.Error("set completion must be suppressed after finish")
	}
}

// TestRestCountdown checks the rest clock: remaining time, floor at zero,
// and the done check.
func TestRestCountdown(t *testing.T) {
	s := NewSession(ExerciseConfig{Sets: 3, Reps: 8, RestSeconds: 60})
	s.Start()
	s.BeginRest(100)

	if got := s.RestRemaining(130); got != 30 {
		t.Errorf("RestRemaining = %v, want 30", got)
	}
	if s.CheckRestDone(159.9) {
		t.Error("rest done too early")
	}
	if !s.CheckRestDone(160) {
		t.Error("rest not done after the full duration")
	}
	if got := s.RestRemaining(200); got != 0 {
		t.Errorf("RestRemaining past the end = %v, want 0", got)
	}
}

// TestSessionLifecycle walks all three sets to the terminal state.
func TestSessionLifecycle(t *testing.T) {
	s := NewSession(ExerciseConfig{Sets: 3, Reps: 8, RestSeconds: 60})
	s.Start()
	if s.CurrentSet() != 1 {
		t.Fatalf("CurrentSet = %d, want 1", s.CurrentSet())
	}

	s.BeginRest(0)
	if !s.AdvanceSet() {
		t.Fatal("advance to set 2 should continue")
	}
	if s.Resting() {
		t.Error("advancing must clear the resting flag")
	}
	if s.CurrentSet() != 2 {
		t.Errorf("CurrentSet = %d, want 2", s.CurrentSet())
	}

	if !s.AdvanceSet() {
		t.Fatal("advance to set 3 should continue")
	}
	if s.AdvanceSet() {
		t.Fatal("advance past the last set should report finished")
	}
	if !s.Finished() {
		t.Error("session not finished after the last set")
	}
}

// TestRestWarnOneShot checks the early-movement warning fires once per rest
// period and re-arms when the motion stops or a new rest begins.
func TestRestWarnOneShot(t *testing.T) {
	s := NewSession(ExerciseConfig{Sets: 3, Reps: 8, RestSeconds: 60})
	s.Start()
	s.BeginRest(0)

	if !s.ShouldWarnRestBreak() {
		t.Fatal("first check should warn")
	}
	if s.ShouldWarnRestBreak() {
		t.Fatal("second check must not warn again")
	}

	s.ResetRestWarn()
	if !s.ShouldWarnRestBreak() {
		t.Error("warning should re-arm after motion stops")
	}

	s.AdvanceSet()
	s.BeginRest(70)
	if !s.ShouldWarnRestBreak() {
		t.Error("warning should re-arm for a new rest period")
	}
}

// TestRestWarnOutsideRest checks the warning never fires when not resting.
func TestRestWarnOutsideRest(t *testing.T) {
	s := NewSession(ExerciseConfig{Sets: 3, Reps: 8, RestSeconds: 60})
	s.Start()
	if s.ShouldWarnRestBreak() {
		t.Error("warning fired outside a rest period")
	}
}
