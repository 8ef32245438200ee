package coach

import (
	"strings"
	"testing"

	"github.com/claude/gymbuddy/internal/pose"
	"github.com/claude/gymbuddy/internal/voice"
)

type scriptSpeaker struct {
	said []string
	busy bool
}

func (s *scriptSpeaker) Say(text string) { s.said = append(s.said, text) }
func (s *scriptSpeaker) Busy() bool      { return s.busy }

func (s *scriptSpeaker) saidContaining(sub string) int {
	n := 0
	for _, msg := range s.said {
		if strings.Contains(msg, sub) {
			n++
		}
	}
	return n
}

type captureRecorder struct {
	perfs []*Performance
}

func (r *captureRecorder) Record(p *Performance) { r.perfs = append(r.perfs, p) }

func newTestOrchestrator(routinePath string) (*Orchestrator, *voice.Queue, *scriptSpeaker, *captureRecorder) {
	q := voice.NewQueue(8, testLog())
	sp := &scriptSpeaker{}
	rec := &captureRecorder{}
	return New(q, sp, rec, routinePath, testLog()), q, sp, rec
}

func bothArms(elbow, t float64) pose.Frame {
	return pose.Frame{
		T:     t,
		Left:  pose.Sample{Elbow: pose.Float(elbow)},
		Right: pose.Sample{Elbow: pose.Float(elbow)},
	}
}

func leftArm(elbow, t float64) pose.Frame {
	return pose.Frame{T: t, Left: pose.Sample{Elbow: pose.Float(elbow)}}
}

// TestAdHocExercise starts a curl by name, performs one rep on both arms,
// then stops. The partial performance must be flushed to the recorder with
// the stated weight attached.
func TestAdHocExercise(t *testing.T) {
	orch, q, sp, rec := newTestOrchestrator("")

	q.Push(voice.Command{Intent: voice.IntentStartCurl, WeightLbs: pose.Float(20)})
	orch.Tick(pose.Frame{T: 0}, 0)
	if got := orch.Status().State; got != StateActive {
		t.Fatalf("state = %q, want active", got)
	}

	orch.Tick(bothArms(150, 0.1), 0.1)
	orch.Tick(bothArms(55, 1.1), 1.1)
	orch.Tick(bothArms(150, 2.3), 2.3)

	st := orch.Status()
	if len(st.Trackers) != 2 || st.Trackers[0].Reps != 1 || st.Trackers[1].Reps != 1 {
		t.Fatalf("tracker status = %+v, want 1 rep each side", st.Trackers)
	}

	q.Push(voice.Command{Intent: voice.IntentStop})
	orch.Tick(pose.Frame{T: 2.4}, 2.4)

	if got := orch.Status().State; got != StateIdle {
		t.Fatalf("state after stop = %q, want idle", got)
	}
	if len(rec.perfs) != 1 {
		t.Fatalf("recorded performances = %d, want 1", len(rec.perfs))
	}
	p := rec.perfs[0]
	if p.Exercise != BicepCurl || p.TotalReps() != 2 {
		t.Errorf("performance = %+v, want bicep_curl with 2 total reps", p)
	}
	if p.WeightLbs == nil || *p.WeightLbs != 20 {
		t.Errorf("weight = %v, want 20", p.WeightLbs)
	}
	if sp.saidContaining("Workout stopped") != 1 {
		t.Errorf("speech = %v, want one stop confirmation", sp.said)
	}
}

// TestStopWithoutRepsRecordsNothing checks stopping before any rep completes
// discards the empty performance.
func TestStopWithoutRepsRecordsNothing(t *testing.T) {
	orch, q, _, rec := newTestOrchestrator("")

	q.Push(voice.Command{Intent: voice.IntentStartCurl})
	orch.Tick(pose.Frame{T: 0}, 0)
	q.Push(voice.Command{Intent: voice.IntentStop})
	orch.Tick(pose.Frame{T: 1}, 1)

	if len(rec.perfs) != 0 {
		t.Errorf("recorded performances = %d, want 0", len(rec.perfs))
	}
}

// TestStopMidBlockKeepsCompletedSets checks stopping during a later set that
// has no reps yet records only the sets that finished, not an empty tail set.
func TestStopMidBlockKeepsCompletedSets(t *testing.T) {
	path := writeRoutine(t, `exercise,sets,reps,rest_seconds
bicep_curl,2,1,1
`)
	orch, q, _, rec := newTestOrchestrator(path)

	q.Push(voice.Command{Intent: voice.IntentStartWorkout})
	orch.Tick(pose.Frame{T: 0}, 0)
	q.Push(voice.Command{Intent: voice.IntentReady})
	orch.Tick(pose.Frame{T: 1}, 1)

	orch.Tick(leftArm(150, 1.1), 1.1)
	orch.Tick(leftArm(55, 2.1), 2.1)
	orch.Tick(leftArm(150, 3.3), 3.3)
	if got := orch.Status().State; got != StateResting {
		t.Fatalf("state = %q, want resting", got)
	}

	// Rest elapses into set 2, then stop before its first rep.
	orch.Tick(pose.Frame{T: 4.5}, 4.5)
	if got := orch.Status().State; got != StateActive {
		t.Fatalf("state = %q, want active", got)
	}
	q.Push(voice.Command{Intent: voice.IntentStop})
	orch.Tick(pose.Frame{T: 5}, 5)

	if len(rec.perfs) != 1 {
		t.Fatalf("recorded performances = %d, want 1", len(rec.perfs))
	}
	p := rec.perfs[0]
	if len(p.SetReps) != 1 || p.TotalReps() != 1 {
		t.Errorf("sets = %v, want one completed set with one rep", p.SetReps)
	}
}

// TestConversationalReply checks a no-intent command with a reply is spoken
// verbatim and changes no state.
func TestConversationalReply(t *testing.T) {
	orch, q, sp, _ := newTestOrchestrator("")

	q.Push(voice.Command{Intent: voice.IntentNone, Reply: "You have two exercises left."})
	orch.Tick(pose.Frame{T: 0}, 0)

	if got := orch.Status().State; got != StateIdle {
		t.Errorf("state = %q, want idle", got)
	}
	if len(sp.said) != 1 || sp.said[0] != "You have two exercises left." {
		t.Errorf("speech = %v, want the reply verbatim", sp.said)
	}
}

// TestRoutineFlow drives a single-exercise routine end to end: start workout,
// confirm ready, complete the only set, sit out the rest, and land back in
// idle with the performance recorded.
func TestRoutineFlow(t *testing.T) {
	path := writeRoutine(t, `exercise,sets,reps,rest_seconds
bicep_curl,1,1,1
`)
	orch, q, sp, rec := newTestOrchestrator(path)

	q.Push(voice.Command{Intent: voice.IntentStartWorkout})
	orch.Tick(pose.Frame{T: 0}, 0)
	if got := orch.Status().State; got != StateAnnounce {
		t.Fatalf("state = %q, want announce", got)
	}

	q.Push(voice.Command{Intent: voice.IntentReady})
	orch.Tick(pose.Frame{T: 1}, 1)
	if got := orch.Status().State; got != StateActive {
		t.Fatalf("state = %q, want active", got)
	}

	// One left-arm rep fills the one-rep set and starts the rest period.
	orch.Tick(leftArm(150, 1.1), 1.1)
	orch.Tick(leftArm(55, 2.1), 2.1)
	orch.Tick(leftArm(150, 3.3), 3.3)
	if got := orch.Status().State; got != StateResting {
		t.Fatalf("state = %q, want resting", got)
	}

	// Rest elapses; the only set is done, so the block finishes and the
	// routine is exhausted.
	orch.Tick(pose.Frame{T: 4.5}, 4.5)
	if got := orch.Status().State; got != StateIdle {
		t.Fatalf("state = %q, want idle", got)
	}
	if len(rec.perfs) != 1 {
		t.Fatalf("recorded performances = %d, want 1", len(rec.perfs))
	}
	if rec.perfs[0].TotalReps() != 1 {
		t.Errorf("total reps = %d, want 1", rec.perfs[0].TotalReps())
	}
	if sp.saidContaining("Great workout") != 1 {
		t.Errorf("speech = %v, want workout completion phrase", sp.said)
	}
}

// TestSkipDefersExercise checks skipping during announce moves the current
// exercise to the back of the queue and announces the next one.
func TestSkipDefersExercise(t *testing.T) {
	path := writeRoutine(t, `exercise,sets,reps,rest_seconds
bicep_curl,1,1,1
lateral_raise,1,1,1
`)
	orch, q, sp, _ := newTestOrchestrator(path)

	q.Push(voice.Command{Intent: voice.IntentStartWorkout})
	orch.Tick(pose.Frame{T: 0}, 0)
	q.Push(voice.Command{Intent: voice.IntentSkip})
	orch.Tick(pose.Frame{T: 1}, 1)

	st := orch.Status()
	if st.State != StateAnnounce {
		t.Fatalf("state = %q, want announce", st.State)
	}
	if st.Routine == nil || len(st.Routine.Upcoming) != 2 {
		t.Fatalf("routine status = %+v, want current plus one queued", st.Routine)
	}
	if !strings.Contains(st.Routine.Upcoming[0], "Lateral Raise (current)") {
		t.Errorf("current = %q, want lateral raise", st.Routine.Upcoming[0])
	}
	if !strings.Contains(st.Routine.Upcoming[1], "Bicep Curl") {
		t.Errorf("queued = %q, want deferred bicep curl", st.Routine.Upcoming[1])
	}
	if sp.saidContaining("Skipped") != 1 {
		t.Errorf("speech = %v, want skip confirmation", sp.said)
	}
}

// TestRestBreakWarning checks moving during rest draws a single warning that
// re-arms only after the motion stops.
func TestRestBreakWarning(t *testing.T) {
	path := writeRoutine(t, `exercise,sets,reps,rest_seconds
bicep_curl,2,1,60
`)
	orch, q, sp, _ := newTestOrchestrator(path)

	q.Push(voice.Command{Intent: voice.IntentStartWorkout})
	orch.Tick(pose.Frame{T: 0}, 0)
	q.Push(voice.Command{Intent: voice.IntentReady})
	orch.Tick(pose.Frame{T: 1}, 1)

	orch.Tick(leftArm(150, 1.1), 1.1)
	orch.Tick(leftArm(55, 2.1), 2.1)
	orch.Tick(leftArm(150, 3.3), 3.3)
	if got := orch.Status().State; got != StateResting {
		t.Fatalf("state = %q, want resting", got)
	}

	// Curling during rest (elbow below 90 counts as motion).
	orch.Tick(leftArm(50, 4), 4)
	orch.Tick(leftArm(50, 5), 5)
	if got := sp.saidContaining("Take more time to rest"); got != 1 {
		t.Fatalf("rest warnings = %d, want exactly 1 while motion continues", got)
	}

	// Motion stops, then resumes: the warning re-arms.
	orch.Tick(pose.Frame{T: 6}, 6)
	orch.Tick(leftArm(50, 7), 7)
	if got := sp.saidContaining("Take more time to rest"); got != 2 {
		t.Errorf("rest warnings = %d, want 2 after re-arm", got)
	}
}

// TestDrainSpeechPraisesRep checks a clean rep's queued phrase is spoken on
// the tick it completes, but held back while the speaker is busy.
func TestDrainSpeechPraisesRep(t *testing.T) {
	orch, q, sp, _ := newTestOrchestrator("")

	q.Push(voice.Command{Intent: voice.IntentStartCurl})
	orch.Tick(pose.Frame{T: 0}, 0)

	sp.busy = true
	orch.Tick(leftArm(160, 0.1), 0.1)
	orch.Tick(leftArm(55, 1.1), 1.1)
	orch.Tick(leftArm(160, 2.3), 2.3)
	if got := sp.saidContaining(genericPraiseMessage); got != 0 {
		t.Fatalf("praise spoken while speaker busy: %v", sp.said)
	}

	sp.busy = false
	orch.Tick(pose.Frame{T: 2.4}, 2.4)
	if got := sp.saidContaining(genericPraiseMessage); got != 1 {
		t.Errorf("praise count = %d, want 1 after speaker frees up", got)
	}
}

// TestWeightAttachesMidBlock checks a weight stated during an active block
// lands on the in-flight performance.
func TestWeightAttachesMidBlock(t *testing.T) {
	orch, q, _, rec := newTestOrchestrator("")

	q.Push(voice.Command{Intent: voice.IntentStartCurl})
	orch.Tick(pose.Frame{T: 0}, 0)

	orch.Tick(leftArm(160, 0.1), 0.1)
	orch.Tick(leftArm(55, 1.1), 1.1)
	orch.Tick(leftArm(160, 2.3), 2.3)

	q.Push(voice.Command{Intent: voice.IntentNone, WeightLbs: pose.Float(25)})
	orch.Tick(pose.Frame{T: 2.5}, 2.5)

	q.Push(voice.Command{Intent: voice.IntentStop})
	orch.Tick(pose.Frame{T: 2.6}, 2.6)

	if len(rec.perfs) != 1 {
		t.Fatalf("recorded performances = %d, want 1", len(rec.perfs))
	}
	if w := rec.perfs[0].WeightLbs; w == nil || *w != 25 {
		t.Errorf("weight = %v, want 25", w)
	}
}

// TestCommandsIgnoredInWrongState checks commands that make no sense in the
// current state are dropped without a transition.
func TestCommandsIgnoredInWrongState(t *testing.T) {
	orch, q, _, _ := newTestOrchestrator("")

	q.Push(voice.Command{Intent: voice.IntentReady})
	orch.Tick(pose.Frame{T: 0}, 0)
	if got := orch.Status().State; got != StateIdle {
		t.Errorf("state = %q, want idle after ready-while-idle", got)
	}

	q.Push(voice.Command{Intent: voice.IntentSkip})
	orch.Tick(pose.Frame{T: 1}, 1)
	if got := orch.Status().State; got != StateIdle {
		t.Errorf("state = %q, want idle after skip-while-idle", got)
	}
}

// TestStartWorkoutMissingRoutine checks a missing routine file is reported
// and leaves the coach idle.
func TestStartWorkoutMissingRoutine(t *testing.T) {
	orch, q, sp, _ := newTestOrchestrator("/does/not/exist.csv")

	q.Push(voice.Command{Intent: voice.IntentStartWorkout})
	orch.Tick(pose.Frame{T: 0}, 0)

	if got := orch.Status().State; got != StateIdle {
		t.Errorf("state = %q, want idle", got)
	}
	if sp.saidContaining("not found") != 1 {
		t.Errorf("speech = %v, want missing-file message", sp.said)
	}
}
