package coach

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/claude/gymbuddy/internal/pose"
	"github.com/claude/gymbuddy/internal/voice"
)

// State is the orchestrator's top-level mode.
type State string

const (
	StateIdle     State = "idle"
	StateAnnounce State = "announce"
	StateActive   State = "active"
	StateResting  State = "resting"
)

// Ad-hoc sessions (a specific exercise started by name, outside a routine)
// use this default block shape.
var adHocConfig = ExerciseConfig{Sets: 3, Reps: 8, RestSeconds: 60}

// Recorder receives a completed (or stopped) exercise block's performance.
// Implementations must not block the frame loop.
type Recorder interface {
	Record(p *Performance)
}

// Orchestrator is the top-level state machine. It consumes at most one
// classified voice command per frame, drives the tracker pair, session, and
// routine, and publishes a read-only status snapshot each frame. All methods
// except Status must be called from the single frame-loop goroutine.
type Orchestrator struct {
	log         *slog.Logger
	speaker     voice.Speaker
	recorder    Recorder
	intents     *voice.Queue
	routinePath string

	state    State
	profile  *Profile
	trackers map[pose.Side]*Tracker
	session  *Session
	routine  *Routine
	perf     *Performance

	mu     sync.Mutex
	status Status
}

// New creates an idle orchestrator. routinePath is the CSV loaded when a
// "start workout" command arrives.
func New(intents *voice.Queue, speaker voice.Speaker, recorder Recorder, routinePath string, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		log:         log,
		speaker:     speaker,
		recorder:    recorder,
		intents:     intents,
		routinePath: routinePath,
		state:       StateIdle,
	}
}

// Status returns the most recently published snapshot. Safe to call from
// any goroutine.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Tick processes one captured frame at monotonic time now. Exactly one call
// per frame; this is the only entry point that mutates core state.
func (o *Orchestrator) Tick(f pose.Frame, now float64) {
	cmd, hasCmd := o.intents.Pop()
	if hasCmd {
		o.handleCommand(cmd)
	}

	if o.state == StateActive {
		for _, side := range pose.Sides {
			o.trackers[side].Update(f.Side(side), now)
		}
	}

	o.manageSession(f, now)
	o.drainSpeech()

	st := o.snapshot(now)
	o.mu.Lock()
	o.status = st
	o.mu.Unlock()
}

// handleCommand applies one classified voice command. Transitions are
// total: a command that makes no sense in the current state is ignored.
func (o *Orchestrator) handleCommand(cmd voice.Command) {
	// A stated weight attaches to the current block at any point.
	if cmd.WeightLbs != nil && o.perf != nil {
		o.perf.WeightLbs = cmd.WeightLbs
		o.log.Info("recorded weight", "lbs", *cmd.WeightLbs)
	}

	// Pure conversation: no command intent, just a reply to speak.
	if cmd.Intent == voice.IntentNone {
		if cmd.Reply != "" {
			o.speaker.Say(cmd.Reply)
		}
		return
	}

	if cmd.Intent == voice.IntentStop {
		if o.state != StateIdle {
			o.flushPerformance()
			o.respond(cmd.Reply, "Workout stopped.", "")
			o.log.Info("state -> idle (stopped)")
		}
		o.goIdle()
		return
	}

	switch o.state {
	case StateIdle:
		o.handleIdleCommand(cmd)
	case StateAnnounce:
		o.handleAnnounceCommand(cmd)
	}
}

func (o *Orchestrator) handleIdleCommand(cmd voice.Command) {
	switch cmd.Intent {
	case voice.IntentStartWorkout:
		routine, err := LoadRoutine(o.routinePath, o.log)
		if err != nil {
			o.respond(cmd.Reply, "Workout file not found.", "")
			o.log.Warn("routine load failed", "path", o.routinePath, "error", err)
			return
		}
		cfg := routine.Advance()
		if cfg == nil {
			o.respond(cmd.Reply, "Workout file is empty.", "")
			return
		}
		o.routine = routine
		o.perf = NewPerformance(cfg.Exercise)
		o.state = StateAnnounce
		o.respond(cmd.Reply, "Starting workout.", announceInfo("First up", cfg))
		o.log.Info("state -> announce", "exercise", cfg.DisplayName())

	case voice.IntentStartCurl, voice.IntentStartRaise:
		cfg := adHocConfig
		cfg.Exercise = adHocExercise(cmd.Intent)
		o.perf = NewPerformance(cfg.Exercise)
		if cmd.WeightLbs != nil {
			o.perf.WeightLbs = cmd.WeightLbs
		}
		o.startExercise(cfg)
		o.respond(cmd.Reply,
			fmt.Sprintf("Starting %s.", cfg.DisplayName()),
			fmt.Sprintf("Set 1 of %d. Say your weight anytime, like 20 pounds.", cfg.Sets))
		o.log.Info("state -> active (ad-hoc)", "exercise", cfg.DisplayName())
	}
}

func (o *Orchestrator) handleAnnounceCommand(cmd voice.Command) {
	if o.routine == nil || o.routine.Current() == nil {
		return
	}

	switch cmd.Intent {
	case voice.IntentReady, voice.IntentStartCurl, voice.IntentStartRaise:
		cfg := *o.routine.Current()
		if o.perf == nil {
			o.perf = NewPerformance(cfg.Exercise)
		}
		if cmd.WeightLbs != nil {
			o.perf.WeightLbs = cmd.WeightLbs
		}
		o.startExercise(cfg)
		weightNote := ""
		if o.perf.WeightLbs != nil {
			weightNote = fmt.Sprintf(" at %.0f lbs", *o.perf.WeightLbs)
		}
		o.respond(cmd.Reply, "Let's go!",
			fmt.Sprintf("%s, set 1 of %d%s.", cfg.DisplayName(), cfg.Sets, weightNote))
		o.log.Info("state -> active", "exercise", cfg.DisplayName(), "sets", cfg.Sets)

	case voice.IntentSkip:
		skipped := o.routine.Current().DisplayName()
		o.perf = nil
		o.routine.SkipCurrent()
		next := o.routine.Advance()
		if next != nil {
			o.perf = NewPerformance(next.Exercise)
			o.respond(cmd.Reply,
				fmt.Sprintf("Skipped %s.", skipped),
				announceInfo("Next", next))
			o.log.Info("state -> announce (skipped)", "skipped", skipped, "next", next.DisplayName())
		} else {
			o.respond(cmd.Reply, "No more exercises. Workout done!", "")
			o.log.Info("state -> idle (routine exhausted)")
			o.goIdle()
		}
	}
}

// manageSession advances the set/rest machinery from this frame's
// measurements and clock.
func (o *Orchestrator) manageSession(f pose.Frame, now float64) {
	if o.session == nil || o.session.Finished() {
		return
	}

	switch o.state {
	case StateResting:
		if o.motionDetected(f) {
			if !o.speaker.Busy() && o.session.ShouldWarnRestBreak() {
				rem := int(o.session.RestRemaining(now))
				o.speaker.Say(fmt.Sprintf("Take more time to rest. %d seconds remaining.", rem))
			}
		} else {
			o.session.ResetRestWarn()
		}

		if o.session.CheckRestDone(now) {
			if o.session.AdvanceSet() {
				o.trackers = newTrackerPair(o.profile)
				o.state = StateActive
				o.speaker.Say(fmt.Sprintf("Rest over. Set %d of %d. Let's go!",
					o.session.CurrentSet(), o.session.TotalSets()))
				o.log.Info("state -> active", "set", o.session.CurrentSet(), "total", o.session.TotalSets())
			} else {
				o.finishExercise()
			}
		}

	case StateActive:
		if o.session.CheckSetComplete(o.trackers) {
			if o.perf != nil {
				o.perf.RecordSet(o.trackers)
			}
			o.session.BeginRest(now)
			o.state = StateResting
			o.speaker.Say(fmt.Sprintf("Set %d done! Rest for %d seconds.",
				o.session.CurrentSet(), int(o.session.RestSeconds())))
			o.log.Info("state -> resting", "set", o.session.CurrentSet())
		}
	}
}

// finishExercise completes the current block: persists its performance and
// either announces the next routine entry or returns to idle.
func (o *Orchestrator) finishExercise() {
	if o.perf != nil && !o.perf.Empty() {
		o.recorder.Record(o.perf)
	}
	o.perf = nil

	if o.routine != nil {
		o.routine.CompleteCurrent()
		next := o.routine.Advance()
		if next != nil {
			o.state = StateAnnounce
			o.session = nil
			o.trackers = nil
			o.profile = nil
			o.perf = NewPerformance(next.Exercise)
			o.speaker.Say("Exercise complete! " + announceInfo("Next", next))
			o.log.Info("state -> announce", "exercise", next.DisplayName())
			return
		}
		o.speaker.Say("All exercises complete. Great workout!")
		o.log.Info("state -> idle (routine complete)")
	} else {
		o.speaker.Say("All sets complete. Great workout!")
		o.log.Info("state -> idle (exercise complete)")
	}
	o.goIdle()
}

// drainSpeech pops at most one queued tracker phrase per frame, and only
// while the speech collaborator is free.
func (o *Orchestrator) drainSpeech() {
	if o.state != StateActive || o.speaker.Busy() {
		return
	}
	for _, side := range pose.Sides {
		t, ok := o.trackers[side]
		if !ok {
			continue
		}
		if text, ok := t.TakeSpeech(); ok {
			o.speaker.Say(text)
			return
		}
	}
}

// startExercise begins an exercise block from its config.
func (o *Orchestrator) startExercise(cfg ExerciseConfig) {
	o.profile = Profiles[cfg.Exercise]
	o.trackers = newTrackerPair(o.profile)
	o.session = NewSession(cfg)
	o.session.Start()
	o.state = StateActive
}

// flushPerformance hands whatever completed-rep history exists to the
// recorder before the block is discarded. Called on stop, before teardown;
// the recorder's own failures never roll this transition back.
func (o *Orchestrator) flushPerformance() {
	if o.perf == nil {
		return
	}
	for _, side := range pose.Sides {
		if t, ok := o.trackers[side]; ok && t.Reps() > 0 {
			o.perf.RecordSet(o.trackers)
			break
		}
	}
	if !o.perf.Empty() {
		o.recorder.Record(o.perf)
	}
}

func (o *Orchestrator) goIdle() {
	o.state = StateIdle
	o.profile = nil
	o.trackers = nil
	o.session = nil
	o.routine = nil
	o.perf = nil
}

// motionDetected reports whether either side's sample shows the active
// exercise motion.
func (o *Orchestrator) motionDetected(f pose.Frame) bool {
	if o.profile == nil {
		return false
	}
	return o.profile.Moving(f.Left) || o.profile.Moving(f.Right)
}

// respond speaks the classifier's conversational reply when present, the
// default phrase otherwise, with optional appended detail.
func (o *Orchestrator) respond(reply, fallback, info string) {
	base := fallback
	if reply != "" {
		base = reply
	}
	if info != "" {
		base = strings.TrimSpace(base + " " + info)
	}
	o.speaker.Say(base)
}

func announceInfo(lead string, cfg *ExerciseConfig) string {
	return fmt.Sprintf("%s: %s. %d sets of %d reps. "+
		"Say start when ready, or start with your weight, like start 20 pounds. Skip to do later.",
		lead, cfg.DisplayName(), cfg.Sets, cfg.Reps)
}

func newTrackerPair(profile *Profile) map[pose.Side]*Tracker {
	return map[pose.Side]*Tracker{
		pose.Left:  NewTracker(profile, pose.Left),
		pose.Right: NewTracker(profile, pose.Right),
	}
}

func adHocExercise(intent voice.Intent) ExerciseKind {
	if intent == voice.IntentStartRaise {
		return LateralRaise
	}
	return BicepCurl
}
