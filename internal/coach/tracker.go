package coach

import "github.com/claude/gymbuddy/internal/pose"

// Phase is the half of the rep cycle a limb is currently in.
type Phase string

const (
	PhaseDown Phase = "down"
	PhaseUp   Phase = "up"
)

// Shrug reference calibration: the shoulder-to-ear baseline self-calibrates
// from the running maximum of the first shrugCalibrationSamples valid samples
// before it starts flagging deviations.
const (
	shrugCalibrationSamples = 30
	shrugRatioWarn          = 0.65
)

// Tracker detects repetitions for one limb side using hysteresis on the
// profile's primary angle, accumulates per-rep form metrics, and scores each
// rep as it completes. One pair is created per exercise block and discarded
// with it, never reused.
type Tracker struct {
	kernel
	profile *Profile

	phase      Phase
	metrics    RepMetrics
	curPrimary float64
	phaseStart float64
	upTime     float64

	refShEar   float64
	shEarCount int
}

// NewTracker returns a tracker for one side running the given profile.
func NewTracker(profile *Profile, side pose.Side) *Tracker {
	t := &Tracker{
		kernel:  newKernel(side),
		profile: profile,
		phase:   PhaseDown,
	}
	t.metrics.Reset()
	t.curPrimary = t.profile.ExtendAt
	return t
}

// Side returns which limb this tracker watches.
func (t *Tracker) Side() pose.Side { return t.side }

// Reps returns the monotone count of completed repetitions.
func (t *Tracker) Reps() int { return t.reps }

// Phase returns the current rep phase.
func (t *Tracker) Phase() Phase { return t.phase }

// LastScore is the most recent completed rep's score, 0 before the first rep.
func (t *Tracker) LastScore() int { return t.lastScore }

// Scores returns the append-only per-rep score history.
func (t *Tracker) Scores() []int { return t.scoreHistory }

// InjuryWarning reports whether the injury monitor is currently escalated.
func (t *Tracker) InjuryWarning() bool { return t.injuryWarning }

// Progress is the saturating 0..1 fraction of the way through the current
// contraction.
func (t *Tracker) Progress() float64 {
	return t.profile.progress(t.curPrimary)
}

// Update consumes one frame of measurements. The profile's primary angle is
// required; any other nil field simply skips that metric for the frame. A
// frame whose primary angle is missing is a no-op.
func (t *Tracker) Update(s pose.Sample, now float64) {
	pv := t.profile.Primary(s)
	if pv == nil {
		return
	}
	primary := *pv
	t.curPrimary = primary

	if primary < t.metrics.MinPrimary {
		t.metrics.MinPrimary = primary
	}
	if primary > t.metrics.MaxPrimary {
		t.metrics.MaxPrimary = primary
	}
	if s.Lean != nil && *s.Lean > t.metrics.PeakLean {
		t.metrics.PeakLean = *s.Lean
	}
	t.profile.Observe(&t.metrics, s)
	t.updateShrugRef(s.ShoulderEar)

	t.profile.LiveChecks(func(msg string, sev Severity) {
		t.alerts.Trigger(msg, sev, now)
	}, s, t.metrics.ShrugDetected)

	switch {
	case t.phase == PhaseDown && t.profile.contracted(primary):
		t.phase = PhaseUp
		if t.phaseStart > 0 {
			t.upTime = now - t.phaseStart
		} else {
			t.upTime = 0
		}
		t.phaseStart = now
	case t.phase == PhaseUp && t.profile.extended(primary):
		downTime := 0.0
		if t.phaseStart > 0 {
			downTime = now - t.phaseStart
		}
		t.finishRep(now, downTime)
	}
}

// updateShrugRef feeds the shoulder-to-ear baseline calibrator. Once
// calibrated, a distance shrinking well below the baseline marks a shrug for
// the current rep.
func (t *Tracker) updateShrugRef(shEar *float64) {
	if shEar == nil || *shEar < 0.01 {
		return
	}
	if t.shEarCount < shrugCalibrationSamples {
		t.shEarCount++
		if *shEar > t.refShEar {
			t.refShEar = *shEar
		}
	} else if t.refShEar > 0 && *shEar < t.refShEar*shrugRatioWarn {
		t.metrics.ShrugDetected = true
	}
}

// finishRep completes the rep on the up→down transition: scores the
// accumulated metrics, commits the result through the kernel, and atomically
// resets every per-rep accumulator to its identity value.
func (t *Tracker) finishRep(now, downTime float64) {
	t.phase = PhaseDown
	t.phaseStart = now

	score, issues := t.profile.Score(t.metrics, t.upTime, downTime)
	t.commitRep(score, issues, now)

	t.metrics.Reset()
	t.upTime = 0
}
