package coach

import "github.com/claude/gymbuddy/internal/pose"

// ExerciseKind identifies a supported exercise.
type ExerciseKind string

const (
	BicepCurl    ExerciseKind = "bicep_curl"
	LateralRaise ExerciseKind = "lateral_raise"
)

// Profiles maps exercise kinds to their tracking profiles.
var Profiles = map[ExerciseKind]*Profile{
	BicepCurl:    curlProfile,
	LateralRaise: raiseProfile,
}

// KnownExercise reports whether kind has a registered profile.
func KnownExercise(kind ExerciseKind) bool {
	_, ok := Profiles[kind]
	return ok
}

// RepMetrics accumulates rolling extrema over one repetition. Fields are
// reset to their identity values the instant a rep completes. Which fields a
// given exercise consumes is up to its profile; the identity values make
// unused fields score as "no issue".
type RepMetrics struct {
	MinPrimary    float64 // lowest primary angle seen this rep
	MaxPrimary    float64 // highest primary angle seen this rep
	PeakSwing     float64 // curl: peak shoulder-swing angle
	MinElbow      float64 // raise: lowest elbow angle (arm straightness)
	PeakLean      float64 // peak torso lean
	PeakWristDev  float64 // curl: peak wrist deviation from neutral (180°)
	PeakFlare     float64 // curl: peak elbow-hip lateral distance
	MinSupination float64 // curl: lowest palm-rotation ratio
	ShrugDetected bool    // shoulder hiked toward the ear
}

// Reset restores every accumulator to its identity value.
func (m *RepMetrics) Reset() {
	m.MinPrimary = 180
	m.MaxPrimary = 0
	m.PeakSwing = 0
	m.MinElbow = 180
	m.PeakLean = 0
	m.PeakWristDev = 0
	m.PeakFlare = 0
	m.MinSupination = 1
	m.ShrugDetected = false
}

// Profile describes how one exercise is tracked and scored. The rep-tracking
// kernel (hysteresis, alerts, injury monitoring) is identical across
// exercises; the profile supplies the exercise-specific pieces as plain
// functions and threshold constants.
type Profile struct {
	Kind        ExerciseKind
	DisplayName string

	// Descending is true when contraction lowers the primary angle (curl:
	// the elbow angle shrinks as the weight comes up).
	Descending bool

	// ContractAt is the "closed" threshold: crossing it enters the up phase.
	// ExtendAt is the "open" threshold: crossing back past it completes the
	// rep. The gap between them is the hysteresis band.
	ContractAt float64
	ExtendAt   float64

	// Primary extracts the phase-driving angle from a sample; nil means the
	// whole update is skipped for this frame.
	Primary func(s pose.Sample) *float64

	// Observe accumulates the exercise-specific secondary metrics for one
	// frame. Nil sample fields are skipped.
	Observe func(m *RepMetrics, s pose.Sample)

	// LiveChecks evaluates instantaneous per-frame thresholds, independent
	// of rep boundaries, and raises alerts through trigger.
	LiveChecks func(trigger func(msg string, sev Severity), s pose.Sample, shrug bool)

	// Score maps one rep's accumulated metrics and half-phase durations to a
	// clamped score and an issue list. Pure.
	Score func(m RepMetrics, upTime, downTime float64) (int, []Issue)

	// Moving reports whether the sample shows the exercise motion in
	// progress; used to warn when the user cuts a rest period short.
	Moving func(s pose.Sample) bool
}

// progress converts the current primary angle to a saturating 0..1 fraction
// of the way from fully extended to fully contracted. The same expression
// covers both angle directions because ContractAt and ExtendAt swap sides.
func (p *Profile) progress(primary float64) float64 {
	span := p.ContractAt - p.ExtendAt
	if span == 0 {
		return 0
	}
	raw := (primary - p.ExtendAt) / span
	if raw < 0 {
		return 0
	}
	if raw > 1 {
		return 1
	}
	return raw
}

// contracted reports whether the primary angle has crossed the closed
// threshold, and extended whether it has crossed back past the open one.
func (p *Profile) contracted(primary float64) bool {
	if p.Descending {
		return primary < p.ContractAt
	}
	return primary > p.ContractAt
}

func (p *Profile) extended(primary float64) bool {
	if p.Descending {
		return primary > p.ExtendAt
	}
	return primary < p.ExtendAt
}
