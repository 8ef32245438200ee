package coach

import "github.com/claude/gymbuddy/internal/pose"

// Lateral raise thresholds. The primary angle is shoulder abduction
// (elbow-shoulder-hip): it rises past raiseTop as the arm comes up and
// falls below raiseBottom when lowered.
const (
	raiseTop    = 70
	raiseBottom = 30

	raiseWeightHeight    = 25
	raiseWeightElbowBend = 15
	raiseWeightShrug     = 15
	raiseWeightLean      = 15
	raiseWeightOverRaise = 10
	raiseWeightTempoUp   = 10
	raiseWeightTempoDown = 10

	raiseHeightGood = 75
	raiseHeightOK   = 55
	raiseOverRaise  = 110

	raiseElbowTooBent      = 120
	raiseElbowSlightlyBent = 145
	raiseElbowTooStraight  = 175

	raiseLeanOK   = 8
	raiseLeanWarn = 15
	raiseLeanBad  = 25

	raiseUpMin   = 0.6
	raiseUpMax   = 3.0
	raiseDownMin = 0.8
	raiseDownMax = 4.0
)

var raiseProfile = &Profile{
	Kind:        LateralRaise,
	DisplayName: "Lateral Raise",
	Descending:  false,
	ContractAt:  raiseTop,
	ExtendAt:    raiseBottom,

	Primary: func(s pose.Sample) *float64 { return s.Shoulder },

	Observe: func(m *RepMetrics, s pose.Sample) {
		if s.Elbow != nil && *s.Elbow < m.MinElbow {
			m.MinElbow = *s.Elbow
		}
	},

	LiveChecks: func(trigger func(msg string, sev Severity), s pose.Sample, shrug bool) {
		if s.Shoulder != nil && *s.Shoulder > raiseOverRaise {
			trigger("Too high! Stop at shoulder level", SevBad)
		}
		if s.Lean != nil {
			if *s.Lean > raiseLeanBad {
				trigger("Stop swaying!", SevBad)
			} else if *s.Lean > raiseLeanWarn {
				trigger("Brace your core", SevWarn)
			}
		}
		if shrug {
			trigger("Relax traps - don't shrug!", SevWarn)
		}
		if s.Elbow != nil {
			if *s.Elbow < raiseElbowTooBent {
				trigger("Straighten arms more!", SevWarn)
			} else if *s.Elbow > raiseElbowTooStraight {
				trigger("Bend elbows slightly!", SevWarn)
			}
		}
	},

	Score: scoreRaise,

	Moving: func(s pose.Sample) bool {
		return s.Shoulder != nil && *s.Shoulder > 50
	},
}

// scoreRaise applies the lateral raise's check list with the same
// floor-division fraction rules as the curl scorer.
func scoreRaise(m RepMetrics, upTime, downTime float64) (int, []Issue) {
	score := 100
	var issues []Issue

	if m.MaxPrimary < raiseHeightOK {
		issues = append(issues, Issue{"Raise arms higher - reach shoulder level", SevBad})
		score -= raiseWeightHeight
	} else if m.MaxPrimary < raiseHeightGood {
		issues = append(issues, Issue{"Almost there - raise a bit higher", SevWarn})
		score -= raiseWeightHeight / 2
	}

	if m.MaxPrimary > raiseOverRaise {
		issues = append(issues, Issue{"Arms too high - stop at shoulder level", SevWarn})
		score -= raiseWeightOverRaise
	}

	if m.MinElbow < raiseElbowTooBent {
		issues = append(issues, Issue{"Arms too bent - extend elbows more", SevWarn})
		score -= raiseWeightElbowBend
	} else if m.MinElbow < raiseElbowSlightlyBent {
		issues = append(issues, Issue{"Elbows bending a bit much", SevInfo})
		score -= raiseWeightElbowBend / 3
	} else if m.MinElbow > raiseElbowTooStraight && m.MinElbow < 180 {
		// MinElbow stuck at its identity value means no elbow data arrived
		// this rep; that is a signal gap, not a locked-out arm.
		issues = append(issues, Issue{"Don't lock elbows - keep a slight bend", SevInfo})
		score -= raiseWeightElbowBend / 4
	}

	if m.ShrugDetected {
		issues = append(issues, Issue{"Traps taking over - relax shoulders down", SevWarn})
		score -= raiseWeightShrug
	}

	if m.PeakLean > raiseLeanBad {
		issues = append(issues, Issue{"Too much body sway - using momentum", SevBad})
		score -= raiseWeightLean
	} else if m.PeakLean > raiseLeanWarn {
		issues = append(issues, Issue{"Slight lean - tighten your core", SevWarn})
		score -= raiseWeightLean / 2
	} else if m.PeakLean > raiseLeanOK {
		issues = append(issues, Issue{"Minor sway detected", SevInfo})
		score -= raiseWeightLean / 4
	}

	if upTime > 0 {
		if upTime < raiseUpMin {
			issues = append(issues, Issue{"Raising too fast - slow down", SevWarn})
			score -= raiseWeightTempoUp
		} else if upTime > raiseUpMax {
			issues = append(issues, Issue{"Raising too slow", SevInfo})
			score -= raiseWeightTempoUp / 3
		}
	}
	if downTime > 0 {
		if downTime < raiseDownMin {
			issues = append(issues, Issue{"Lowering too fast - control it", SevWarn})
			score -= raiseWeightTempoDown
		} else if downTime > raiseDownMax {
			issues = append(issues, Issue{"Lowering too slow", SevInfo})
			score -= raiseWeightTempoDown / 3
		}
	}

	if score < 0 {
		score = 0
	}
	sortIssues(issues)
	return score, issues
}
