package coach

import "github.com/claude/gymbuddy/internal/pose"

// Bicep curl thresholds. The primary angle is the elbow: it shrinks below
// curlTop at full contraction and opens past curlBottom at full extension.
const (
	curlTop    = 60
	curlBottom = 140

	// Scoring weights, summing to ~100 across all checks.
	curlWeightElbowPin   = 20
	curlWeightLean       = 15
	curlWeightROMTop     = 10
	curlWeightROMBottom  = 10
	curlWeightWrist      = 10
	curlWeightShrug      = 10
	curlWeightFlare      = 10
	curlWeightTempoCon   = 7
	curlWeightTempoEcc   = 8
	curlWeightSupination = 10

	curlSwingOK   = 15
	curlSwingWarn = 30
	curlSwingBad  = 45

	curlLeanOK   = 10
	curlLeanWarn = 18
	curlLeanBad  = 28

	curlROMTopGood    = 50
	curlROMTopOK      = 70
	curlROMBottomGood = 155
	curlROMBottomOK   = 130

	curlWristDevOK   = 15
	curlWristDevWarn = 30

	curlFlareOK   = 0.05
	curlFlareWarn = 0.09

	curlSupGood    = 0.35
	curlSupNeutral = 0.05

	curlConMin = 0.6
	curlConMax = 3.0
	curlEccMin = 1.0
	curlEccMax = 4.5
)

var curlProfile = &Profile{
	Kind:        BicepCurl,
	DisplayName: "Bicep Curl",
	Descending:  true,
	ContractAt:  curlTop,
	ExtendAt:    curlBottom,

	Primary: func(s pose.Sample) *float64 { return s.Elbow },

	Observe: func(m *RepMetrics, s pose.Sample) {
		if s.Shoulder != nil && *s.Shoulder > m.PeakSwing {
			m.PeakSwing = *s.Shoulder
		}
		if s.Wrist != nil {
			dev := 180.0 - *s.Wrist
			if dev < 0 {
				dev = -dev
			}
			if dev > m.PeakWristDev {
				m.PeakWristDev = dev
			}
		}
		if s.ElbowHip != nil && *s.ElbowHip > m.PeakFlare {
			m.PeakFlare = *s.ElbowHip
		}
		if s.Supination != nil && *s.Supination < m.MinSupination {
			m.MinSupination = *s.Supination
		}
	},

	LiveChecks: func(trigger func(msg string, sev Severity), s pose.Sample, shrug bool) {
		if s.Shoulder != nil {
			if *s.Shoulder > curlSwingBad {
				trigger("Pin elbow to side!", SevBad)
			} else if *s.Shoulder > curlSwingWarn {
				trigger("Elbow drifting", SevWarn)
			}
		}
		if s.Lean != nil {
			if *s.Lean > curlLeanBad {
				trigger("Stop leaning back!", SevBad)
			} else if *s.Lean > curlLeanWarn {
				trigger("Brace your core", SevWarn)
			}
		}
		if shrug {
			trigger("Relax traps!", SevWarn)
		}
		if s.ElbowHip != nil && *s.ElbowHip > curlFlareWarn {
			trigger("Tuck elbow in!", SevWarn)
		}
		if s.Supination != nil && *s.Supination < curlSupNeutral {
			trigger("Supinate - rotate palm up!", SevWarn)
		}
	},

	Score: scoreCurl,

	Moving: func(s pose.Sample) bool {
		return s.Elbow != nil && *s.Elbow < 90
	},
}

// scoreCurl applies the curl's ordered check list. Each failing check
// subtracts its weight, or an integer fraction for the milder tiers; the
// floor-division fractions are deliberate and match the regression-tested
// score table.
func scoreCurl(m RepMetrics, upTime, downTime float64) (int, []Issue) {
	score := 100
	var issues []Issue

	if m.PeakSwing > curlSwingBad {
		issues = append(issues, Issue{"Elbow swinging a lot - pin it to your side", SevBad})
		score -= curlWeightElbowPin
	} else if m.PeakSwing > curlSwingWarn {
		issues = append(issues, Issue{"Elbow drifting forward - keep it pinned", SevWarn})
		score -= curlWeightElbowPin / 2
	} else if m.PeakSwing > curlSwingOK {
		issues = append(issues, Issue{"Slight elbow drift - try to keep it tighter", SevInfo})
		score -= curlWeightElbowPin / 4
	}

	if m.PeakLean > curlLeanBad {
		issues = append(issues, Issue{"Too much body lean - you're using momentum", SevBad})
		score -= curlWeightLean
	} else if m.PeakLean > curlLeanWarn {
		issues = append(issues, Issue{"Leaning back a bit - brace your core", SevWarn})
		score -= curlWeightLean / 2
	} else if m.PeakLean > curlLeanOK {
		issues = append(issues, Issue{"Minor torso sway detected", SevInfo})
		score -= curlWeightLean / 4
	}

	if m.MinPrimary > curlROMTopOK {
		issues = append(issues, Issue{"Curl higher - squeeze at the top", SevWarn})
		score -= curlWeightROMTop
	} else if m.MinPrimary > curlROMTopGood {
		issues = append(issues, Issue{"Almost full contraction - try to squeeze more", SevInfo})
		score -= curlWeightROMTop / 2
	}

	if m.MaxPrimary < curlROMBottomOK {
		issues = append(issues, Issue{"Extend your arm more at the bottom", SevWarn})
		score -= curlWeightROMBottom
	} else if m.MaxPrimary < curlROMBottomGood {
		issues = append(issues, Issue{"Slightly short extension - straighten a bit more", SevInfo})
		score -= curlWeightROMBottom / 2
	}

	if m.PeakWristDev > curlWristDevWarn {
		issues = append(issues, Issue{"Wrist bending - keep it straight and neutral", SevWarn})
		score -= curlWeightWrist
	} else if m.PeakWristDev > curlWristDevOK {
		issues = append(issues, Issue{"Slight wrist curl - keep it neutral", SevInfo})
		score -= curlWeightWrist / 2
	}

	if m.ShrugDetected {
		issues = append(issues, Issue{"Shoulder hiking up - relax your traps", SevWarn})
		score -= curlWeightShrug
	}

	if m.PeakFlare > curlFlareWarn {
		issues = append(issues, Issue{"Elbow flaring out - keep it tucked in", SevWarn})
		score -= curlWeightFlare
	} else if m.PeakFlare > curlFlareOK {
		issues = append(issues, Issue{"Slight elbow flare - tuck it closer", SevInfo})
		score -= curlWeightFlare / 2
	}

	if m.MinSupination < curlSupNeutral {
		issues = append(issues, Issue{"Rotate palm up - supinate your grip", SevWarn})
		score -= curlWeightSupination
	} else if m.MinSupination < curlSupGood {
		issues = append(issues, Issue{"Grip slightly neutral - supinate more", SevInfo})
		score -= curlWeightSupination / 2
	}

	// Tempo is only scored when a phase transition actually happened; a
	// missing duration is not an error.
	if upTime > 0 {
		if upTime < curlConMin {
			issues = append(issues, Issue{"Lifting too fast - slow down", SevWarn})
			score -= curlWeightTempoCon
		} else if upTime > curlConMax {
			issues = append(issues, Issue{"Lifting too slow - may lose tension", SevWarn})
			score -= curlWeightTempoCon / 2
		}
	}
	if downTime > 0 {
		if downTime < curlEccMin {
			issues = append(issues, Issue{"Lowering too fast - control the negative", SevWarn})
			score -= curlWeightTempoEcc
		} else if downTime > curlEccMax {
			issues = append(issues, Issue{"Lowering too slow", SevWarn})
			score -= curlWeightTempoEcc / 3
		}
	}

	if score < 0 {
		score = 0
	}
	sortIssues(issues)
	return score, issues
}
