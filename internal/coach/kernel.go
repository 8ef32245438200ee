package coach

import "github.com/claude/gymbuddy/internal/pose"

// Injury-risk thresholds shared by all exercises.
const (
	injuryCriticalScore   = 25
	injuryBadScore        = 40
	injuryConsecutiveBad  = 3
	feedbackSeconds       = 5.0
	perfectRepMessage     = "Perfect rep!"
	genericPraiseMessage  = "Good job!"
	injuryCriticalMessage = "Warning! That rep had very poor form and could cause injury. " +
		"Lower the weight or fix your form before continuing."
	injuryStreakMessage = "Careful! Multiple reps with bad form. " +
		"You risk hurting yourself. Take a break or reduce the weight."
)

// kernel is the rep-tracking state shared by every exercise tracker: rep
// counting, live-alert plumbing, end-of-rep feedback, the speech queue, and
// the injury-risk monitor. Exercise trackers embed one kernel by value.
type kernel struct {
	side pose.Side

	reps         int
	lastScore    int
	scoreHistory []int

	alerts         *AlertSet
	feedback       []Issue
	feedbackExpiry float64
	speechQueue    []string

	consecutiveBad int
	injuryWarning  bool
}

func newKernel(side pose.Side) kernel {
	return kernel{side: side, alerts: NewAlertSet()}
}

// LiveAlerts returns the currently-active debounced alerts.
func (k *kernel) LiveAlerts(now float64) []Alert {
	return k.alerts.Active(now)
}

// Feedback returns the last rep's issue list while it is still fresh.
func (k *kernel) Feedback(now float64) []Issue {
	if now < k.feedbackExpiry {
		return k.feedback
	}
	return nil
}

// TakeSpeech pops at most one queued spoken string.
func (k *kernel) TakeSpeech() (string, bool) {
	if len(k.speechQueue) == 0 {
		return "", false
	}
	s := k.speechQueue[0]
	k.speechQueue = k.speechQueue[1:]
	return s, true
}

// AvgScore is the running average over all completed reps, 0 before the
// first rep.
func (k *kernel) AvgScore() float64 {
	if len(k.scoreHistory) == 0 {
		return 0
	}
	sum := 0
	for _, s := range k.scoreHistory {
		sum += s
	}
	return float64(sum) / float64(len(k.scoreHistory))
}

// commitRep records a scored rep: updates the score bookkeeping, refreshes
// feedback, builds the speech queue from voiced issues, and runs the injury
// monitor. Called exactly once per completed rep, inside finishRep.
func (k *kernel) commitRep(score int, issues []Issue, now float64) {
	k.reps++
	k.lastScore = score
	k.scoreHistory = append(k.scoreHistory, score)

	if len(issues) == 0 {
		k.feedback = []Issue{{Message: perfectRepMessage, Severity: SevGood}}
	} else {
		k.feedback = issues
	}
	k.feedbackExpiry = now + feedbackSeconds

	k.speechQueue = buildSpeechQueue(issues)
	k.checkInjuryRisk()
}

// buildSpeechQueue collects voiced (bad/warn) messages in priority order,
// falling back to a single generic positive phrase.
func buildSpeechQueue(issues []Issue) []string {
	var voiced []string
	for _, is := range issues {
		if is.Severity.Voiced() {
			voiced = append(voiced, is.Message)
		}
	}
	if len(voiced) == 0 {
		return []string{genericPraiseMessage}
	}
	return voiced
}

// checkInjuryRisk tracks consecutive bad reps and escalates to an urgent
// spoken warning, prepended ahead of any form corrections already queued.
// A single good rep only partially forgives a bad streak.
func (k *kernel) checkInjuryRisk() {
	if k.lastScore <= injuryBadScore {
		k.consecutiveBad++
	} else if k.consecutiveBad > 0 {
		k.consecutiveBad--
	}

	switch {
	case k.lastScore <= injuryCriticalScore:
		k.injuryWarning = true
		k.speechQueue = append([]string{injuryCriticalMessage}, k.speechQueue...)
	case k.consecutiveBad >= injuryConsecutiveBad:
		k.injuryWarning = true
		k.speechQueue = append([]string{injuryStreakMessage}, k.speechQueue...)
	default:
		k.injuryWarning = false
	}
}
