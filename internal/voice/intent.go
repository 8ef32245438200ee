package voice

// Intent is a classified voice command from the external transcription and
// intent-classification pipeline. The vocabulary is fixed; anything the
// classifier cannot map lands on IntentNone.
type Intent string

const (
	IntentNone         Intent = "none"
	IntentStartWorkout Intent = "start_workout"
	IntentStartCurl    Intent = "start_bicep_curl"
	IntentStartRaise   Intent = "start_lateral_raise"
	IntentReady        Intent = "ready"
	IntentSkip         Intent = "skip"
	IntentStop         Intent = "stop"
)

var knownIntents = map[Intent]bool{
	IntentNone:         true,
	IntentStartWorkout: true,
	IntentStartCurl:    true,
	IntentStartRaise:   true,
	IntentReady:        true,
	IntentSkip:         true,
	IntentStop:         true,
}

// Known reports whether the intent is part of the fixed vocabulary.
func (i Intent) Known() bool { return knownIntents[i] }

// Command is one classified utterance: the intent token, an optional
// user-stated load, and an optional conversational reply the coach should
// speak verbatim (when the classifier answered a question rather than
// recognizing a command).
type Command struct {
	Intent    Intent   `json:"intent"`
	WeightLbs *float64 `json:"weight_lbs,omitempty"`
	Reply     string   `json:"reply,omitempty"`
}
