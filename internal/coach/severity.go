package coach

import "sort"

// Severity ranks a form issue. Ordering matters: lower priority numbers are
// more urgent and sort first in feedback lists.
type Severity string

const (
	SevBad  Severity = "bad"
	SevWarn Severity = "warn"
	SevInfo Severity = "info"
	SevGood Severity = "good"
)

var sevPriority = map[Severity]int{
	SevBad:  0,
	SevWarn: 1,
	SevInfo: 2,
	SevGood: 3,
}

// Priority returns the sort rank of a severity; unknown severities sort last.
func (s Severity) Priority() int {
	if p, ok := sevPriority[s]; ok {
		return p
	}
	return 99
}

// Voiced reports whether issues of this severity are spoken aloud.
func (s Severity) Voiced() bool {
	return s == SevBad || s == SevWarn
}

// Issue is one form problem found in a rep, or the synthetic "perfect rep"
// entry when none were.
type Issue struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// sortIssues orders issues most-urgent-first. The sort is stable so checks
// of equal severity keep their evaluation order.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Priority() < issues[j].Severity.Priority()
	})
}
