package coach

import (
	"sort"

	"github.com/claude/gymbuddy/internal/pose"
)

// liveGrace is how long an alert stays active after its last trigger. It
// suppresses single-frame flicker without letting stale warnings linger.
const liveGrace = 0.35

// AlertSet is a debounced set of currently-firing live alerts for one
// tracker. Triggering an alert that already exists refreshes its recency;
// expired entries are evicted lazily when the set is read.
type AlertSet struct {
	triggers map[string]alertEntry
}

type alertEntry struct {
	severity Severity
	lastT    float64
}

// Alert is one active live alert, tagged with the side it came from when
// merged for display.
type Alert struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// NewAlertSet returns an empty alert set.
func NewAlertSet() *AlertSet {
	return &AlertSet{triggers: make(map[string]alertEntry)}
}

// Trigger records the alert as firing at time now. Latest write wins.
func (a *AlertSet) Trigger(msg string, sev Severity, now float64) {
	a.triggers[msg] = alertEntry{severity: sev, lastT: now}
}

// Active returns every alert still within the grace window at time now,
// evicting everything older as a side effect. Results are ordered by
// severity, then message for a stable display.
func (a *AlertSet) Active(now float64) []Alert {
	var active []Alert
	for msg, e := range a.triggers {
		if now-e.lastT <= liveGrace {
			active = append(active, Alert{Message: msg, Severity: e.severity})
		} else {
			delete(a.triggers, msg)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].Severity.Priority() != active[j].Severity.Priority() {
			return active[i].Severity.Priority() < active[j].Severity.Priority()
		}
		return active[i].Message < active[j].Message
	})
	return active
}

// MergeAlerts combines both sides' active alerts into one side-tagged display
// list, de-duplicated by (message, severity).
func MergeAlerts(trackers map[pose.Side]*Tracker, now float64) []Alert {
	var merged []Alert
	seen := make(map[Alert]bool)
	for _, side := range pose.Sides {
		t, ok := trackers[side]
		if !ok {
			continue
		}
		for _, al := range t.LiveAlerts(now) {
			tagged := Alert{Message: string(side) + ": " + al.Message, Severity: al.Severity}
			if !seen[tagged] {
				seen[tagged] = true
				merged = append(merged, tagged)
			}
		}
	}
	return merged
}
