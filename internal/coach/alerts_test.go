package coach

import (
	"testing"

	"github.com/claude/gymbuddy/internal/pose"
)

// TestAlertGraceWindow checks an alert stays active through the grace window
// and disappears after it.
func TestAlertGraceWindow(t *testing.T) {
	a := NewAlertSet()
	a.Trigger("Brace your core", SevWarn, 0)

	if got := a.Active(liveGrace - 0.05); len(got) != 1 {
		t.Errorf("active at %.2fs = %d alerts, want 1", liveGrace-0.05, len(got))
	}
	if got := a.Active(liveGrace + 0.05); len(got) != 0 {
		t.Errorf("active after grace = %d alerts, want 0", len(got))
	}
}

// TestAlertRefresh checks re-triggering extends an alert's life from the
// latest trigger, not the first.
func TestAlertRefresh(t *testing.T) {
	a := NewAlertSet()
	a.Trigger("Brace your core", SevWarn, 0)
	a.Trigger("Brace your core", SevWarn, 0.3)

	if got := a.Active(0.6); len(got) != 1 {
		t.Errorf("refreshed alert expired early: %v", got)
	}
}

// TestAlertSeverityUpgrade checks the latest trigger's severity wins when the
// same message fires at a different level.
func TestAlertSeverityUpgrade(t *testing.T) {
	a := NewAlertSet()
	a.Trigger("Stop leaning back!", SevWarn, 0)
	a.Trigger("Stop leaning back!", SevBad, 0.1)

	got := a.Active(0.2)
	if len(got) != 1 || got[0].Severity != SevBad {
		t.Errorf("active = %v, want single bad alert", got)
	}
}

// TestAlertOrdering checks active alerts come back most urgent first, with
// ties broken by message for stability.
func TestAlertOrdering(t *testing.T) {
	a := NewAlertSet()
	a.Trigger("minor b", SevInfo, 0)
	a.Trigger("urgent", SevBad, 0)
	a.Trigger("minor a", SevInfo, 0)
	a.Trigger("moderate", SevWarn, 0)

	got := a.Active(0.1)
	wantOrder := []string{"urgent", "moderate", "minor a", "minor b"}
	if len(got) != len(wantOrder) {
		t.Fatalf("active = %d alerts, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].Message != want {
			t.Errorf("position %d = %q, want %q", i, got[i].Message, want)
		}
	}
}

// TestMergeAlerts checks both sides' alerts merge with side tags and
// duplicate (message, severity) pairs collapse.
func TestMergeAlerts(t *testing.T) {
	trackers := map[pose.Side]*Tracker{
		pose.Left:  NewTracker(Profiles[BicepCurl], pose.Left),
		pose.Right: NewTracker(Profiles[BicepCurl], pose.Right),
	}
	trackers[pose.Left].alerts.Trigger("Brace your core", SevWarn, 0)
	trackers[pose.Left].alerts.Trigger("Brace your core", SevWarn, 0.05)
	trackers[pose.Right].alerts.Trigger("Pin elbow to side!", SevBad, 0)

	merged := MergeAlerts(trackers, 0.1)
	if len(merged) != 2 {
		t.Fatalf("merged = %v, want 2 alerts", merged)
	}
	if merged[0].Message != "L: Brace your core" {
		t.Errorf("first = %q, want left-tagged core alert", merged[0].Message)
	}
	if merged[1].Message != "R: Pin elbow to side!" {
		t.Errorf("second = %q, want right-tagged elbow alert", merged[1].Message)
	}
}
