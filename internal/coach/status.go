package coach

import "github.com/claude/gymbuddy/internal/pose"

// TrackerStatus is a read-only view of one tracker for display surfaces.
type TrackerStatus struct {
	Side          pose.Side `json:"side"`
	Reps          int       `json:"reps"`
	Phase         Phase     `json:"phase"`
	Progress      float64   `json:"progress"`
	LastScore     int       `json:"last_score"`
	AvgScore      float64   `json:"avg_score"`
	Feedback      []Issue   `json:"feedback,omitempty"`
	InjuryWarning bool      `json:"injury_warning"`
}

// SessionStatus is a read-only view of the active session.
type SessionStatus struct {
	CurrentSet    int     `json:"current_set"`
	TotalSets     int     `json:"total_sets"`
	RepsPerSet    int     `json:"reps_per_set"`
	Resting       bool    `json:"resting"`
	RestRemaining float64 `json:"rest_remaining"`
}

// RoutineStatus is a read-only view of the routine queue.
type RoutineStatus struct {
	Progress string   `json:"progress"`
	Upcoming []string `json:"upcoming,omitempty"`
}

// Status is the immutable per-frame snapshot the engine publishes for the
// HTTP and MCP surfaces. Readers never touch live core state.
type Status struct {
	State      State           `json:"state"`
	Exercise   ExerciseKind    `json:"exercise,omitempty"`
	Trackers   []TrackerStatus `json:"trackers,omitempty"`
	LiveAlerts []Alert         `json:"live_alerts,omitempty"`
	Session    *SessionStatus  `json:"session,omitempty"`
	Routine    *RoutineStatus  `json:"routine,omitempty"`
	UpdatedAt  float64         `json:"updated_at"`
}

// snapshot builds the status view for the current frame time.
func (o *Orchestrator) snapshot(now float64) Status {
	st := Status{State: o.state, UpdatedAt: now}

	if o.profile != nil {
		st.Exercise = o.profile.Kind
	}
	for _, side := range pose.Sides {
		t, ok := o.trackers[side]
		if !ok {
			continue
		}
		st.Trackers = append(st.Trackers, TrackerStatus{
			Side:          side,
			Reps:          t.Reps(),
			Phase:         t.Phase(),
			Progress:      t.Progress(),
			LastScore:     t.LastScore(),
			AvgScore:      t.AvgScore(),
			Feedback:      t.Feedback(now),
			InjuryWarning: t.InjuryWarning(),
		})
	}
	if len(o.trackers) > 0 {
		st.LiveAlerts = MergeAlerts(o.trackers, now)
	}
	if o.session != nil {
		st.Session = &SessionStatus{
			CurrentSet:    o.session.CurrentSet(),
			TotalSets:     o.session.TotalSets(),
			RepsPerSet:    o.session.RepsPerSet(),
			Resting:       o.session.Resting(),
			RestRemaining: o.session.RestRemaining(now),
		}
	}
	if o.routine != nil {
		st.Routine = &RoutineStatus{
			Progress: o.routine.Progress(),
			Upcoming: o.routine.Summary(),
		}
	}
	return st
}
