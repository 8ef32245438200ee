package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetWorkoutLogs = mcp.NewTool("get_workout_logs",
	mcp.WithDescription("Query logged workouts. Each log is one exercise's session record: sets completed, total reps, weight, per-rep form scores, and injury warning count."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (e.g. 'bicep_curl', 'lateral_raise')")),
)

var toolGetExerciseStats = mcp.NewTool("get_exercise_stats",
	mcp.WithDescription("Aggregate per-exercise statistics over a time range: session count, total reps, average form score, and most recent weight."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetLiveStatus = mcp.NewTool("get_live_status",
	mcp.WithDescription("Read the live coaching snapshot: current state, active exercise, per-arm rep counts and form scores, active alerts, and set/rest progress."),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.ds == nil {
		return mcp.NewToolResultError("workout history database is not configured"), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	exercise := req.GetString("exercise", "")
	rows, err := h.ds.QueryWorkoutLogs(ctx, start, end, exercise)
	if err != nil {
		h.log.Error("mcp get_workout_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.ds == nil {
		return mcp.NewToolResultError("workout history database is not configured"), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	stats, err := h.ds.GetExerciseStats(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_exercise_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLiveStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.status.Status())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
