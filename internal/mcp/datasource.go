package mcp

import (
	"context"
	"time"

	"github.com/claude/gymbuddy/internal/coach"
	"github.com/claude/gymbuddy/internal/storage"
)

// DataSource abstracts the workout history layer for MCP tools.
type DataSource interface {
	QueryWorkoutLogs(ctx context.Context, start, end time.Time, exerciseFilter string) ([]storage.WorkoutLogRow, error)
	GetExerciseStats(ctx context.Context, start, end time.Time) ([]storage.ExerciseStats, error)
}

// StatusSource provides the latest coaching snapshot.
type StatusSource interface {
	Status() coach.Status
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
