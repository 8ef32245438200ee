package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkoutLogRow is one persisted exercise-block summary.
type WorkoutLogRow struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Exercise       string    `json:"exercise"`
	SetsCompleted  int       `json:"sets_completed"`
	TotalReps      int       `json:"total_reps"`
	WeightLbs      *float64  `json:"weight_lbs,omitempty"`
	AvgScore       float64   `json:"avg_score"`
	BestScore      int       `json:"best_score"`
	WorstScore     int       `json:"worst_score"`
	Scores         []int     `json:"scores"`
	InjuryWarnings int       `json:"injury_warnings"`
}

// InsertWorkoutLog stores one completed exercise block summary.
func (db *DB) InsertWorkoutLog(ctx context.Context, row WorkoutLogRow) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_logs (id, created_at, exercise, sets_completed, total_reps,
		 weight_lbs, avg_score, best_score, worst_score, scores, injury_warnings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO NOTHING`,
		row.ID, row.CreatedAt, row.Exercise, row.SetsCompleted, row.TotalReps,
		row.WeightLbs, row.AvgScore, row.BestScore, row.WorstScore, row.Scores,
		row.InjuryWarnings)
	if err != nil {
		return fmt.Errorf("inserting workout log: %w", err)
	}
	return nil
}

// QueryWorkoutLogs retrieves logs in a date range, newest first, with an
// optional exercise filter.
func (db *DB) QueryWorkoutLogs(ctx context.Context, start, end time.Time, exercise string) ([]WorkoutLogRow, error) {
	query := `SELECT id, created_at, exercise, sets_completed, total_reps,
		 weight_lbs, avg_score, best_score, worst_score, scores, injury_warnings
		 FROM workout_logs
		 WHERE created_at >= $1 AND created_at < $2`
	args := []any{start, end}
	if exercise != "" {
		query += ` AND exercise = $3`
		args = append(args, exercise)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var result []WorkoutLogRow
	for rows.Next() {
		var r WorkoutLogRow
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Exercise, &r.SetsCompleted,
			&r.TotalReps, &r.WeightLbs, &r.AvgScore, &r.BestScore, &r.WorstScore,
			&r.Scores, &r.InjuryWarnings); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ExerciseStats aggregates one exercise's history.
type ExerciseStats struct {
	Exercise       string   `json:"exercise"`
	Sessions       int64    `json:"sessions"`
	TotalReps      int64    `json:"total_reps"`
	AvgScore       float64  `json:"avg_score"`
	BestScore      int      `json:"best_score"`
	LastWeightLbs  *float64 `json:"last_weight_lbs,omitempty"`
	InjuryWarnings int64    `json:"injury_warnings"`
}

// GetExerciseStats returns per-exercise aggregates over a date range.
func (db *DB) GetExerciseStats(ctx context.Context, start, end time.Time) ([]ExerciseStats, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise, COUNT(*), COALESCE(SUM(total_reps), 0),
		 COALESCE(AVG(avg_score), 0), COALESCE(MAX(best_score), 0),
		 COALESCE(SUM(injury_warnings), 0)
		 FROM workout_logs
		 WHERE created_at >= $1 AND created_at < $2
		 GROUP BY exercise
		 ORDER BY exercise`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying exercise stats: %w", err)
	}
	defer rows.Close()

	var result []ExerciseStats
	for rows.Next() {
		var s ExerciseStats
		if err := rows.Scan(&s.Exercise, &s.Sessions, &s.TotalReps,
			&s.AvgScore, &s.BestScore, &s.InjuryWarnings); err != nil {
			return nil, fmt.Errorf("scanning exercise stats: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Latest recorded weight per exercise, queried separately to keep the
	// aggregate query simple.
	for i := range result {
		err := db.Pool.QueryRow(ctx,
			`SELECT weight_lbs FROM workout_logs
			 WHERE exercise = $1 AND weight_lbs IS NOT NULL
			 ORDER BY created_at DESC LIMIT 1`,
			result[i].Exercise).Scan(&result[i].LastWeightLbs)
		if err != nil {
			result[i].LastWeightLbs = nil
		}
	}
	return result, nil
}
