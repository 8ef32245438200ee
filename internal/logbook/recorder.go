// Package logbook persists completed exercise blocks. It is the Recorder
// collaborator wired into the coach core: writes happen on a background
// goroutine so the frame loop never waits on the database, and each write
// falls back to the on-disk journal when Postgres is down.
package logbook

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/claude/gymbuddy/internal/coach"
	"github.com/claude/gymbuddy/internal/journal"
	"github.com/claude/gymbuddy/internal/storage"
)

const writeTimeout = 10 * time.Second

// Recorder receives Performance records from the coach core and persists
// them. db may be nil (journal-only operation); jnl may be nil when no
// journal directory is configured.
type Recorder struct {
	db  *storage.DB
	jnl *journal.DB
	log *slog.Logger

	queue chan storage.WorkoutLogRow
	done  chan struct{}
}

// New creates a recorder and starts its writer goroutine.
func New(db *storage.DB, jnl *journal.DB, log *slog.Logger) *Recorder {
	r := &Recorder{
		db:    db,
		jnl:   jnl,
		log:   log,
		queue: make(chan storage.WorkoutLogRow, 16),
		done:  make(chan struct{}),
	}
	go r.writer()
	return r
}

// Record converts a performance into a log row and queues it for writing.
// Never blocks: if the writer is saturated the row goes straight to the
// journal instead.
func (r *Recorder) Record(p *coach.Performance) {
	row := rowFromPerformance(p)
	select {
	case r.queue <- row:
	default:
		r.log.Warn("recorder queue full, journaling directly", "exercise", row.Exercise)
		r.journalRow(row)
	}
}

// ReplayJournal pushes any journaled backlog into Postgres. Called at
// startup once the database is up; entries that still fail stay pending.
func (r *Recorder) ReplayJournal(ctx context.Context) {
	if r.db == nil || r.jnl == nil {
		return
	}
	pending, err := r.jnl.Pending()
	if err != nil {
		r.log.Warn("journal replay failed", "error", err)
		return
	}
	for _, row := range pending {
		if err := r.db.InsertWorkoutLog(ctx, row); err != nil {
			r.log.Warn("journal replay insert failed", "id", row.ID, "error", err)
			continue
		}
		if err := r.jnl.MarkSynced(row.ID.String()); err != nil {
			r.log.Warn("journal mark synced failed", "id", row.ID, "error", err)
		}
	}
	if len(pending) > 0 {
		r.log.Info("journal replay complete", "entries", len(pending))
	}
}

// Close stops the writer after draining queued rows.
func (r *Recorder) Close() {
	close(r.queue)
	<-r.done
}

func (r *Recorder) writer() {
	defer close(r.done)
	for row := range r.queue {
		r.persist(row)
	}
}

// persist tries Postgres first and falls back to the journal. Failures are
// logged here; the core's state transition has already committed and is
// never rolled back.
func (r *Recorder) persist(row storage.WorkoutLogRow) {
	if r.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.db.InsertWorkoutLog(ctx, row)
		cancel()
		if err == nil {
			r.log.Info("workout log saved",
				"exercise", row.Exercise, "reps", row.TotalReps, "avg_score", row.AvgScore)
			return
		}
		r.log.Warn("workout log insert failed, falling back to journal", "error", err)
	}
	r.journalRow(row)
}

func (r *Recorder) journalRow(row storage.WorkoutLogRow) {
	if r.jnl == nil {
		r.log.Error("workout log lost: no database and no journal", "exercise", row.Exercise)
		return
	}
	if err := r.jnl.Append(row); err != nil {
		r.log.Error("journal append failed", "exercise", row.Exercise, "error", err)
		return
	}
	r.log.Info("workout log journaled", "exercise", row.Exercise)
}

// rowFromPerformance flattens a coach.Performance into its storage row.
func rowFromPerformance(p *coach.Performance) storage.WorkoutLogRow {
	return storage.WorkoutLogRow{
		ID:             uuid.New(),
		CreatedAt:      time.Now(),
		Exercise:       string(p.Exercise),
		SetsCompleted:  len(p.SetReps),
		TotalReps:      p.TotalReps(),
		WeightLbs:      p.WeightLbs,
		AvgScore:       p.AvgScore(),
		BestScore:      p.BestScore(),
		WorstScore:     p.WorstScore(),
		Scores:         p.Scores,
		InjuryWarnings: p.InjuryWarnings,
	}
}
