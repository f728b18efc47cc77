package cleanup

import (
	"context"
	"log"
	"time"
)

// SessionStore is the in-memory side of cleanup.
type SessionStore interface {
	CleanupOldSessions(idle, finishedTTL time.Duration) int
}

// ArchiveStore prunes archived games. Nil when the archive is disabled.
type ArchiveStore interface {
	DeleteGamesOlderThan(ctx context.Context, days int) (int64, error)
}

type Config struct {
	Interval           time.Duration
	SessionIdleTimeout time.Duration
	FinishedSessionTTL time.Duration
	RetentionDays      int
}

type Worker struct {
	Sessions SessionStore
	Archive  ArchiveStore
	cfg      Config
}

func NewWorker(sessions SessionStore, archive ArchiveStore, cfg Config) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Worker{Sessions: sessions, Archive: archive, cfg: cfg}
}

// Start runs one pass immediately and then one per interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.runCleanup(ctx)

		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] Background worker stopped")
				return
			case <-ticker.C:
				w.runCleanup(ctx)
			}
		}
	}()
	log.Println("[CLEANUP] Background worker started")
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup(ctx context.Context) {
	log.Println("[CLEANUP] Starting scheduled cleanup task...")

	w.Sessions.CleanupOldSessions(w.cfg.SessionIdleTimeout, w.cfg.FinishedSessionTTL)

	if w.Archive == nil || w.cfg.RetentionDays <= 0 {
		return
	}

	deletedCount, err := w.Archive.DeleteGamesOlderThan(ctx, w.cfg.RetentionDays)
	if err != nil {
		log.Printf("[CLEANUP] Error pruning archived games: %v", err)
	} else if deletedCount > 0 {
		log.Printf("[CLEANUP] Removed %d archived games older than %d days", deletedCount, w.cfg.RetentionDays)
	}
}
