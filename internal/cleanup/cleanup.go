// Package cleanup runs the periodic retention sweep over the local
// order backup. It is opt-in: the api server only starts it when a
// retention window is configured.
package cleanup

import (
	"context"
	"time"

	"tableserve/internal/common/logger"
)

// Purger removes orders placed before the cutoff and reports the count.
type Purger interface {
	Purge(olderThan time.Time) (int, error)
}

// Worker sweeps the backup store on a fixed interval, dropping orders
// older than the retention window.
type Worker struct {
	Purger    Purger
	Interval  time.Duration
	Retention time.Duration
	Now       func() time.Time

	lg *logger.Logger
}

func NewWorker(p Purger, interval, retention time.Duration, lg *logger.Logger) *Worker {
	return &Worker{
		Purger:    p,
		Interval:  interval,
		Retention: retention,
		Now:       time.Now,
		lg:        lg,
	}
}

// Run blocks until the context is canceled, sweeping once per interval.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.lg.Info("cleanup_started", map[string]any{
		"interval_sec":  int(w.Interval.Seconds()),
		"retention_sec": int(w.Retention.Seconds()),
	})
	for {
		select {
		case <-ctx.Done():
			w.lg.Info("cleanup_stopped", nil)
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep performs a single retention pass.
func (w *Worker) Sweep() {
	cutoff := w.Now().Add(-w.Retention)
	removed, err := w.Purger.Purge(cutoff)
	if err != nil {
		w.lg.Error("cleanup_failed", err, nil)
		return
	}
	if removed > 0 {
		w.lg.Info("cleanup_done", map[string]any{"removed": removed, "cutoff": cutoff.UTC().Format(time.RFC3339)})
	}
}
