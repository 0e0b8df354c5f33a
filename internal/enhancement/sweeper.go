package enhancement

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically transitions images stuck in processing past a
// threshold to timeout, reconciling jobs whose webhook never arrived.
type Sweeper struct {
	store     ImageStore
	logger    *slog.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
}

func NewSweeper(store ImageStore, logger *slog.Logger, interval, threshold time.Duration) *Sweeper {
	return &Sweeper{
		store:     store,
		logger:    logger,
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
	}
}

// SweepStuckJobs scans for records processing longer than threshold and marks
// each as timed out. Each transition is a conditional update guarded by
// status=processing, so a record completed by a concurrent webhook between
// scan and apply is left alone. Returns the count actually transitioned.
func (s *Sweeper) SweepStuckJobs(ctx context.Context, threshold time.Duration) (int, error) {
	cutoff := s.now().Add(-threshold)

	stuck, err := s.store.ListStuck(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, img := range stuck {
		ok, err := s.store.MarkTimeout(ctx, img.ID)
		if err != nil {
			s.logger.Error("timeout transition failed", "image_id", img.ID, "error", err)
			continue
		}
		if !ok {
			// Completed or failed via webhook since the scan.
			continue
		}
		count++
		s.logger.Warn("stuck enhancement timed out", "image_id", img.ID,
			"requested_at", img.EnhancementRequestedAt)
	}

	return count, nil
}

// Run drives SweepStuckJobs on a fixed interval until ctx is cancelled.
// A failed sweep is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("stuck-job sweeper started",
		"interval", s.interval, "threshold", s.threshold)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stuck-job sweeper stopped")
			return
		case <-ticker.C:
			count, err := s.SweepStuckJobs(ctx, s.threshold)
			if err != nil {
				s.logger.Error("sweep failed", "error", err)
				continue
			}
			if count > 0 {
				s.logger.Info("sweep completed", "timed_out", count)
			}
		}
	}
}
