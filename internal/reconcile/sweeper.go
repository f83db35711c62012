// Package reconcile fails company requests left in processing by a crashed or lost background task.
package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StaleFailer moves requests stuck in processing for longer than olderThan to failed.
type StaleFailer interface {
	FailStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Sweeper periodically runs FailStale.
type Sweeper struct {
	target    StaleFailer
	interval  time.Duration
	threshold time.Duration
	logger    *zap.SugaredLogger
}

// NewSweeper creates a sweeper that runs every interval and fails requests
// whose last status change is older than threshold.
func NewSweeper(target StaleFailer, interval, threshold time.Duration, logger *zap.SugaredLogger) *Sweeper {
	return &Sweeper{
		target:    target,
		interval:  interval,
		threshold: threshold,
		logger:    logger,
	}
}

// Run sweeps once immediately, then every interval until ctx is done.
// A non-positive interval disables the sweeper.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Infow("Stale request sweeper disabled")
		return nil
	}

	s.logger.Infow("Stale request sweeper started", "interval", s.interval, "threshold", s.threshold)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.Sweep(ctx)

		select {
		case <-ctx.Done():
			s.logger.Infow("Stale request sweeper stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep runs a single pass and returns the number of failed requests.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	n, err := s.target.FailStale(ctx, s.threshold)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Errorw("Stale request sweep failed", "error", err)
		}
		return 0
	}
	return n
}
