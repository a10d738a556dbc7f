package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type Refresher interface {
	RunCycle(ctx context.Context) (CycleResult, error)
}

// Scheduler runs a cycle immediately and then once per interval. Cycles run
// sequentially so they never overlap; a failed cycle is logged and the next
// tick tries again.
type Scheduler struct {
	r        Refresher
	interval time.Duration
}

func NewScheduler(r Refresher, interval time.Duration) *Scheduler {
	return &Scheduler{r: r, interval: interval}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.tick(ctx)
	if s.interval <= 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler stopped")
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.r.RunCycle(ctx); err != nil {
		log.Warn().Err(err).Dur("retry_in", s.interval).Msg("scheduled refresh failed")
	}
}
