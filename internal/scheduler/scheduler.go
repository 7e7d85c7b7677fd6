// Package scheduler refreshes the job catalog on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Refresher is satisfied by *catalog.Catalog.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler wraps robfig/cron and runs the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string // e.g. "@every 5m0s"
	logger    zerolog.Logger
	wg        sync.WaitGroup
}

// New creates a Scheduler that fires every interval.
func New(r Refresher, interval time.Duration) *Scheduler {
	logger := log.With().Str("component", "scheduler").Logger()
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.PrintfLogger(&logger))),
		refresher: r,
		spec:      "@every " + interval.String(),
		logger:    logger,
	}
}

// Start registers the job and starts the scheduler. One refresh also runs
// immediately so the snapshot is warm before the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("cron started")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
	return nil
}

// Stop halts the scheduler and waits for running refreshes to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info().Msg("cron stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("refresh failed")
		return
	}
	s.logger.Info().Dur("took", time.Since(start)).Msg("refresh complete")
}
