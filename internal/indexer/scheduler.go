package indexer

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a full index on a cron schedule.
type Scheduler struct {
	ix       *Indexer
	schedule cron.Schedule
	spec     string
}

// NewScheduler validates spec, a standard five-field cron expression or a
// descriptor such as "@every 1h".
func NewScheduler(ix *Indexer, spec string) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid resync schedule %q: %w", spec, err)
	}
	return &Scheduler{ix: ix, schedule: schedule, spec: spec}, nil
}

// Run triggers IndexAll on every tick until ctx is cancelled. A tick that
// arrives while the previous scan is still running is skipped.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := cron.PrintfLogger(s.ix.logger)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(logger)))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		if _, err := s.ix.IndexAll(ctx); err != nil {
			s.ix.logger.Warn("scheduled index stopped", "err", err)
		}
	}))

	s.ix.logger.Info("resync scheduled", "schedule", s.spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
