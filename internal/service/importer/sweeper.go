package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically expires idle import sessions.
type Sweeper struct {
	cron   *cron.Cron
	svc    *Service
	logger *slog.Logger
	now    func() time.Time
}

// NewSweeper schedules svc.SweepExpired on a standard cron spec or a
// descriptor such as "@every 15m".
func NewSweeper(svc *Service, schedule string, logger *slog.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sweeper{
		cron:   cron.New(),
		svc:    svc,
		logger: logger.With("component", "session-sweeper"),
		now:    time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.svc.SweepExpired(ctx, s.now()); err != nil {
		s.logger.Warn("session sweep failed", "error", err)
	}
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running sweep to finish.
func (s *Sweeper) Run(ctx context.Context) error {
	s.cron.Start()
	s.logger.Info("session sweeper started")
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("session sweeper stopped")
	return nil
}
