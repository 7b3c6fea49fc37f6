package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Scheduler запускает reaper и advancer как независимые горутины
type Scheduler struct {
	Reaper   *Reaper
	Advancer *Advancer

	group *errgroup.Group
}

func New(repo BookingRepository, publisher EventPublisher, metrics Metrics, cfg Config, logger Logger) *Scheduler {
	return &Scheduler{
		Reaper:   NewReaper(repo, publisher, metrics, cfg, logger),
		Advancer: NewAdvancer(repo, publisher, metrics, cfg, logger),
	}
}

// Start запускает оба цикла; они останавливаются при отмене ctx
func (s *Scheduler) Start(ctx context.Context) {
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return s.Reaper.Run(gctx) })
	group.Go(func() error { return s.Advancer.Run(gctx) })
	s.group = group
}

// Wait ждёт завершения циклов после отмены ctx, переданного в Start
func (s *Scheduler) Wait() error {
	if s.group == nil {
		return nil
	}
	return s.group.Wait()
}

// Notify будит reaper (после создания pending бронирования)
func (s *Scheduler) Notify() {
	s.Reaper.Notify()
}
