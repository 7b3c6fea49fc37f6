package scheduler

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/events"
	bookingRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/booking"
)

// timedEventKeys событие брокера для перехода по времени
var timedEventKeys = map[domain.BookingEvent]string{
	domain.EventWindowEntered: events.BookingStarted,
	domain.EventWindowExited:  events.BookingCompleted,
}

// Advancer переводит confirmed -> in_progress и in_progress -> completed по часам
type Advancer struct {
	repo      BookingRepository
	publisher EventPublisher
	metrics   Metrics
	clock     TimeProvider
	logger    Logger
	interval  time.Duration
}

func NewAdvancer(repo BookingRepository, publisher EventPublisher, metrics Metrics, cfg Config, logger Logger) *Advancer {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Advancer{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		clock:     realTimeProvider{},
		logger:    logger,
		interval:  cfg.AdvanceInterval,
	}
}

// Run выполняет проход сразу и затем каждые interval до отмены ctx
func (a *Advancer) Run(ctx context.Context) error {
	a.logger.Info("advancer: started, interval=%s", a.interval)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		a.Sweep(ctx)

		select {
		case <-ctx.Done():
			a.logger.Info("advancer: stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep один проход. confirmed обрабатываются первыми, поэтому бронирование,
// окно которого целиком прошло, за один проход доходит до completed.
// Возвращает число применённых переходов.
func (a *Advancer) Sweep(ctx context.Context) int {
	ctx, span := tracer.Start(ctx, "AdvancerSweep")
	defer span.End()

	started := time.Now()
	defer func() { a.metrics.ObserveSchedulerSweep(workerAdvancer, time.Since(started)) }()

	applied := 0
	for _, state := range []domain.BookingState{domain.StateConfirmed, domain.StateInProgress} {
		applied += a.advance(ctx, state)
	}

	span.SetAttributes(attribute.Int("bookings.advanced", applied))
	if applied > 0 {
		a.logger.Info("advancer: applied %d transitions", applied)
	}
	return applied
}

func (a *Advancer) advance(ctx context.Context, state domain.BookingState) int {
	bookings, err := a.repo.ListByState(ctx, state)
	if err != nil {
		a.logger.Error("advancer: failed to list %s bookings: %v", state, err)
		a.metrics.IncSchedulerFailure(workerAdvancer)
		return 0
	}

	now := a.clock.Now()
	applied := 0
	for _, booking := range bookings {
		event, due := booking.NextTimedEvent(now)
		if !due {
			continue
		}

		from := booking.State
		if err := booking.Apply(event, now); err != nil {
			a.logger.Warn("advancer: booking id=%s: %v", booking.ID, err)
			continue
		}

		err := a.repo.UpdateState(ctx, booking.ID, from, booking.State)
		switch {
		case errors.Is(err, bookingRepo.ErrStateChanged), errors.Is(err, bookingRepo.ErrBookingNotFound):
			// бронирование успели отменить или перевести - переход больше не нужен
			a.logger.Info("advancer: booking id=%s skipped: %v", booking.ID, err)
			continue
		case err != nil:
			a.logger.Error("advancer: failed to move booking id=%s %s -> %s: %v", booking.ID, from, booking.State, err)
			a.metrics.IncSchedulerFailure(workerAdvancer)
			continue
		}

		applied++
		a.metrics.IncSchedulerTransition(workerAdvancer, string(event))
		publish(ctx, a.publisher, a.logger, timedEventKeys[event], booking, now)
	}
	return applied
}
