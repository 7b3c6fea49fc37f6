package scheduler

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/events"
	bookingRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/booking"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/tracing"
)

var tracer = tracing.Tracer("badcourt/scheduler")

// Reaper снимает бронирования, не оплаченные за PendingGracePeriod.
//
// Пока pending бронирований нет, воркер спит и просыпается только по Notify
// или раз в IdleProbe. Активность определяется одним его горутином по числу
// pending в БД, общего флага нет.
type Reaper struct {
	repo      BookingRepository
	publisher EventPublisher
	metrics   Metrics
	clock     TimeProvider
	logger    Logger
	cfg       Config

	wake chan struct{}
}

func NewReaper(repo BookingRepository, publisher EventPublisher, metrics Metrics, cfg Config, logger Logger) *Reaper {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Reaper{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		clock:     realTimeProvider{},
		logger:    logger,
		cfg:       cfg,
		wake:      make(chan struct{}, 1),
	}
}

// Notify будит воркер; не блокируется, повторные сигналы схлопываются
func (r *Reaper) Notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run крутит цикл до отмены ctx. Первый проход выполняется сразу (проба при старте).
func (r *Reaper) Run(ctx context.Context) error {
	r.logger.Info("reaper: started, grace=%s poll=%s idle_probe=%s delete_expired=%t",
		r.cfg.PendingGracePeriod, r.cfg.PollInterval, r.cfg.IdleProbe, r.cfg.DeleteExpired)

	for {
		r.runActive(ctx)
		if ctx.Err() != nil {
			r.logger.Info("reaper: stopped")
			return nil
		}

		probe := time.NewTimer(r.cfg.IdleProbe)
		select {
		case <-ctx.Done():
			probe.Stop()
			r.logger.Info("reaper: stopped")
			return nil
		case <-r.wake:
		case <-probe.C:
		}
		probe.Stop()
	}
}

// runActive тикает с PollInterval, пока в очереди есть pending бронирования
func (r *Reaper) runActive(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		remaining, err := r.Sweep(ctx)
		if err == nil && remaining == 0 {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-r.wake:
		}
	}
}

// Sweep один проход: просроченные pending переводятся по payment_timeout.
// Возвращает число pending бронирований, оставшихся после прохода.
func (r *Reaper) Sweep(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "ReaperSweep")
	defer span.End()

	started := time.Now()
	defer func() { r.metrics.ObserveSchedulerSweep(workerReaper, time.Since(started)) }()

	pending, err := r.repo.ListByState(ctx, domain.StatePending)
	if err != nil {
		r.logger.Error("reaper: failed to list pending bookings: %v", err)
		r.metrics.IncSchedulerFailure(workerReaper)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	now := r.clock.Now()
	expired := 0
	for _, booking := range pending {
		if !booking.IsPaymentExpired(now, r.cfg.PendingGracePeriod) {
			continue
		}
		if r.expire(ctx, booking, now) {
			expired++
		}
	}
	span.SetAttributes(
		attribute.Int("bookings.pending", len(pending)),
		attribute.Int("bookings.expired", expired),
	)

	if expired > 0 {
		r.logger.Info("reaper: expired %d of %d pending bookings", expired, len(pending))
	}

	remaining, err := r.repo.CountByState(ctx, domain.StatePending)
	if err != nil {
		r.logger.Error("reaper: failed to count pending bookings: %v", err)
		r.metrics.IncSchedulerFailure(workerReaper)
		return 0, err
	}
	return remaining, nil
}

// expire отменяет (и при DeleteExpired удаляет) одно бронирование.
// Отмена условная: если оплата пришла раньше, бронирование не трогаем.
func (r *Reaper) expire(ctx context.Context, booking *domain.Booking, now time.Time) bool {
	if err := booking.Apply(domain.EventPaymentTimeout, now); err != nil {
		r.logger.Warn("reaper: booking id=%s: %v", booking.ID, err)
		return false
	}

	reason := string(domain.CancelReasonPaymentTimeout)
	err := r.repo.Cancel(ctx, booking.ID, domain.StatePending, reason)
	switch {
	case errors.Is(err, bookingRepo.ErrStateChanged), errors.Is(err, bookingRepo.ErrBookingNotFound):
		r.logger.Info("reaper: booking id=%s left pending before timeout: %v", booking.ID, err)
		return false
	case err != nil:
		r.logger.Error("reaper: failed to cancel booking id=%s: %v", booking.ID, err)
		r.metrics.IncSchedulerFailure(workerReaper)
		return false
	}
	booking.CancellationReason = &reason

	if r.cfg.DeleteExpired {
		if err := r.repo.Delete(ctx, booking.ID); err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			// отмена уже применена, корт освобождён; строку удалим вручную
			r.logger.Error("reaper: cancelled but failed to delete booking id=%s: %v", booking.ID, err)
			r.metrics.IncSchedulerFailure(workerReaper)
		}
	}

	r.metrics.IncSchedulerTransition(workerReaper, string(domain.EventPaymentTimeout))
	publish(ctx, r.publisher, r.logger, events.BookingExpired, booking, now)
	return true
}

func publish(ctx context.Context, publisher EventPublisher, logger Logger, key string, booking *domain.Booking, at time.Time) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishJSON(ctx, key, events.NewBookingEvent(key, booking, at)); err != nil {
		logger.Error("scheduler: failed to publish %s for booking id=%s: %v", key, booking.ID, err)
	}
}
