package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListByState(ctx context.Context, state domain.BookingState) ([]*domain.Booking, error)
	CountByState(ctx context.Context, state domain.BookingState) (int, error)
	UpdateState(ctx context.Context, id uuid.UUID, from, to domain.BookingState) error
	Cancel(ctx context.Context, id uuid.UUID, from domain.BookingState, reason string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventPublisher публикует события в брокер
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Metrics счётчики воркеров (реализуется pkg/metrics)
type Metrics interface {
	IncSchedulerTransition(worker, event string)
	IncSchedulerFailure(worker string)
	ObserveSchedulerSweep(worker string, duration time.Duration)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

type nopMetrics struct{}

func (nopMetrics) IncSchedulerTransition(string, string)       {}
func (nopMetrics) IncSchedulerFailure(string)                  {}
func (nopMetrics) ObserveSchedulerSweep(string, time.Duration) {}
