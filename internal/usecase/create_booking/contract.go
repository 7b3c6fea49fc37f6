package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockCourt(ctx context.Context, courtID uuid.UUID) error
	ListConfirmedBookingWindows(ctx context.Context, courtID uuid.UUID, since time.Time) ([]domain.BookedWindow, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Court, error)
	GetOperatingHours(ctx context.Context, courtID uuid.UUID) (domain.OperatingHours, error)
	ListBlackoutWindows(ctx context.Context, courtID uuid.UUID, since time.Time) ([]domain.BlackoutWindow, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события в брокер
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// ReaperNotifier будит воркер, снимающий неоплаченные бронирования
type ReaperNotifier interface {
	Notify()
}

// VerdictRecorder считает вердикты проверки (реализуется pkg/metrics)
type VerdictRecorder interface {
	IncAvailabilityVerdict(verdict string)
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
