package check_availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Court, error)
	GetOperatingHours(ctx context.Context, courtID uuid.UUID) (domain.OperatingHours, error)
	ListBlackoutWindows(ctx context.Context, courtID uuid.UUID, since time.Time) ([]domain.BlackoutWindow, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListConfirmedBookingWindows(ctx context.Context, courtID uuid.UUID, since time.Time) ([]domain.BookedWindow, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
