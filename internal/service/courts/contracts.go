package courts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/integrations/facilityservice"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Court, error)
	GetOperatingHours(ctx context.Context, courtID uuid.UUID) (domain.OperatingHours, error)
	UpsertOperatingHours(ctx context.Context, courtID uuid.UUID, hours domain.OperatingHours) error
	ListBlackoutWindows(ctx context.Context, courtID uuid.UUID, since time.Time) ([]domain.BlackoutWindow, error)
	CreateBlackout(ctx context.Context, blackout *domain.BlackoutWindow) (*domain.BlackoutWindow, error)
	DeleteBlackout(ctx context.Context, courtID, blackoutID uuid.UUID) error
}

// FacilityServiceClient интерфейс клиента для FacilityService
type FacilityServiceClient interface {
	GetFacility(ctx context.Context, facilityID uuid.UUID) (*facilityservice.Facility, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
