package get_operating_hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts/models"
)

type CourtService interface {
	GetOperatingHours(ctx context.Context, courtID uuid.UUID) (*models.OperatingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
