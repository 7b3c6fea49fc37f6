package create_blackout

import (
	"context"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts/models"
)

type CourtService interface {
	CreateBlackout(ctx context.Context, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
