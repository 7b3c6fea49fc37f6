package delete_blackout

import (
	"context"

	"github.com/google/uuid"
)

type CourtService interface {
	DeleteBlackout(ctx context.Context, courtID, blackoutID, userID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
