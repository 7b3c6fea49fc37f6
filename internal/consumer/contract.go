package consumer

import (
	"context"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/bookings/models"
)

// PaymentConfirmer подтверждает оплату бронирования (реализуется service/bookings)
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID, paymentReference string) (*models.BookingResponse, error)
}

// EventPublisher публикует события о платежах без бронирования
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
