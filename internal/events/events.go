package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
)

// Ключи маршрутизации событий
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingExpired   = "booking.expired"
	BookingStarted   = "booking.started"
	BookingCompleted = "booking.completed"

	// BookingPaymentOrphaned деньги пришли, а бронирование уже нельзя подтвердить
	BookingPaymentOrphaned = "booking.payment_orphaned"

	PaymentPaid = "payment.paid"
)

const envelopeVersion = 1

// Envelope общий формат события в брокере
type Envelope[T any] struct {
	Event      string    `json:"event"`
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       T         `json:"data"`
}

// BookingData полезная нагрузка событий booking.*
type BookingData struct {
	BookingID          uuid.UUID `json:"booking_id"`
	CourtID            uuid.UUID `json:"court_id"`
	UserID             uuid.UUID `json:"user_id"`
	State              string    `json:"state"`
	StartAt            time.Time `json:"start_at"`
	EndAt              time.Time `json:"end_at"`
	TotalPrice         float64   `json:"total_price"`
	PaymentReference   *string   `json:"payment_reference,omitempty"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
}

// PaymentPaidData полезная нагрузка payment.paid
type PaymentPaidData struct {
	PaymentID string    `json:"payment_id"`
	BookingID uuid.UUID `json:"booking_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
}

// PaymentOrphanedData полезная нагрузка booking.payment_orphaned
type PaymentOrphanedData struct {
	BookingID uuid.UUID `json:"booking_id"`
	PaymentID string    `json:"payment_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Reason    string    `json:"reason"`
}

// NewPaymentOrphanedEvent собирает событие для возврата оплаты
func NewPaymentOrphanedEvent(paid PaymentPaidData, reason string, at time.Time) Envelope[PaymentOrphanedData] {
	return Envelope[PaymentOrphanedData]{
		Event:      BookingPaymentOrphaned,
		Version:    envelopeVersion,
		OccurredAt: at.UTC(),
		Data: PaymentOrphanedData{
			BookingID: paid.BookingID,
			PaymentID: paid.PaymentID,
			Amount:    paid.Amount,
			Currency:  paid.Currency,
			Reason:    reason,
		},
	}
}

// NewBookingEvent собирает событие по текущему снимку бронирования
func NewBookingEvent(key string, b *domain.Booking, at time.Time) Envelope[BookingData] {
	return Envelope[BookingData]{
		Event:      key,
		Version:    envelopeVersion,
		OccurredAt: at.UTC(),
		Data: BookingData{
			BookingID:          b.ID,
			CourtID:            b.CourtID,
			UserID:             b.UserID,
			State:              string(b.State),
			StartAt:            b.Window.Start,
			EndAt:              b.Window.End,
			TotalPrice:         b.TotalPrice,
			PaymentReference:   b.PaymentReference,
			CancellationReason: b.CancellationReason,
		},
	}
}
