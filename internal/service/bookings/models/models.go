package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
)

var (
	// ErrInvalidState возвращается при некорректном состоянии в фильтре
	ErrInvalidState = errors.New("invalid booking state")

	// ErrInvalidPeriod возвращается, когда from не раньше to
	ErrInvalidPeriod = errors.New("invalid period: from must be before to")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             uuid.UUID `json:"-"`
	CancellationReason string    `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID uuid.UUID `json:"userId"`
	State  *string   `json:"state,omitempty"`
}

// GetCourtBookingsRequest запрос на получение бронирований корта
type GetCourtBookingsRequest struct {
	UserID  uuid.UUID  `json:"-"`
	CourtID uuid.UUID  `json:"courtId"`
	From    *time.Time `json:"from,omitempty"`  // Окна, заканчивающиеся после from
	To      *time.Time `json:"to,omitempty"`    // Окна, начинающиеся до to
	State   *string    `json:"state,omitempty"` // Фильтр по состоянию (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCourtBookingsRequest) ToDomainFilter() (domain.CourtBookingsFilter, error) {
	filter := domain.CourtBookingsFilter{
		CourtID: r.CourtID,
		From:    r.From,
		To:      r.To,
	}

	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return filter, ErrInvalidPeriod
	}

	if r.State != nil {
		state, err := ToDomainBookingState(*r.State)
		if err != nil {
			return filter, err
		}
		filter.State = &state
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 uuid.UUID `json:"id"`
	CourtID            uuid.UUID `json:"courtId"`
	UserID             uuid.UUID `json:"userId"`
	StartAt            time.Time `json:"startAt"` // UTC, RFC 3339
	EndAt              time.Time `json:"endAt"`
	State              string    `json:"state"`
	TotalPrice         float64   `json:"totalPrice"`
	PaymentReference   *string   `json:"paymentReference,omitempty"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		CourtID:            b.CourtID,
		UserID:             b.UserID,
		StartAt:            b.Window.Start.UTC(),
		EndAt:              b.Window.End.UTC(),
		State:              string(b.State),
		TotalPrice:         b.TotalPrice,
		PaymentReference:   b.PaymentReference,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingState конвертирует строку в domain.BookingState с валидацией
func ToDomainBookingState(state string) (domain.BookingState, error) {
	s, err := domain.ParseBookingState(state)
	if err != nil {
		return "", ErrInvalidState
	}
	return s, nil
}
