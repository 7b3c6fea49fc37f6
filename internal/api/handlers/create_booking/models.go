package create_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/availability"
	createBooking "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CourtID          uuid.UUID `json:"courtId"`
	Start            string    `json:"start"`              // "2026-05-02T18:00", локальное время
	End              string    `json:"end"`                // "2026-05-02T19:30"
	TimeZone         string    `json:"timeZone,omitempty"` // IANA; по умолчанию зона корта
	PaymentReference *string   `json:"paymentReference,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               uuid.UUID `json:"id"`
	CourtID          uuid.UUID `json:"courtId"`
	UserID           uuid.UUID `json:"userId"`
	StartAt          string    `json:"startAt"` // RFC 3339, UTC
	EndAt            string    `json:"endAt"`
	TimeZone         string    `json:"timeZone"`
	State            string    `json:"state"`
	TotalPrice       float64   `json:"totalPrice"`
	PaymentReference *string   `json:"paymentReference,omitempty"`
	CreatedAt        string    `json:"createdAt"`
	UpdatedAt        string    `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID uuid.UUID) (*createBooking.Request, error) {
	start, err := availability.ParseLocal(r.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := availability.ParseLocal(r.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	return &createBooking.Request{
		UserID:           userID,
		CourtID:          r.CourtID,
		StartLocal:       start,
		EndLocal:         end,
		TimeZone:         r.TimeZone,
		PaymentReference: r.PaymentReference,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:               resp.ID,
		CourtID:          resp.CourtID,
		UserID:           resp.UserID,
		StartAt:          resp.StartAt.UTC().Format(time.RFC3339),
		EndAt:            resp.EndAt.UTC().Format(time.RFC3339),
		TimeZone:         resp.TimeZone,
		State:            resp.State,
		TotalPrice:       resp.TotalPrice,
		PaymentReference: resp.PaymentReference,
		CreatedAt:        resp.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
