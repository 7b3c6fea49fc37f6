package check_availability

import (
	"time"

	"github.com/google/uuid"

	checkAvailability "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	CourtID            uuid.UUID  `json:"courtId"`
	Available          bool       `json:"available"`
	Reason             string     `json:"reason"`
	Detail             string     `json:"detail,omitempty"`
	TimeZone           string     `json:"timeZone,omitempty"`
	StartAt            *string    `json:"startAt,omitempty"`
	EndAt              *string    `json:"endAt,omitempty"`
	ConflictBookingID  *uuid.UUID `json:"conflictBookingId,omitempty"`
	ConflictBlackoutID *uuid.UUID `json:"conflictBlackoutId,omitempty"`
}

func formatUTC(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		CourtID:            resp.CourtID,
		Available:          resp.Available,
		Reason:             resp.Reason,
		Detail:             resp.Detail,
		TimeZone:           resp.TimeZone,
		StartAt:            formatUTC(resp.StartUTC),
		EndAt:              formatUTC(resp.EndUTC),
		ConflictBookingID:  resp.ConflictBookingID,
		ConflictBlackoutID: resp.ConflictBlackoutID,
	}
}
