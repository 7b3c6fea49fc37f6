package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	getAvailableSlots "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/get_available_slots"
)

// SlotResponse HTTP response model для одного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"` // "HH:MM", локальное время корта
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	StartAt         string `json:"startAt"` // RFC 3339, UTC
	EndAt           string `json:"endAt"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	CourtID         uuid.UUID      `json:"courtId"`
	Date            string         `json:"date"`
	TimeZone        string         `json:"timeZone"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
			DurationMinutes: s.DurationMinutes,
			StartAt:         s.Window.Start.UTC().Format(time.RFC3339),
			EndAt:           s.Window.End.UTC().Format(time.RFC3339),
		})
	}

	return &AvailableSlotsResponse{
		CourtID:         resp.CourtID,
		Date:            resp.Date.Format(domain.DateFormat),
		TimeZone:        resp.TimeZone,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
