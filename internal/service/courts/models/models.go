package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/types"
)

// DayHoursDTO часы работы в один день недели
type DayHoursDTO struct {
	Weekday string `json:"weekday"` // "monday" или "mon"
	From    string `json:"from"`    // "HH:MM"
	To      string `json:"to"`      // "HH:MM"; раньше from - работа через полночь
}

// UpdateOperatingHoursRequest запрос на замену недельного расписания
// Дни, которых нет в списке, становятся выходными
type UpdateOperatingHoursRequest struct {
	UserID uuid.UUID     `json:"-"`
	Days   []DayHoursDTO `json:"days"`
}

// ToDomain конвертирует запрос в domain.OperatingHours с валидацией
func (r *UpdateOperatingHoursRequest) ToDomain() (domain.OperatingHours, error) {
	hours := make(domain.OperatingHours, len(r.Days))
	for _, d := range r.Days {
		day, ok := domain.ParseWeekday(d.Weekday)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", d.Weekday)
		}
		if _, dup := hours[day]; dup {
			return nil, fmt.Errorf("weekday %s listed twice", day)
		}

		from, err := types.NewTimeStringFromString(d.From)
		if err != nil {
			return nil, fmt.Errorf("%s: from: %w", day, err)
		}
		to, err := types.NewTimeStringFromString(d.To)
		if err != nil {
			return nil, fmt.Errorf("%s: to: %w", day, err)
		}
		hours[day] = domain.DayHours{From: from, To: to}
	}

	if err := hours.Validate(); err != nil {
		return nil, err
	}
	return hours, nil
}

// OperatingHoursResponse недельное расписание корта
type OperatingHoursResponse struct {
	CourtID  uuid.UUID     `json:"courtId"`
	TimeZone string        `json:"timeZone"`
	Days     []DayHoursDTO `json:"days"`
}

// FromDomainOperatingHours конвертирует расписание в DTO, дни по порядку с воскресенья
func FromDomainOperatingHours(court *domain.Court, hours domain.OperatingHours) *OperatingHoursResponse {
	days := make([]time.Weekday, 0, len(hours))
	for day := range hours {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	resp := &OperatingHoursResponse{
		CourtID:  court.ID,
		TimeZone: court.TimeZone,
		Days:     make([]DayHoursDTO, 0, len(days)),
	}
	for _, day := range days {
		h := hours[day]
		resp.Days = append(resp.Days, DayHoursDTO{
			Weekday: day.String(),
			From:    h.From.String(),
			To:      h.To.String(),
		})
	}
	return resp
}

// CreateBlackoutRequest запрос на создание периода недоступности
type CreateBlackoutRequest struct {
	UserID  uuid.UUID `json:"-"`
	CourtID uuid.UUID `json:"-"`
	StartAt time.Time `json:"startAt"` // RFC 3339
	EndAt   time.Time `json:"endAt"`
	Reason  string    `json:"reason"`
}

// BlackoutResponse период недоступности
type BlackoutResponse struct {
	ID        uuid.UUID `json:"id"`
	CourtID   uuid.UUID `json:"courtId"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Reason    string    `json:"reason,omitempty"`
	CreatedBy uuid.UUID `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlackoutListResponse список периодов недоступности
type BlackoutListResponse struct {
	Blackouts []BlackoutResponse `json:"blackouts"`
}

// FromDomainBlackout конвертирует domain модель в DTO
func FromDomainBlackout(b *domain.BlackoutWindow) *BlackoutResponse {
	return &BlackoutResponse{
		ID:        b.ID,
		CourtID:   b.CourtID,
		StartAt:   b.Window.Start.UTC(),
		EndAt:     b.Window.End.UTC(),
		Reason:    b.Reason,
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlackoutList конвертирует список в DTO
func FromDomainBlackoutList(list []domain.BlackoutWindow) *BlackoutListResponse {
	resp := &BlackoutListResponse{Blackouts: make([]BlackoutResponse, 0, len(list))}
	for i := range list {
		resp.Blackouts = append(resp.Blackouts, *FromDomainBlackout(&list[i]))
	}
	return resp
}
