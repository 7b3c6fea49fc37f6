package domain

import (
	"time"

	"github.com/google/uuid"
)

// CourtState административное состояние корта
type CourtState string

const (
	CourtStateActive CourtState = "active"
	CourtStateLocked CourtState = "locked"
)

// Court бронируемый корт площадки
type Court struct {
	ID           uuid.UUID
	FacilityID   uuid.UUID
	Name         string
	TimeZone     string // IANA, например "Asia/Ho_Chi_Minh"
	State        CourtState
	PricePerHour float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLocked returns true if the court does not accept new bookings
func (c *Court) IsLocked() bool {
	return c.State == CourtStateLocked
}

// Location загружает временную зону корта
func (c *Court) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// PriceFor стоимость бронирования окна по почасовой ставке
func (c *Court) PriceFor(w TimeWindow) float64 {
	return c.PricePerHour * w.Duration().Hours()
}

// BlackoutWindow период, когда корт недоступен независимо от часов работы (обслуживание, турнир)
type BlackoutWindow struct {
	ID        uuid.UUID
	CourtID   uuid.UUID
	Window    TimeWindow
	Reason    string
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// BookedWindow окно, занятое бронированием
type BookedWindow struct {
	BookingID uuid.UUID
	Window    TimeWindow
}
