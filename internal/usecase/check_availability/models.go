package check_availability

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса проверки окна
type Request struct {
	CourtID    uuid.UUID
	StartLocal time.Time // Показания настенных часов в TimeZone (зона значения игнорируется)
	EndLocal   time.Time
	TimeZone   string // IANA; пусто - зона корта
}

// Response результат проверки
type Response struct {
	CourtID            uuid.UUID
	Available          bool
	Reason             string
	Detail             string
	TimeZone           string
	StartUTC           *time.Time
	EndUTC             *time.Time
	ConflictBookingID  *uuid.UUID
	ConflictBlackoutID *uuid.UUID
}
