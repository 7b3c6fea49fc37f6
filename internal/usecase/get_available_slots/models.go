package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	CourtID         uuid.UUID // ID корта
	Date            time.Time // Локальная дата в зоне корта (время игнорируется)
	DurationMinutes int       // Длительность слота; 0 - значение по умолчанию
}

// Response модель ответа со списком свободных слотов
type Response struct {
	CourtID         uuid.UUID
	Date            time.Time
	TimeZone        string
	DurationMinutes int
	Slots           []domain.AvailableSlot
}
