package create_booking

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID           uuid.UUID // ID пользователя (из X-User-ID)
	CourtID          uuid.UUID // ID корта
	StartLocal       time.Time // Локальное время начала (зона значения игнорируется)
	EndLocal         time.Time // Локальное время окончания
	TimeZone         string    // IANA; пусто - зона корта
	PaymentReference *string   // Ссылка на платёж (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID               uuid.UUID
	CourtID          uuid.UUID
	UserID           uuid.UUID
	StartAt          time.Time // UTC
	EndAt            time.Time // UTC
	TimeZone         string
	State            string
	TotalPrice       float64
	PaymentReference *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
