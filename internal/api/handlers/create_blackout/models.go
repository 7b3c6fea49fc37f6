package create_blackout

import (
	"time"

	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts/models"
)

// CreateBlackoutRequest HTTP request model
type CreateBlackoutRequest struct {
	StartAt time.Time `json:"startAt"` // RFC 3339
	EndAt   time.Time `json:"endAt"`
	Reason  string    `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlackoutRequest) ToServiceRequest(courtID, userID uuid.UUID) *models.CreateBlackoutRequest {
	return &models.CreateBlackoutRequest{
		UserID:  userID,
		CourtID: courtID,
		StartAt: r.StartAt,
		EndAt:   r.EndAt,
		Reason:  r.Reason,
	}
}
