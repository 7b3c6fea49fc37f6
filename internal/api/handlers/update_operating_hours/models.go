package update_operating_hours

import (
	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts/models"
)

// UpdateOperatingHoursRequest HTTP request model
type UpdateOperatingHoursRequest struct {
	Days []models.DayHoursDTO `json:"days"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateOperatingHoursRequest) ToServiceRequest(userID uuid.UUID) *models.UpdateOperatingHoursRequest {
	return &models.UpdateOperatingHoursRequest{
		UserID: userID,
		Days:   r.Days,
	}
}
