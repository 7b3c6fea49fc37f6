package facilityservice

import "github.com/google/uuid"

// Facility модель площадки из FacilityService
type Facility struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	ManagerIDs []uuid.UUID `json:"managerIds"`
}

// IsManagedBy проверяет, что пользователь является менеджером площадки
func (f *Facility) IsManagedBy(userID uuid.UUID) bool {
	for _, id := range f.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
