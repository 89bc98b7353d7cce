package update_studio_hours

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedules/models"
)

// UpdateStudioHoursRequest HTTP request model
type UpdateStudioHoursRequest struct {
	Start      string `json:"start" validate:"required"` // "08:00"
	End        string `json:"end" validate:"required"`   // "18:00"
	ClosedDays []int  `json:"closedDays" validate:"dive,min=0,max=6"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStudioHoursRequest) ToServiceRequest(userID int64) *models.UpdateStudioHoursRequest {
	return &models.UpdateStudioHoursRequest{
		UserID:     userID,
		Start:      r.Start,
		End:        r.End,
		ClosedDays: r.ClosedDays,
	}
}
