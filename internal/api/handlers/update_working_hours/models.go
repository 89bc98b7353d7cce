package update_working_hours

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedules/models"
)

// DayHoursRequest часы работы на один день недели
type DayHoursRequest struct {
	Weekday int    `json:"weekday" validate:"min=0,max=6"`
	Start   string `json:"start,omitempty" validate:"required_unless=Closed true"`
	End     string `json:"end,omitempty" validate:"required_unless=Closed true"`
	Closed  bool   `json:"closed"`
}

// UpdateWorkingHoursRequest HTTP request model
// Дни, которых нет в запросе, берутся из расписания студии
type UpdateWorkingHoursRequest struct {
	Days []DayHoursRequest `json:"days" validate:"max=7,dive"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateWorkingHoursRequest) ToServiceRequest(professionalID, userID int64) *models.UpdateWorkingHoursRequest {
	days := make([]models.DayHours, len(r.Days))
	for i, d := range r.Days {
		days[i] = models.DayHours{
			Weekday: d.Weekday,
			Start:   d.Start,
			End:     d.End,
			Closed:  d.Closed,
		}
	}

	return &models.UpdateWorkingHoursRequest{
		UserID:         userID,
		ProfessionalID: professionalID,
		Days:           days,
	}
}
