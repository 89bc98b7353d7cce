package create_block

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	Date            string  `json:"date" validate:"required"`      // "2026-10-20"
	StartTime       string  `json:"startTime" validate:"required"` // "13:00"
	DurationMinutes int     `json:"durationMinutes" validate:"required,gt=0,lte=1440"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlockRequest) ToServiceRequest(professionalID, userID int64) (*models.CreateBlockRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockRequest{
		UserID:          userID,
		ProfessionalID:  professionalID,
		Date:            date,
		StartTime:       start,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}, nil
}
