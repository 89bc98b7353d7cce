package booking_flow

import (
	"time"

	calendarHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_month_calendar"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingFlow "github.com/m04kA/SMC-SalonBooking/internal/usecase/booking_flow"
)

// StartFlowRequest HTTP request model
// Год и месяц необязательны, по умолчанию текущий месяц
type StartFlowRequest struct {
	ProfessionalID int64 `json:"professionalId" validate:"required,gt=0"`
	ServiceID      int64 `json:"serviceId" validate:"required,gt=0"`
	Year           int   `json:"year,omitempty" validate:"omitempty,min=1970,max=9999"`
	Month          int   `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *StartFlowRequest) ToUseCaseRequest(clientID int64) *bookingFlow.StartRequest {
	return &bookingFlow.StartRequest{
		ClientID:       clientID,
		ProfessionalID: r.ProfessionalID,
		ServiceID:      r.ServiceID,
		Year:           r.Year,
		Month:          time.Month(r.Month),
	}
}

// ChangeMonthRequest HTTP request model
type ChangeMonthRequest struct {
	Year  int `json:"year" validate:"required,min=1970,max=9999"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

// SelectDateRequest HTTP request model
type SelectDateRequest struct {
	Date string `json:"date" validate:"required"` // "2026-10-20"
}

// SelectTimeRequest HTTP request model
type SelectTimeRequest struct {
	Time string `json:"time" validate:"required"` // "10:00"
}

// ConfirmRequest HTTP request model
type ConfirmRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ReservationResponse созданная запись
type ReservationResponse struct {
	AppointmentID   int64  `json:"appointmentId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
}

// FlowResponse HTTP response model
type FlowResponse struct {
	ID             string                        `json:"id"`
	State          string                        `json:"state"`
	ProfessionalID int64                         `json:"professionalId"`
	ServiceID      int64                         `json:"serviceId"`
	Year           int                           `json:"year"`
	Month          int                           `json:"month"`
	Calendar       []calendarHandler.CalendarDay `json:"calendar,omitempty"`
	SelectedDate   *string                       `json:"selectedDate,omitempty"`
	Slots          []string                      `json:"slots,omitempty"`
	SelectedTime   *string                       `json:"selectedTime,omitempty"`
	Reservation    *ReservationResponse          `json:"reservation,omitempty"`
	LastError      string                        `json:"lastError,omitempty"`
	ExpiresAt      string                        `json:"expiresAt"`
}

// FromFlow конвертирует состояние мастера записи в HTTP response
func FromFlow(f *bookingFlow.Flow) *FlowResponse {
	resp := &FlowResponse{
		ID:             f.ID.String(),
		State:          string(f.State),
		ProfessionalID: f.Query.ProfessionalID,
		ServiceID:      f.Query.ServiceID,
		Year:           f.Query.Year,
		Month:          int(f.Query.Month),
		LastError:      f.LastError,
		ExpiresAt:      f.ExpiresAt.Format(time.RFC3339),
	}

	if f.Calendar != nil {
		_, _, resp.Calendar = calendarHandler.FromCalendar(*f.Calendar)
	}
	if f.SelectedDate != nil {
		date := f.SelectedDate.Format(domain.DateFormat)
		resp.SelectedDate = &date
	}
	if len(f.Slots) > 0 {
		resp.Slots = make([]string, len(f.Slots))
		for i, s := range f.Slots {
			resp.Slots[i] = s.String()
		}
	}
	if f.SelectedTime != nil {
		t := f.SelectedTime.String()
		resp.SelectedTime = &t
	}
	if r := f.Reservation; r != nil {
		resp.Reservation = &ReservationResponse{
			AppointmentID:   r.AppointmentID,
			Date:            r.Date.Format(domain.DateFormat),
			StartTime:       r.StartTime.String(),
			EndTime:         r.EndTime.String(),
			DurationMinutes: r.DurationMinutes,
			Status:          r.Status,
		}
	}

	return resp
}
