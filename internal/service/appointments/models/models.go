package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи сотрудником студии
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// ClientAppointmentsRequest запрос на получение записей клиента
type ClientAppointmentsRequest struct {
	UserID   int64   `json:"userId"`
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// AgendaRequest запрос расписания записей мастера за период
type AgendaRequest struct {
	UserID          int64     `json:"userId"`
	ProfessionalID  int64     `json:"professionalId"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	Status          *string   `json:"status,omitempty"`
	IncludeReleased bool      `json:"includeReleased,omitempty"` // Включить отмененные записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *AgendaRequest) ToDomainFilter() (domain.ProfessionalAgendaFilter, error) {
	from, to := r.From, r.To
	filter := domain.ProfessionalAgendaFilter{
		ProfessionalID:  r.ProfessionalID,
		StartDate:       &from,
		EndDate:         &to,
		IncludeReleased: r.IncludeReleased,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// CreateBlockRequest запрос на блокировку времени мастера
type CreateBlockRequest struct {
	UserID          int64
	ProfessionalID  int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Notes           *string
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	ProfessionalID  int64   `json:"professionalId"`
	ServiceID       *int64  `json:"serviceId,omitempty"`
	ClientID        *int64  `json:"clientId,omitempty"`
	Kind            string  `json:"kind"`
	Date            string  `json:"date"`      // "2026-10-20"
	StartTime       string  `json:"startTime"` // "10:00"
	EndTime         string  `json:"endTime"`   // "11:00"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		ProfessionalID:     a.ProfessionalID,
		ServiceID:          a.ServiceID,
		ClientID:           a.ClientID,
		Kind:               string(a.Kind),
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	// У старых записей конец не хранится
	if _, end, ok := a.Span(); ok {
		if endTime, err := types.NewTimeStringFromMinutes(end); err == nil {
			resp.EndTime = endTime.String()
		}
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		if a == nil {
			continue
		}
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

// ToDomainStatus конвертирует строку в статус записи
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !domain.IsKnownStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
