package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusPending           AppointmentStatus = "pending"
	StatusConfirmed         AppointmentStatus = "confirmed"
	StatusCompleted         AppointmentStatus = "completed"
	StatusNoShow            AppointmentStatus = "no_show"
	StatusCancelledByClient AppointmentStatus = "cancelled_by_client"
	StatusCancelledByStudio AppointmentStatus = "cancelled_by_studio"
	StatusRejected          AppointmentStatus = "rejected"
)

// AppointmentKind тип записи: клиентская запись или блокировка времени мастером
type AppointmentKind string

const (
	KindClient AppointmentKind = "client"
	KindBlock  AppointmentKind = "block"
)

// Appointment запись к мастеру на конкретную дату и время
type Appointment struct {
	ID              int64
	ProfessionalID  int64
	ServiceID       *int64 // NULL для блокировок
	ClientID        *int64 // NULL для блокировок
	Kind            AppointmentKind
	Date            time.Time // дата без времени
	StartTime       types.TimeString
	EndTime         types.TimeString // может быть пустым у старых записей, тогда конец = начало + длительность
	DurationMinutes int
	Status          AppointmentStatus
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsAsBooked возвращает true, если запись занимает время мастера
func (a *Appointment) CountsAsBooked() bool {
	return CountsAsBooked(a.Status)
}

// CanBeCancelled возвращает true, если запись можно отменить
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsBlock возвращает true для блокировки времени (не клиентская запись)
func (a *Appointment) IsBlock() bool {
	return a.Kind == KindBlock
}

// IsOwnedBy возвращает true, если запись принадлежит клиенту
func (a *Appointment) IsOwnedBy(clientID int64) bool {
	return a.ClientID != nil && *a.ClientID == clientID
}

// Span возвращает интервал записи в минутах от полуночи [start, end)
// Если конец не записан, он вычисляется из длительности
// Конец обрезается до 24:00. ok=false, если интервал пустой или некорректный
func (a *Appointment) Span() (start, end int, ok bool) {
	if a.StartTime.IsZero() {
		return 0, 0, false
	}
	start = a.StartTime.Minutes()
	if !a.EndTime.IsZero() {
		end = a.EndTime.Minutes()
	} else {
		end = start + a.DurationMinutes
	}
	if end > types.MinutesPerDay {
		end = types.MinutesPerDay
	}
	if start < 0 || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// ProfessionalAgendaFilter фильтр для получения записей мастера
type ProfessionalAgendaFilter struct {
	ProfessionalID  int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (включительно)
	EndDate         *time.Time         // Конец периода (включительно)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeReleased bool               // Включать ли отмененные/отклоненные записи
}
