package booking_flow

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// State шаг мастера записи
type State string

const (
	StateDate      State = "date"
	StateTime      State = "time"
	StateConfirm   State = "confirm"
	StateCompleted State = "completed" // запись создана
	StateExited    State = "exited"    // клиент вышел из мастера
)

// IsFinal возвращает true, если из состояния нет переходов
func (s State) IsFinal() bool {
	return s == StateCompleted || s == StateExited
}

// Query набор параметров, для которого загружены данные сессии
// Любая навигация создает новый Query, данные старого Query не применяются
type Query struct {
	ProfessionalID int64
	ServiceID      int64
	Year           int
	Month          time.Month
}

// Reservation созданная запись
type Reservation struct {
	AppointmentID   int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
}

// Flow состояние мастера записи
type Flow struct {
	ID       uuid.UUID
	ClientID int64
	State    State
	Query    Query

	// Calendar снимок календаря для Query, nil пока не загружен
	Calendar *domain.MonthCalendar

	SelectedDate *time.Time
	// Slots снимок слотов для Query и SelectedDate
	Slots        []types.TimeString
	SelectedTime *types.TimeString

	Reservation *Reservation
	LastError   string

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// StartRequest запрос на создание сессии записи
type StartRequest struct {
	ClientID       int64
	ProfessionalID int64
	ServiceID      int64
	Year           int        // 0 - текущий месяц
	Month          time.Month // 0 - текущий месяц
}
