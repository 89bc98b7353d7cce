package domain

// Сетка слотов
const (
	SlotStepMinutes = 30 // шаг сетки слотов
)

// Расписание студии по умолчанию
const (
	DefaultOpeningTime = "08:00"
	DefaultClosingTime = "18:00"

	// DefaultClosedWeekday выходной, который подставляется, если список выходных не удалось разобрать
	DefaultClosedWeekday = 0 // воскресенье
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxAgendaRangeDays          = 93
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)
