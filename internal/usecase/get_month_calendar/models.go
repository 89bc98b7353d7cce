package get_month_calendar

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request запрос календаря месяца
type Request struct {
	ProfessionalID int64
	Year           int
	Month          time.Month
	ServiceID      *int64 // nil - услуга не выбрана, статус full не вычисляется
}

// Response календарь месяца
type Response struct {
	ProfessionalID  int64
	ServiceID       *int64
	DurationMinutes *int
	Calendar        domain.MonthCalendar
}
