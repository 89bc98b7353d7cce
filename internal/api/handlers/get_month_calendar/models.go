package get_month_calendar

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getMonthCalendar "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_month_calendar"
)

// CalendarDay ячейка календаря. Date пустая у заполнителей до 1-го числа
type CalendarDay struct {
	Date       *string `json:"date"`
	Status     string  `json:"status,omitempty"`
	Selectable bool    `json:"selectable"`
}

// CalendarResponse HTTP response model
type CalendarResponse struct {
	ProfessionalID  int64         `json:"professionalId"`
	ServiceID       *int64        `json:"serviceId,omitempty"`
	DurationMinutes *int          `json:"durationMinutes,omitempty"`
	Year            int           `json:"year"`
	Month           int           `json:"month"`
	Days            []CalendarDay `json:"days"`
}

// FromCalendar конвертирует календарь месяца в HTTP модель
func FromCalendar(cal domain.MonthCalendar) (int, int, []CalendarDay) {
	days := make([]CalendarDay, len(cal.Days))
	for i, d := range cal.Days {
		if d.IsPlaceholder() {
			continue
		}
		date := d.Date.Format(domain.DateFormat)
		days[i] = CalendarDay{
			Date:       &date,
			Status:     string(d.Status),
			Selectable: d.Status.IsSelectable(),
		}
	}
	return cal.Year, int(cal.Month), days
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getMonthCalendar.Response) *CalendarResponse {
	year, month, days := FromCalendar(resp.Calendar)
	return &CalendarResponse{
		ProfessionalID:  resp.ProfessionalID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Year:            year,
		Month:           month,
		Days:            days,
	}
}
