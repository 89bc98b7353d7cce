package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// MonthRequest входные данные для построения календаря месяца
type MonthRequest struct {
	Year     int
	Month    time.Month
	Schedule Schedule

	// DurationMinutes длительность услуги. nil - услуга еще не выбрана, статус full не вычисляется
	DurationMinutes *int

	// Busy занятые интервалы по датам (ключ - YYYY-MM-DD), см. GroupByDate
	Busy map[string]IntervalSet

	// Today дата "сегодня", время суток игнорируется
	Today time.Time

	// TodayCutoff минимальное время начала слота для сегодняшнего дня (минуты от полуночи)
	// nil - сегодняшний день проверяется целиком
	TodayCutoff *int
}

// CalendarBuilder строит календарь месяца
type CalendarBuilder struct {
	slots SlotGenerator
}

// NewCalendarBuilder создает построитель календаря поверх генератора слотов
func NewCalendarBuilder(slots SlotGenerator) CalendarBuilder {
	return CalendarBuilder{slots: slots}
}

// Build возвращает календарь месяца: ведущие заполнители до 1-го числа (неделя начинается с воскресенья)
// и по одной ячейке на каждое число. Некорректный месяц - пустой календарь
func (b CalendarBuilder) Build(req MonthRequest) domain.MonthCalendar {
	cal := domain.MonthCalendar{Year: req.Year, Month: req.Month}
	if req.Month < time.January || req.Month > time.December || req.Year <= 0 {
		cal.Days = []domain.CalendarDay{}
		return cal
	}

	loc := req.Today.Location()
	if req.Today.IsZero() {
		loc = time.Local
	}
	first := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	padding := int(first.Weekday())
	today := truncateToDate(req.Today, loc)

	cal.Days = make([]domain.CalendarDay, 0, padding+daysInMonth)
	for i := 0; i < padding; i++ {
		cal.Days = append(cal.Days, domain.CalendarDay{})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(req.Year, req.Month, day, 0, 0, 0, 0, loc)
		cal.Days = append(cal.Days, domain.CalendarDay{
			Date:   &date,
			Status: b.dayStatus(req, date, today),
		})
	}
	return cal
}

// DayStatus классифицирует одну дату по тем же правилам, что и Build
func (b CalendarBuilder) DayStatus(req MonthRequest, date time.Time) domain.DayStatus {
	loc := date.Location()
	return b.dayStatus(req, truncateToDate(date, loc), truncateToDate(req.Today, loc))
}

func (b CalendarBuilder) dayStatus(req MonthRequest, date, today time.Time) domain.DayStatus {
	if date.Before(today) {
		return domain.DayPast
	}

	day := req.Schedule.ForDate(date)
	if !day.IsUsable() {
		return domain.DayClosed
	}

	if req.DurationMinutes == nil {
		return domain.DayOpen
	}

	notBefore := NoCutoff
	if req.TodayCutoff != nil && date.Equal(today) {
		notBefore = *req.TodayCutoff
	}

	busy := req.Busy[date.Format(domain.DateFormat)]
	if !b.slots.HasAnySlot(day, *req.DurationMinutes, busy, notBefore) {
		return domain.DayFull
	}
	return domain.DayOpen
}

func truncateToDate(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
