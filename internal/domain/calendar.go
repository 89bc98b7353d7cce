package domain

import "time"

// DayStatus доступность дня в календаре
type DayStatus string

const (
	DayPast   DayStatus = "past"
	DayClosed DayStatus = "closed"
	DayFull   DayStatus = "full"
	DayOpen   DayStatus = "open"
)

// IsSelectable возвращает true, если день можно выбрать для записи
func (s DayStatus) IsSelectable() bool {
	return s == DayOpen
}

// CalendarDay ячейка календаря
// Ячейки-заполнители (до 1-го числа) имеют Date == nil и пустой статус
type CalendarDay struct {
	Date   *time.Time
	Status DayStatus
}

// IsPlaceholder возвращает true для ячейки выравнивания сетки
func (d CalendarDay) IsPlaceholder() bool {
	return d.Date == nil
}

// MonthCalendar календарь месяца
type MonthCalendar struct {
	Year  int
	Month time.Month
	Days  []CalendarDay // ведущие заполнители + по одной ячейке на каждое число
}

// Day возвращает ячейку по числу месяца
func (c *MonthCalendar) Day(day int) (CalendarDay, bool) {
	for _, d := range c.Days {
		if d.Date != nil && d.Date.Day() == day {
			return d, true
		}
	}
	return CalendarDay{}, false
}
