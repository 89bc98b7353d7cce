package booking_flow

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func (f *Flow) changeMonth(year int, month time.Month) (Query, error) {
	if f.State != StateDate {
		return Query{}, fmt.Errorf("%w: month can be changed only on date step, current=%s", ErrInvalidTransition, f.State)
	}
	if month < time.January || month > time.December || year <= 0 {
		return Query{}, fmt.Errorf("%w: invalid month %04d-%02d", ErrInvalidInput, year, int(month))
	}

	q := f.Query
	q.Year, q.Month = year, month
	if q != f.Query {
		f.Query = q
		f.Calendar = nil
	}
	return q, nil
}

// applyCalendar применяет снимок, только если он загружен для текущего Query
func (f *Flow) applyCalendar(q Query, cal domain.MonthCalendar) bool {
	if q != f.Query {
		return false
	}
	f.Calendar = &cal
	return true
}

func (f *Flow) selectDate(date time.Time) error {
	switch f.State {
	case StateDate, StateTime, StateConfirm:
	default:
		return fmt.Errorf("%w: cannot select date, current=%s", ErrInvalidTransition, f.State)
	}
	if f.Calendar == nil {
		return fmt.Errorf("%w: calendar is not loaded", ErrDateNotSelectable)
	}
	if date.Year() != f.Calendar.Year || date.Month() != f.Calendar.Month {
		return fmt.Errorf("%w: %s is outside %04d-%02d", ErrDateNotSelectable,
			date.Format(domain.DateFormat), f.Calendar.Year, int(f.Calendar.Month))
	}

	cell, ok := f.Calendar.Day(date.Day())
	if !ok {
		return fmt.Errorf("%w: %s", ErrDateNotSelectable, date.Format(domain.DateFormat))
	}

	// Занятый день можно выбрать повторно, если он уже выбран
	selectable := cell.Status.IsSelectable() ||
		(cell.Status == domain.DayFull && f.SelectedDate != nil && sameDay(*f.SelectedDate, date))
	if !selectable {
		return fmt.Errorf("%w: %s is %s", ErrDateNotSelectable, date.Format(domain.DateFormat), cell.Status)
	}

	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	f.SelectedDate = &d
	f.SelectedTime = nil
	f.Slots = nil
	f.State = StateTime
	return nil
}

// applySlots применяет снимок слотов, только если Query и выбранная дата не поменялись
func (f *Flow) applySlots(q Query, date time.Time, slots []types.TimeString) bool {
	if q != f.Query || f.State != StateTime || f.SelectedDate == nil || !sameDay(*f.SelectedDate, date) {
		return false
	}
	f.Slots = slots
	return true
}

func (f *Flow) selectTime(t types.TimeString) error {
	if f.State != StateTime {
		return fmt.Errorf("%w: cannot select time, current=%s", ErrInvalidTransition, f.State)
	}
	for _, s := range f.Slots {
		if s.Equal(t) {
			f.SelectedTime = &t
			f.State = StateConfirm
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTimeNotSelectable, t)
}

func (f *Flow) back() error {
	switch f.State {
	case StateConfirm:
		f.SelectedTime = nil
		f.State = StateTime
	case StateTime:
		f.SelectedTime = nil
		f.Slots = nil
		f.State = StateDate
	case StateDate:
		f.State = StateExited
	default:
		return fmt.Errorf("%w: cannot go back, current=%s", ErrInvalidTransition, f.State)
	}
	return nil
}

func (f *Flow) readyToConfirm() error {
	if f.State != StateConfirm {
		return fmt.Errorf("%w: cannot confirm, current=%s", ErrInvalidTransition, f.State)
	}
	if f.SelectedDate == nil || f.SelectedTime == nil {
		return fmt.Errorf("%w: date and time must be selected", ErrInvalidTransition)
	}
	return nil
}

func (f *Flow) complete(r Reservation) {
	f.Reservation = &r
	f.LastError = ""
	f.State = StateCompleted
}

// fail оставляет сессию на шаге подтверждения
func (f *Flow) fail(err error) {
	f.LastError = err.Error()
}

// clone возвращает копию, которую можно отдавать наружу без блокировки
func (f *Flow) clone() Flow {
	c := *f
	if f.Calendar != nil {
		cal := *f.Calendar
		cal.Days = append([]domain.CalendarDay(nil), f.Calendar.Days...)
		c.Calendar = &cal
	}
	if f.SelectedDate != nil {
		d := *f.SelectedDate
		c.SelectedDate = &d
	}
	if f.SelectedTime != nil {
		t := *f.SelectedTime
		c.SelectedTime = &t
	}
	if f.Slots != nil {
		c.Slots = append([]types.TimeString(nil), f.Slots...)
	}
	if f.Reservation != nil {
		r := *f.Reservation
		c.Reservation = &r
	}
	return c
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
