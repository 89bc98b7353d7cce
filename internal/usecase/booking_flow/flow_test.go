package booking_flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func day(d int) time.Time {
	return time.Date(2026, time.October, d, 0, 0, 0, 0, time.UTC)
}

// october календарь октября 2026: 18 прошел, 20 занят, 25 выходной, остальные открыты
func october() domain.MonthCalendar {
	cal := domain.MonthCalendar{Year: 2026, Month: time.October}
	for i := 0; i < 4; i++ {
		cal.Days = append(cal.Days, domain.CalendarDay{})
	}
	for d := 1; d <= 31; d++ {
		date := day(d)
		status := domain.DayOpen
		switch {
		case d < 19:
			status = domain.DayPast
		case d == 20:
			status = domain.DayFull
		case d == 25:
			status = domain.DayClosed
		}
		cal.Days = append(cal.Days, domain.CalendarDay{Date: &date, Status: status})
	}
	return cal
}

func slots(values ...string) []types.TimeString {
	out := make([]types.TimeString, 0, len(values))
	for _, v := range values {
		out = append(out, types.MustTimeString(v))
	}
	return out
}

func newFlow() *Flow {
	q := Query{ProfessionalID: 1, ServiceID: 5, Year: 2026, Month: time.October}
	f := &Flow{State: StateDate, Query: q}
	f.applyCalendar(q, october())
	return f
}

func TestFlow_HappyPath(t *testing.T) {
	f := newFlow()

	require.NoError(t, f.selectDate(day(21)))
	assert.Equal(t, StateTime, f.State)

	assert.True(t, f.applySlots(f.Query, day(21), slots("10:00", "10:30")))
	require.NoError(t, f.selectTime(types.MustTimeString("10:30")))
	assert.Equal(t, StateConfirm, f.State)
	require.NoError(t, f.readyToConfirm())

	f.complete(Reservation{AppointmentID: 1})
	assert.Equal(t, StateCompleted, f.State)
	assert.True(t, f.State.IsFinal())
	assert.ErrorIs(t, f.back(), ErrInvalidTransition)
}

func TestFlow_DateSelectionRules(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
	}{
		{name: "past", date: day(18)},
		{name: "closed", date: day(25)},
		{name: "full", date: day(20)},
		{name: "other month", date: time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFlow()
			assert.ErrorIs(t, f.selectDate(tt.date), ErrDateNotSelectable)
			assert.Equal(t, StateDate, f.State)
		})
	}
}

func TestFlow_FullDateAllowedWhenAlreadySelected(t *testing.T) {
	f := newFlow()
	selected := day(20)
	f.SelectedDate = &selected
	f.State = StateConfirm
	tm := types.MustTimeString("11:00")
	f.SelectedTime = &tm

	require.NoError(t, f.selectDate(day(20)))
	assert.Equal(t, StateTime, f.State)
	assert.Nil(t, f.SelectedTime)
}

func TestFlow_ReselectDateClearsTime(t *testing.T) {
	f := newFlow()
	require.NoError(t, f.selectDate(day(21)))
	f.applySlots(f.Query, day(21), slots("10:00"))
	require.NoError(t, f.selectTime(types.MustTimeString("10:00")))

	require.NoError(t, f.selectDate(day(22)))
	assert.Equal(t, StateTime, f.State)
	assert.Nil(t, f.SelectedTime)
	assert.Nil(t, f.Slots)
	assert.Equal(t, 22, f.SelectedDate.Day())
}

func TestFlow_Back(t *testing.T) {
	f := newFlow()
	require.NoError(t, f.selectDate(day(21)))
	f.applySlots(f.Query, day(21), slots("10:00"))
	require.NoError(t, f.selectTime(types.MustTimeString("10:00")))

	require.NoError(t, f.back())
	assert.Equal(t, StateTime, f.State)
	assert.Nil(t, f.SelectedTime)

	require.NoError(t, f.back())
	assert.Equal(t, StateDate, f.State)
	assert.NotNil(t, f.SelectedDate)

	require.NoError(t, f.back())
	assert.Equal(t, StateExited, f.State)
}

func TestFlow_ChangeMonthOnlyOnDateStep(t *testing.T) {
	f := newFlow()

	q, err := f.changeMonth(2026, time.November)
	require.NoError(t, err)
	assert.Equal(t, time.November, q.Month)
	assert.Equal(t, StateDate, f.State)
	assert.Nil(t, f.Calendar)

	_, err = f.changeMonth(2026, 13)
	assert.ErrorIs(t, err, ErrInvalidInput)

	f = newFlow()
	require.NoError(t, f.selectDate(day(21)))
	_, err = f.changeMonth(2026, time.November)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFlow_StaleSnapshotsDiscarded(t *testing.T) {
	f := newFlow()
	octQuery := f.Query

	_, err := f.changeMonth(2026, time.November)
	require.NoError(t, err)

	// ответ на запрос октября пришел после переключения на ноябрь
	assert.False(t, f.applyCalendar(octQuery, domain.MonthCalendar{Year: 2026, Month: time.October}))
	assert.Nil(t, f.Calendar)

	f = newFlow()
	require.NoError(t, f.selectDate(day(21)))
	require.NoError(t, f.selectDate(day(22)))
	assert.False(t, f.applySlots(f.Query, day(21), slots("09:00")))
	assert.Nil(t, f.Slots)
	assert.True(t, f.applySlots(f.Query, day(22), slots("09:00")))
}

func TestFlow_SelectTimeMustComeFromSlots(t *testing.T) {
	f := newFlow()
	require.NoError(t, f.selectDate(day(21)))
	f.applySlots(f.Query, day(21), slots("10:00"))

	assert.ErrorIs(t, f.selectTime(types.MustTimeString("10:30")), ErrTimeNotSelectable)
	assert.Equal(t, StateTime, f.State)
	assert.ErrorIs(t, f.readyToConfirm(), ErrInvalidTransition)
}

func TestFlow_CloneIsIndependent(t *testing.T) {
	f := newFlow()
	require.NoError(t, f.selectDate(day(21)))
	f.applySlots(f.Query, day(21), slots("10:00"))

	c := f.clone()
	c.Slots[0] = types.MustTimeString("12:00")
	c.Calendar.Days[0].Status = domain.DayOpen

	assert.Equal(t, "10:00", f.Slots[0].String())
	assert.Empty(t, f.Calendar.Days[0].Status)
}
