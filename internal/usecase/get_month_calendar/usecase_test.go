package get_month_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	professionalRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/professional"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// 2026-10-19 - понедельник
var now = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

type fixture struct {
	appointments  *mockAppointmentRepo
	professionals *mockProfessionalRepo
	studio        *mockStudioRepo
	services      *mockServiceRepo
	uc            *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		appointments:  &mockAppointmentRepo{},
		professionals: &mockProfessionalRepo{},
		studio:        &mockStudioRepo{},
		services:      &mockServiceRepo{},
	}
	var nop *metrics.Metrics
	f.uc = NewUseCase(
		f.appointments, f.professionals, f.studio, f.services,
		availability.NewSlotGenerator(availability.BoundaryStart),
		0, nop, logger.NewNop(),
	).WithTimeProvider(fixedTime{now: now})
	return f
}

func statusOf(t *testing.T, cal domain.MonthCalendar, day int) domain.DayStatus {
	t.Helper()
	d, ok := cal.Day(day)
	require.True(t, ok)
	return d.Status
}

func TestExecute_WithoutServiceSkipsAppointments(t *testing.T) {
	f := newFixture()
	f.professionals.On("GetByID", mock.Anything, int64(1)).Return(&domain.Professional{ID: 1, Active: true}, nil)
	f.studio.On("GetDefaults", mock.Anything).Return(domain.DefaultStudioDefaults(), nil)

	resp, err := f.uc.Execute(context.Background(), &Request{ProfessionalID: 1, Year: 2026, Month: time.October})
	require.NoError(t, err)

	assert.Nil(t, resp.DurationMinutes)
	// 1 октября 2026 - четверг
	assert.Len(t, resp.Calendar.Days, 4+31)
	assert.Equal(t, domain.DayPast, statusOf(t, resp.Calendar, 18))
	assert.Equal(t, domain.DayOpen, statusOf(t, resp.Calendar, 19))
	assert.Equal(t, domain.DayClosed, statusOf(t, resp.Calendar, 25))
	f.appointments.AssertNotCalled(t, "ListForProfessional", mock.Anything, mock.Anything)
}

func TestExecute_FullDay(t *testing.T) {
	f := newFixture()
	f.services.On("GetByID", mock.Anything, int64(5)).Return(&domain.Service{ID: 5, DurationMinutes: 60, Active: true}, nil)
	f.professionals.On("GetByID", mock.Anything, int64(1)).Return(&domain.Professional{
		ID:     1,
		Active: true,
		WorkingHours: domain.WorkingHours{
			time.Wednesday: {Start: types.MustTimeString("10:00"), End: types.MustTimeString("14:00")},
		},
	}, nil)
	f.studio.On("GetDefaults", mock.Anything).Return(domain.DefaultStudioDefaults(), nil)

	wed := time.Date(2026, time.October, 21, 0, 0, 0, 0, time.UTC)
	f.appointments.On("ListForProfessional", mock.Anything, mock.MatchedBy(func(filter domain.ProfessionalAgendaFilter) bool {
		return filter.StartDate.Day() == 1 && filter.EndDate.Day() == 31
	})).Return([]*domain.Appointment{
		// 10:00-14:30 занято, включая слот 14:00
		{Date: wed, StartTime: types.MustTimeString("10:00"), DurationMinutes: 270, Status: domain.StatusConfirmed},
	}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{ProfessionalID: 1, Year: 2026, Month: time.October, ServiceID: ptr.Ptr(int64(5))})
	require.NoError(t, err)

	require.NotNil(t, resp.DurationMinutes)
	assert.Equal(t, 60, *resp.DurationMinutes)
	assert.Equal(t, domain.DayFull, statusOf(t, resp.Calendar, 21))
	assert.Equal(t, domain.DayOpen, statusOf(t, resp.Calendar, 28))
}

func TestExecute_Errors(t *testing.T) {
	t.Run("invalid month", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), &Request{ProfessionalID: 1, Year: 2026, Month: 13})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("professional not found", func(t *testing.T) {
		f := newFixture()
		f.professionals.On("GetByID", mock.Anything, int64(1)).Return(nil, professionalRepo.ErrProfessionalNotFound)
		_, err := f.uc.Execute(context.Background(), &Request{ProfessionalID: 1, Year: 2026, Month: time.October})
		assert.ErrorIs(t, err, ErrProfessionalNotFound)
	})
}
