package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	// 2026-10-19 - понедельник
	now      = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	tomorrow = time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	appointments  *mockAppointmentRepo
	professionals *mockProfessionalRepo
	studio        *mockStudioRepo
	services      *mockServiceRepo
	tx            *inlineTx
	uc            *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		appointments:  &mockAppointmentRepo{},
		professionals: &mockProfessionalRepo{},
		studio:        &mockStudioRepo{},
		services:      &mockServiceRepo{},
		tx:            &inlineTx{},
	}
	var nop *metrics.Metrics
	f.uc = NewUseCase(
		f.appointments, f.professionals, f.studio, f.services, f.tx,
		availability.NewSlotGenerator(availability.BoundaryStart),
		60, nop, logger.NewNop(),
	).WithTimeProvider(fixedTime{now: now})
	return f
}

// withSchedule мастер работает по настройкам студии 08:00-18:00, услуга 60 минут
func (f *fixture) withSchedule() *fixture {
	f.services.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Service{ID: 5, Name: "Стрижка", DurationMinutes: 60, Price: 1500, Active: true}, nil)
	f.professionals.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Professional{ID: 1, Active: true}, nil)
	f.studio.On("GetDefaults", mock.Anything).Return(domain.DefaultStudioDefaults(), nil)
	return f
}

func request(date time.Time, start string) *Request {
	return &Request{
		ClientID:       42,
		ProfessionalID: 1,
		ServiceID:      5,
		Date:           date,
		StartTime:      types.MustTimeString(start),
		Notes:          ptr.Ptr("без укладки"),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture().withSchedule()
	f.appointments.On("ListForProfessional", mock.Anything, mock.Anything).Return([]*domain.Appointment{
		{ID: 7, Date: tomorrow, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("10:00"), Status: domain.StatusConfirmed},
	}, nil)
	f.appointments.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Appointment) bool {
		return a.Status == domain.StatusPending &&
			a.Kind == domain.KindClient &&
			a.EndTime.String() == "11:00" &&
			a.DurationMinutes == 60 &&
			*a.ClientID == 42
	})).Return(&domain.Appointment{
		ID:              100,
		ProfessionalID:  1,
		Date:            tomorrow,
		StartTime:       types.MustTimeString("10:00"),
		EndTime:         types.MustTimeString("11:00"),
		DurationMinutes: 60,
		Status:          domain.StatusPending,
	}, nil)

	resp, err := f.uc.Execute(context.Background(), request(tomorrow, "10:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "11:00", resp.EndTime.String())
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 1, f.tx.calls)
	f.appointments.AssertExpectations(t)
}

func TestExecute_SlotTakenOnRecheck(t *testing.T) {
	f := newFixture().withSchedule()
	f.appointments.On("ListForProfessional", mock.Anything, mock.Anything).Return([]*domain.Appointment{
		{ID: 7, Date: tomorrow, StartTime: types.MustTimeString("10:30"), DurationMinutes: 30, Status: domain.StatusPending},
	}, nil)

	_, err := f.uc.Execute(context.Background(), request(tomorrow, "10:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	f := newFixture().withSchedule()
	f.appointments.On("ListForProfessional", mock.Anything, mock.Anything).Return([]*domain.Appointment{
		{ID: 7, Date: tomorrow, StartTime: types.MustTimeString("10:00"), DurationMinutes: 60, Status: domain.StatusCancelledByClient},
	}, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything).Return(&domain.Appointment{ID: 8, Status: domain.StatusPending}, nil)

	_, err := f.uc.Execute(context.Background(), request(tomorrow, "10:00"))
	assert.NoError(t, err)
}

func TestExecute_StorageConflicts(t *testing.T) {
	t.Run("exclusion constraint", func(t *testing.T) {
		f := newFixture().withSchedule()
		f.appointments.On("ListForProfessional", mock.Anything, mock.Anything).Return(nil, nil)
		f.appointments.On("Create", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: Create - conflict", appointmentRepo.ErrSlotNotAvailable))

		_, err := f.uc.Execute(context.Background(), request(tomorrow, "10:00"))
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("serialization failure on commit", func(t *testing.T) {
		f := newFixture().withSchedule()
		f.tx.commitErr = fmt.Errorf("%w: could not serialize access", txmanager.ErrSerialization)
		f.appointments.On("ListForProfessional", mock.Anything, mock.Anything).Return(nil, nil)
		f.appointments.On("Create", mock.Anything, mock.Anything).Return(&domain.Appointment{ID: 9}, nil)

		_, err := f.uc.Execute(context.Background(), request(tomorrow, "10:00"))
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("serialization failure on recheck", func(t *testing.T) {
		f := newFixture().withSchedule()
		f.appointments.On("ListForProfessional", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: ListForProfessional - professional_id=1", appointmentRepo.ErrConcurrentUpdate))

		_, err := f.uc.Execute(context.Background(), request(tomorrow, "10:00"))
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.NotErrorIs(t, err, ErrInternal)
		f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("serialization failure from postgres on recheck", func(t *testing.T) {
		f := newFixture().withSchedule()
		repo := appointmentRepo.NewRepository(failingExecutor{err: &pq.Error{Code: "40001", Message: "could not serialize access"}})
		var nop *metrics.Metrics
		uc := NewUseCase(
			repo, f.professionals, f.studio, f.services, f.tx,
			availability.NewSlotGenerator(availability.BoundaryStart),
			60, nop, logger.NewNop(),
		).WithTimeProvider(fixedTime{now: now})

		_, err := uc.Execute(context.Background(), request(tomorrow, "10:00"))
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.NotErrorIs(t, err, ErrInternal)
	})
}

func TestExecute_Rejections(t *testing.T) {
	sunday := time.Date(2026, time.October, 25, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "past date", req: request(yesterday, "10:00"), wantErr: ErrInvalidDate},
		{name: "closed day", req: request(sunday, "10:00"), wantErr: ErrProfessionalClosed},
		{name: "off grid", req: request(tomorrow, "10:15"), wantErr: ErrInvalidTimeSlot},
		{name: "before opening", req: request(tomorrow, "07:30"), wantErr: ErrInvalidTimeSlot},
		{name: "after closing", req: request(tomorrow, "18:30"), wantErr: ErrInvalidTimeSlot},
		// сейчас 09:00, минимум 60 минут
		{name: "too late today", req: request(now, "09:30"), wantErr: ErrTooLateToBook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture().withSchedule()

			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	req := request(tomorrow, "10:00")
	req.ClientID = 0
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = request(tomorrow, "10:00")
	req.StartTime = types.TimeString{}
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ServiceErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.services.On("GetByID", mock.Anything, int64(5)).Return(nil, serviceRepo.ErrServiceNotFound)

		_, err := f.uc.Execute(context.Background(), request(tomorrow, "10:00"))
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture()
		f.services.On("GetByID", mock.Anything, int64(5)).Return(nil, errors.New("connection refused"))

		_, err := f.uc.Execute(context.Background(), request(tomorrow, "10:00"))
		assert.ErrorIs(t, err, ErrInternal)
	})
}
