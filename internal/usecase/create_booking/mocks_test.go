package create_booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	args := m.Called(ctx, a)
	if v := args.Get(0); v != nil {
		return v.(*domain.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) ListForProfessional(ctx context.Context, filter domain.ProfessionalAgendaFilter) ([]*domain.Appointment, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProfessionalRepo struct{ mock.Mock }

func (m *mockProfessionalRepo) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Professional), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStudioRepo struct{ mock.Mock }

func (m *mockStudioRepo) GetDefaults(ctx context.Context) (domain.StudioDefaults, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StudioDefaults), args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// inlineTx выполняет функцию без реальной транзакции, commitErr имитирует ошибку фиксации
type inlineTx struct {
	commitErr error
	calls     int
}

func (tx *inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return tx.commitErr
}

// failingExecutor исполнитель запросов, на каждый запрос возвращающий ошибку
type failingExecutor struct{ err error }

func (e failingExecutor) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, e.err
}

func (e failingExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, e.err
}

func (e failingExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return &sql.Row{}
}
