package booking_flow

import (
	"context"
	"time"

	"github.com/google/uuid"

	bookingFlow "github.com/m04kA/SMC-SalonBooking/internal/usecase/booking_flow"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type BookingFlowUseCase interface {
	Start(ctx context.Context, req *bookingFlow.StartRequest) (*bookingFlow.Flow, error)
	Get(ctx context.Context, id uuid.UUID, clientID int64) (*bookingFlow.Flow, error)
	ChangeMonth(ctx context.Context, id uuid.UUID, clientID int64, year int, month time.Month) (*bookingFlow.Flow, error)
	SelectDate(ctx context.Context, id uuid.UUID, clientID int64, date time.Time) (*bookingFlow.Flow, error)
	SelectTime(ctx context.Context, id uuid.UUID, clientID int64, t types.TimeString) (*bookingFlow.Flow, error)
	Back(ctx context.Context, id uuid.UUID, clientID int64) (*bookingFlow.Flow, error)
	Confirm(ctx context.Context, id uuid.UUID, clientID int64, notes *string) (*bookingFlow.Flow, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
