package booking_flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/get_month_calendar"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// UseCase мастер записи DATE -> TIME -> CONFIRM
// Данные загружаются без блокировки сессии и применяются, только если Query сессии не изменился
type UseCase struct {
	calendar     CalendarProvider
	slots        SlotsProvider
	reserver     Reserver
	sessions     *store
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	calendar CalendarProvider,
	slots SlotsProvider,
	reserver Reserver,
	ttl time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		calendar:     calendar,
		slots:        slots,
		reserver:     reserver,
		sessions:     newStore(ttl),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Start создает сессию на шаге выбора даты и загружает календарь месяца
func (uc *UseCase) Start(ctx context.Context, req *StartRequest) (*Flow, error) {
	uc.logger.Info("BookingFlow.Start: client=%d, professional=%d, service=%d", req.ClientID, req.ProfessionalID, req.ServiceID)

	if req.ClientID <= 0 || req.ProfessionalID <= 0 || req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: clientID, professionalID and serviceID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	year, month := req.Year, req.Month
	if year == 0 && month == 0 {
		year, month = now.Year(), now.Month()
	}

	flow := Flow{
		ID:        uuid.New(),
		ClientID:  req.ClientID,
		State:     StateDate,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(uc.sessions.ttl),
		Query:     Query{ProfessionalID: req.ProfessionalID, ServiceID: req.ServiceID},
	}
	q, err := flow.changeMonth(year, month)
	if err != nil {
		return nil, err
	}

	cal, err := uc.loadCalendar(ctx, q)
	if err != nil {
		return nil, err
	}
	flow.applyCalendar(q, cal)

	sess := &session{flow: flow}
	uc.sessions.put(sess, now)

	uc.logger.Info("BookingFlow.Start: flow=%s created", flow.ID)
	return uc.view(sess), nil
}

// Get возвращает текущее состояние сессии
func (uc *UseCase) Get(_ context.Context, id uuid.UUID, clientID int64) (*Flow, error) {
	sess, err := uc.lookup(id, clientID)
	if err != nil {
		return nil, err
	}
	return uc.view(sess), nil
}

// ChangeMonth переключает месяц на шаге выбора даты, шаг не меняется
func (uc *UseCase) ChangeMonth(ctx context.Context, id uuid.UUID, clientID int64, year int, month time.Month) (*Flow, error) {
	uc.logger.Info("BookingFlow.ChangeMonth: flow=%s, month=%04d-%02d", id, year, int(month))

	sess, err := uc.lookup(id, clientID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	q, err := sess.flow.changeMonth(year, month)
	sess.mu.Unlock()
	if err != nil {
		uc.logger.Warn("BookingFlow.ChangeMonth: flow=%s: %v", id, err)
		return nil, err
	}

	cal, err := uc.loadCalendar(ctx, q)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if !sess.flow.applyCalendar(q, cal) {
		uc.logger.Info("BookingFlow.ChangeMonth: flow=%s: stale calendar %04d-%02d discarded", id, q.Year, int(q.Month))
	}
	sess.flow.UpdatedAt = uc.timeProvider.Now()
	sess.mu.Unlock()

	return uc.view(sess), nil
}

// SelectDate выбирает день и переходит к выбору времени
// Повторный выбор даты на шагах TIME и CONFIRM сбрасывает выбранное время
func (uc *UseCase) SelectDate(ctx context.Context, id uuid.UUID, clientID int64, date time.Time) (*Flow, error) {
	uc.logger.Info("BookingFlow.SelectDate: flow=%s, date=%s", id, date.Format(domain.DateFormat))

	sess, err := uc.lookup(id, clientID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	err = sess.flow.selectDate(date)
	q := sess.flow.Query
	sess.mu.Unlock()
	if err != nil {
		uc.logger.Warn("BookingFlow.SelectDate: flow=%s: %v", id, err)
		return nil, err
	}

	resp, err := uc.slots.Execute(ctx, &get_available_slots.Request{
		ProfessionalID: q.ProfessionalID,
		ServiceID:      q.ServiceID,
		Date:           date,
	})
	if err != nil {
		err = uc.mapError("SelectDate", err)
		sess.mu.Lock()
		sess.flow.fail(err)
		sess.mu.Unlock()
		return nil, err
	}

	sess.mu.Lock()
	if !sess.flow.applySlots(q, date, resp.Slots) {
		uc.logger.Info("BookingFlow.SelectDate: flow=%s: stale slots for %s discarded", id, date.Format(domain.DateFormat))
	}
	sess.flow.LastError = ""
	sess.flow.UpdatedAt = uc.timeProvider.Now()
	sess.mu.Unlock()

	return uc.view(sess), nil
}

// SelectTime выбирает один из загруженных слотов и переходит к подтверждению
func (uc *UseCase) SelectTime(_ context.Context, id uuid.UUID, clientID int64, t types.TimeString) (*Flow, error) {
	uc.logger.Info("BookingFlow.SelectTime: flow=%s, time=%s", id, t)

	sess, err := uc.lookup(id, clientID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	err = sess.flow.selectTime(t)
	sess.flow.UpdatedAt = uc.timeProvider.Now()
	sess.mu.Unlock()
	if err != nil {
		uc.logger.Warn("BookingFlow.SelectTime: flow=%s: %v", id, err)
		return nil, err
	}

	return uc.view(sess), nil
}

// Back возвращает на предыдущий шаг. С шага выбора даты сессия завершается
func (uc *UseCase) Back(_ context.Context, id uuid.UUID, clientID int64) (*Flow, error) {
	uc.logger.Info("BookingFlow.Back: flow=%s", id)

	sess, err := uc.lookup(id, clientID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	err = sess.flow.back()
	sess.flow.UpdatedAt = uc.timeProvider.Now()
	exited := sess.flow.State == StateExited
	sess.mu.Unlock()
	if err != nil {
		uc.logger.Warn("BookingFlow.Back: flow=%s: %v", id, err)
		return nil, err
	}

	view := uc.view(sess)
	if exited {
		uc.sessions.delete(id)
		uc.logger.Info("BookingFlow.Back: flow=%s exited", id)
	}
	return view, nil
}

// Confirm создает запись. При ошибке сессия остается на шаге подтверждения
func (uc *UseCase) Confirm(ctx context.Context, id uuid.UUID, clientID int64, notes *string) (*Flow, error) {
	uc.logger.Info("BookingFlow.Confirm: flow=%s", id)

	sess, err := uc.lookup(id, clientID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if err := sess.flow.readyToConfirm(); err != nil {
		sess.mu.Unlock()
		uc.logger.Warn("BookingFlow.Confirm: flow=%s: %v", id, err)
		return nil, err
	}
	if sess.confirming {
		sess.mu.Unlock()
		return nil, ErrConfirmInProgress
	}
	sess.confirming = true
	req := &create_booking.Request{
		ClientID:       sess.flow.ClientID,
		ProfessionalID: sess.flow.Query.ProfessionalID,
		ServiceID:      sess.flow.Query.ServiceID,
		Date:           *sess.flow.SelectedDate,
		StartTime:      *sess.flow.SelectedTime,
		Notes:          notes,
	}
	sess.mu.Unlock()

	resp, err := uc.reserver.Execute(ctx, req)

	sess.mu.Lock()
	sess.confirming = false
	sess.flow.UpdatedAt = uc.timeProvider.Now()
	if err != nil {
		err = uc.mapError("Confirm", err)
		sess.flow.fail(err)
		sess.mu.Unlock()
		return nil, err
	}
	sess.flow.complete(Reservation{
		AppointmentID:   resp.ID,
		Date:            resp.Date,
		StartTime:       resp.StartTime,
		EndTime:         resp.EndTime,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
	})
	sess.mu.Unlock()

	uc.logger.Info("BookingFlow.Confirm: flow=%s completed, appointment id=%d", id, resp.ID)
	return uc.view(sess), nil
}

func (uc *UseCase) lookup(id uuid.UUID, clientID int64) (*session, error) {
	sess, ok := uc.sessions.get(id, uc.timeProvider.Now())
	if !ok {
		uc.logger.Warn("BookingFlow: flow=%s not found", id)
		return nil, ErrFlowNotFound
	}

	sess.mu.Lock()
	owner := sess.flow.ClientID
	sess.mu.Unlock()
	if owner != clientID {
		uc.logger.Warn("BookingFlow: flow=%s requested by client=%d, owner=%d", id, clientID, owner)
		return nil, ErrFlowForbidden
	}
	return sess, nil
}

func (uc *UseCase) loadCalendar(ctx context.Context, q Query) (domain.MonthCalendar, error) {
	serviceID := q.ServiceID
	resp, err := uc.calendar.Execute(ctx, &get_month_calendar.Request{
		ProfessionalID: q.ProfessionalID,
		Year:           q.Year,
		Month:          q.Month,
		ServiceID:      &serviceID,
	})
	if err != nil {
		return domain.MonthCalendar{}, uc.mapError("LoadCalendar", err)
	}
	return resp.Calendar, nil
}

func (uc *UseCase) view(sess *session) *Flow {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	f := sess.flow.clone()
	return &f
}

// mapError переводит ошибки вложенных use case в ошибки мастера записи
func (uc *UseCase) mapError(op string, err error) error {
	switch {
	case errors.Is(err, get_month_calendar.ErrProfessionalNotFound),
		errors.Is(err, get_available_slots.ErrProfessionalNotFound),
		errors.Is(err, create_booking.ErrProfessionalNotFound):
		return ErrProfessionalNotFound
	case errors.Is(err, get_month_calendar.ErrServiceNotFound),
		errors.Is(err, get_available_slots.ErrServiceNotFound),
		errors.Is(err, create_booking.ErrServiceNotFound):
		return ErrServiceNotFound
	case errors.Is(err, create_booking.ErrSlotNotAvailable):
		return ErrSlotNotAvailable
	case errors.Is(err, get_month_calendar.ErrInvalidInput),
		errors.Is(err, get_available_slots.ErrInvalidInput),
		errors.Is(err, create_booking.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, create_booking.ErrInvalidDate),
		errors.Is(err, create_booking.ErrProfessionalClosed),
		errors.Is(err, create_booking.ErrInvalidTimeSlot),
		errors.Is(err, create_booking.ErrTooLateToBook):
		return fmt.Errorf("%w: %v", ErrReservationRejected, err)
	default:
		uc.logger.Error("BookingFlow.%s: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}
}
