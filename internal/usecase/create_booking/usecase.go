package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	professionalRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/professional"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

// Исходы бронирования для метрик
const (
	outcomeCreated  = "created"
	outcomeConflict = "conflict"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// UseCase use case для создания записи (reserve-if-available)
type UseCase struct {
	appointmentRepo  AppointmentRepository
	professionalRepo ProfessionalRepository
	studioRepo       StudioRepository
	serviceRepo      ServiceRepository
	txManager        TransactionManager
	slots            availability.SlotGenerator
	minNotice        int
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	professionalRepo ProfessionalRepository,
	studioRepo StudioRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	slots availability.SlotGenerator,
	minNoticeMinutes int,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		professionalRepo: professionalRepo,
		studioRepo:       studioRepo,
		serviceRepo:      serviceRepo,
		txManager:        txManager,
		slots:            slots,
		minNotice:        minNoticeMinutes,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи
// Доступность проверяется дважды: быстрая проверка по расписанию до транзакции
// и повторная проверка занятости внутри сериализуемой транзакции с блокировкой строк дня.
// Exclusion constraint в БД остается последним рубежом
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, professional=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	resp, err := uc.execute(ctx, req)
	switch {
	case err == nil:
		uc.metrics.ObserveReservation(outcomeCreated)
	case errors.Is(err, ErrSlotNotAvailable):
		uc.metrics.ObserveReservation(outcomeConflict)
	case errors.Is(err, ErrInternal):
		uc.metrics.ObserveReservation(outcomeFailed)
	default:
		uc.metrics.ObserveReservation(outcomeRejected)
	}
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Дата не в прошлом
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Услуга
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active || !service.HasValidDuration() {
		uc.logger.Warn("CreateBooking: service id=%d is inactive or has no duration", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Расписание мастера на дату
	professional, err := uc.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateBooking: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateBooking: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}
	if !professional.Active {
		uc.logger.Warn("CreateBooking: professional id=%d is inactive", req.ProfessionalID)
		return nil, ErrProfessionalNotFound
	}

	defaults, err := uc.studioRepo.GetDefaults(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get studio defaults: %v", err)
		return nil, fmt.Errorf("%w: failed to get studio defaults: %v", ErrInternal, err)
	}

	day := availability.ResolveDay(professional, req.Date.Weekday(), defaults)
	if !day.IsUsable() {
		uc.logger.Warn("CreateBooking: professional=%d is closed on %s", req.ProfessionalID, req.Date.Format(domain.DateFormat))
		return nil, ErrProfessionalClosed
	}

	// 5. Время на сетке рабочего дня (без учета записей)
	if !uc.slots.IsBookable(day, service.DurationMinutes, nil, req.StartTime) {
		uc.logger.Warn("CreateBooking: time %s is outside the slot grid %s-%s (boundary=%s)",
			req.StartTime, day.Start, day.End, uc.slots.Boundary())
		return nil, ErrInvalidTimeSlot
	}

	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: appointment %s+%dm ends after midnight", req.StartTime, service.DurationMinutes)
		return nil, fmt.Errorf("%w: appointment must end before midnight", ErrInvalidTimeSlot)
	}

	// 6. Минимальное время до начала
	if err := validateBookingTime(req.Date, req.StartTime, now, uc.minNotice); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment

	// 7. Повторная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointments, err := uc.appointmentRepo.ListForProfessional(txCtx, domain.ProfessionalAgendaFilter{
			ProfessionalID: req.ProfessionalID,
			StartDate:      &req.Date,
			EndDate:        &req.Date,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrConcurrentUpdate) {
				uc.logger.Warn("CreateBooking: concurrent reservation for professional=%d on %s: %v",
					req.ProfessionalID, req.Date.Format(domain.DateFormat), err)
				uc.metrics.ObserveConflict("serialization")
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		busy := availability.NewIntervalSet(appointments)
		if busy.Overlaps(req.StartTime.Minutes(), endTime.Minutes()) {
			uc.logger.Warn("CreateBooking: slot %s-%s already taken for professional=%d on %s",
				req.StartTime, endTime, req.ProfessionalID, req.Date.Format(domain.DateFormat))
			uc.metrics.ObserveConflict("recheck")
			return ErrSlotNotAvailable
		}

		appointment := &domain.Appointment{
			ProfessionalID:  req.ProfessionalID,
			ServiceID:       ptr.Ptr(req.ServiceID),
			ClientID:        ptr.Ptr(req.ClientID),
			Kind:            domain.KindClient,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: slot rejected by storage constraint: %v", err)
				uc.metrics.ObserveConflict("constraint")
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateBooking: concurrent reservation for professional=%d on %s: %v",
				req.ProfessionalID, req.Date.Format(domain.DateFormat), err)
			uc.metrics.ObserveConflict("serialization")
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		ClientID:        req.ClientID,
		ProfessionalID:  result.ProfessionalID,
		ServiceID:       req.ServiceID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		Notes:           result.Notes,
		ServiceName:     service.Name,
		ServicePrice:    service.Price,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
