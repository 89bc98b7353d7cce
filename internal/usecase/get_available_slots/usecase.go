package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	professionalRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/professional"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// UseCase use case для получения доступных слотов мастера на дату
type UseCase struct {
	appointmentRepo  AppointmentRepository
	professionalRepo ProfessionalRepository
	studioRepo       StudioRepository
	serviceRepo      ServiceRepository
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

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: professional=%d, service=%d, date=%s",
		req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		Date:           req.Date,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Slots:          []types.TimeString{},
	}

	// 2. Услуга задает длительность
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active || !service.HasValidDuration() {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive or has no duration", req.ServiceID)
		return nil, ErrServiceNotFound
	}
	resp.DurationMinutes = service.DurationMinutes

	// 3. Прошедшая дата: слотов нет
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// 4. Расписание мастера
	professional, err := uc.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("GetAvailableSlots: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}
	if !professional.Active {
		uc.logger.Warn("GetAvailableSlots: professional id=%d is inactive", req.ProfessionalID)
		return nil, ErrProfessionalNotFound
	}

	defaults, err := uc.studioRepo.GetDefaults(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get studio defaults: %v", err)
		return nil, fmt.Errorf("%w: failed to get studio defaults: %v", ErrInternal, err)
	}

	schedule := availability.Resolve(professional, defaults)
	day := schedule.ForDate(req.Date)
	if !day.IsUsable() {
		uc.logger.Info("GetAvailableSlots: professional=%d is closed on %s (source=%s)",
			req.ProfessionalID, req.Date.Format(domain.DateFormat), schedule.Source(req.Date.Weekday()))
		resp.Closed = true
		return resp, nil
	}

	// 5. Занятые интервалы на дату
	appointments, err := uc.appointmentRepo.ListForProfessional(ctx, domain.ProfessionalAgendaFilter{
		ProfessionalID: req.ProfessionalID,
		StartDate:      &req.Date,
		EndDate:        &req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}
	warnUnknownStatuses(uc.logger, appointments)
	busy := availability.NewIntervalSet(appointments)

	// 6. Для сегодняшнего дня отсекаем слоты, которые уже нельзя успеть
	notBefore := availability.NoCutoff
	if isSameDay(req.Date, now) {
		notBefore = availability.CutoffMinutes(now, uc.minNotice)
	}

	resp.Slots = uc.slots.GenerateNotBefore(day, service.DurationMinutes, busy, notBefore)
	uc.metrics.ObserveSlots("slots", len(resp.Slots))

	uc.logger.Info("GetAvailableSlots: generated %d slots for professional=%d, service=%d, date=%s (busy=%d)",
		len(resp.Slots), req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat), len(busy))

	return resp, nil
}

// warnUnknownStatuses неизвестный статус считается занятым, но о нем стоит знать
func warnUnknownStatuses(logger Logger, appointments []*domain.Appointment) {
	for _, a := range appointments {
		if !domain.IsKnownStatus(a.Status) {
			logger.Warn("GetAvailableSlots: appointment id=%d has unknown status %q, treated as booked", a.ID, a.Status)
		}
	}
}
