package get_month_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	professionalRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/professional"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
)

// UseCase use case построения календаря месяца для мастера
type UseCase struct {
	appointmentRepo  AppointmentRepository
	professionalRepo ProfessionalRepository
	studioRepo       StudioRepository
	serviceRepo      ServiceRepository
	builder          availability.CalendarBuilder
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
		builder:          availability.NewCalendarBuilder(slots),
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

// Execute строит календарь: одна выборка записей на месяц, расписание разрешается один раз
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMonthCalendar: professional=%d, month=%04d-%02d, service=%v",
		req.ProfessionalID, req.Year, int(req.Month), req.ServiceID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetMonthCalendar: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{ProfessionalID: req.ProfessionalID, ServiceID: req.ServiceID}

	// 1. Длительность услуги (если выбрана)
	if req.ServiceID != nil {
		service, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("GetMonthCalendar: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetMonthCalendar: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.Active || !service.HasValidDuration() {
			uc.logger.Warn("GetMonthCalendar: service id=%d is inactive or has no duration", *req.ServiceID)
			return nil, ErrServiceNotFound
		}
		duration := service.DurationMinutes
		resp.DurationMinutes = &duration
	}

	// 2. Расписание
	professional, err := uc.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("GetMonthCalendar: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetMonthCalendar: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}
	if !professional.Active {
		uc.logger.Warn("GetMonthCalendar: professional id=%d is inactive", req.ProfessionalID)
		return nil, ErrProfessionalNotFound
	}

	defaults, err := uc.studioRepo.GetDefaults(ctx)
	if err != nil {
		uc.logger.Error("GetMonthCalendar: failed to get studio defaults: %v", err)
		return nil, fmt.Errorf("%w: failed to get studio defaults: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	monthReq := availability.MonthRequest{
		Year:            req.Year,
		Month:           req.Month,
		Schedule:        availability.Resolve(professional, defaults),
		DurationMinutes: resp.DurationMinutes,
		Today:           now,
	}

	// 3. Записи нужны только для статуса full
	if resp.DurationMinutes != nil {
		first := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, -1)

		appointments, err := uc.appointmentRepo.ListForProfessional(ctx, domain.ProfessionalAgendaFilter{
			ProfessionalID: req.ProfessionalID,
			StartDate:      &first,
			EndDate:        &last,
		})
		if err != nil {
			uc.logger.Error("GetMonthCalendar: failed to get appointments: %v", err)
			return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		cutoff := availability.CutoffMinutes(now, uc.minNotice)
		monthReq.Busy = availability.GroupByDate(appointments)
		monthReq.TodayCutoff = &cutoff
	}

	resp.Calendar = uc.builder.Build(monthReq)
	uc.metrics.ObserveCalendar(resp.DurationMinutes != nil)

	uc.logger.Info("GetMonthCalendar: built %d cells for professional=%d, month=%04d-%02d",
		len(resp.Calendar.Days), req.ProfessionalID, req.Year, int(req.Month))

	return resp, nil
}
