package schedules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	professionalRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/professional"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedules/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Service сервис для работы с расписанием мастеров и студии
type Service struct {
	professionals ProfessionalStore
	studio        StudioStore
	staff         StaffDirectory
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	professionals ProfessionalStore,
	studio StudioStore,
	staff StaffDirectory,
	logger Logger,
) *Service {
	return &Service{
		professionals: professionals,
		studio:        studio,
		staff:         staff,
		logger:        logger,
	}
}

// GetProfessionalSchedule возвращает итоговое недельное расписание мастера
// с указанием источника для каждого дня
func (s *Service) GetProfessionalSchedule(ctx context.Context, professionalID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetProfessionalSchedule: professional=%d", professionalID)

	professional, err := s.getProfessional(ctx, "GetProfessionalSchedule", professionalID)
	if err != nil {
		return nil, err
	}

	defaults, err := s.studio.GetDefaults(ctx)
	if err != nil {
		s.logger.Error("GetProfessionalSchedule: failed to get studio defaults: %v", err)
		return nil, fmt.Errorf("%w: GetProfessionalSchedule - failed to get studio defaults: %v", ErrInternal, err)
	}

	return models.FromSchedule(professional, availability.Resolve(professional, defaults)), nil
}

// ListProfessionals возвращает активных мастеров студии
func (s *Service) ListProfessionals(ctx context.Context) (*models.ProfessionalListResponse, error) {
	list, err := s.professionals.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListProfessionals: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListProfessionals - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListProfessionals: fetched %d professionals", len(list))
	return models.FromProfessionalList(list), nil
}

// UpdateWorkingHours заменяет расписание мастера по дням недели
// Устаревшая конфигурация при этом очищается. Доступно только сотрудникам студии
func (s *Service) UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateWorkingHours: professional=%d, days=%d by user=%d", req.ProfessionalID, len(req.Days), req.UserID)

	if !s.staff.IsStaff(req.UserID) {
		s.logger.Warn("UpdateWorkingHours: user=%d is not staff", req.UserID)
		return nil, ErrAccessDenied
	}

	hours, err := toWorkingHours(req.Days)
	if err != nil {
		s.logger.Warn("UpdateWorkingHours: validation failed: %v", err)
		return nil, err
	}

	if err := s.professionals.UpdateWorkingHours(ctx, req.ProfessionalID, hours); err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("UpdateWorkingHours: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("UpdateWorkingHours: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWorkingHours: successfully updated professional=%d", req.ProfessionalID)
	return s.GetProfessionalSchedule(ctx, req.ProfessionalID)
}

// GetStudioHours возвращает расписание студии по умолчанию
func (s *Service) GetStudioHours(ctx context.Context) (*models.StudioHoursResponse, error) {
	defaults, err := s.studio.GetDefaults(ctx)
	if err != nil {
		s.logger.Error("GetStudioHours: failed to get studio defaults: %v", err)
		return nil, fmt.Errorf("%w: GetStudioHours - failed to get studio defaults: %v", ErrInternal, err)
	}
	return models.FromStudioDefaults(defaults), nil
}

// UpdateStudioHours изменяет расписание студии по умолчанию
// Изменение сразу влияет на мастеров без собственного расписания
func (s *Service) UpdateStudioHours(ctx context.Context, req *models.UpdateStudioHoursRequest) (*models.StudioHoursResponse, error) {
	s.logger.Info("UpdateStudioHours: %s-%s, closed=%v by user=%d", req.Start, req.End, req.ClosedDays, req.UserID)

	if !s.staff.IsStaff(req.UserID) {
		s.logger.Warn("UpdateStudioHours: user=%d is not staff", req.UserID)
		return nil, ErrAccessDenied
	}

	start, end, err := parseWindow(req.Start, req.End)
	if err != nil {
		s.logger.Warn("UpdateStudioHours: validation failed: %v", err)
		return nil, err
	}

	closed := domain.NewWeekdaySet()
	for _, d := range req.ClosedDays {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: closed day %d out of range 0..6", ErrInvalidInput, d)
		}
		closed = closed.With(d)
	}

	saved, err := s.studio.SaveDefaults(ctx, domain.StudioDefaults{Start: start, End: end, ClosedDays: closed})
	if err != nil {
		s.logger.Error("UpdateStudioHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateStudioHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStudioHours: successfully updated studio hours")
	return models.FromStudioDefaults(saved), nil
}

// Вспомогательные методы

func (s *Service) getProfessional(ctx context.Context, op string, id int64) (*domain.Professional, error) {
	professional, err := s.professionals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("%s: professional id=%d not found", op, id)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("%s: failed to get professional id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - failed to get professional: %v", ErrInternal, op, err)
	}
	return professional, nil
}

// toWorkingHours проверяет дни недели и собирает расписание
func toWorkingHours(days []models.DayHours) (domain.WorkingHours, error) {
	hours := make(domain.WorkingHours, len(days))
	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range 0..6", ErrInvalidInput, d.Weekday)
		}
		wd := time.Weekday(d.Weekday)
		if _, dup := hours[wd]; dup {
			return nil, fmt.Errorf("%w: weekday %d is duplicated", ErrInvalidInput, d.Weekday)
		}

		if d.Closed {
			hours[wd] = domain.ClosedDay()
			continue
		}

		start, end, err := parseWindow(d.Start, d.End)
		if err != nil {
			return nil, err
		}
		hours[wd] = domain.DaySchedule{Start: start, End: end}
	}
	return hours, nil
}

func parseWindow(startStr, endStr string) (types.TimeString, types.TimeString, error) {
	start, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return types.TimeString{}, types.TimeString{}, fmt.Errorf("%w: invalid start %q", ErrInvalidInput, startStr)
	}
	end, err := types.NewTimeStringFromString(endStr)
	if err != nil {
		return types.TimeString{}, types.TimeString{}, fmt.Errorf("%w: invalid end %q", ErrInvalidInput, endStr)
	}
	if !start.IsBefore(end) {
		return types.TimeString{}, types.TimeString{}, fmt.Errorf("%w: start must be before end", ErrInvalidInput)
	}
	return start, end, nil
}
