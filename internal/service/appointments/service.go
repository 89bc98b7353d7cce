package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	professionalRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/professional"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo  AppointmentRepository
	professionalRepo ProfessionalRepository
	staff            StaffDirectory
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	professionalRepo ProfessionalRepository,
	staff StaffDirectory,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo:  appointmentRepo,
		professionalRepo: professionalRepo,
		staff:            staff,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetByID получает запись по ID
// Клиент видит только свои записи, сотрудник студии - любые
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !appointment.IsOwnedBy(userID) && !s.staff.IsStaff(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetClientAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.ClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d by user=%d, status=%v",
		req.ClientID, req.UserID, req.Status)

	if req.UserID != req.ClientID && !s.staff.IsStaff(req.UserID) {
		s.logger.Warn("GetClientAppointments: access denied for user=%d to client=%d", req.UserID, req.ClientID)
		return nil, ErrAccessDenied
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		st, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	appointments, err := s.appointmentRepo.ListByClient(ctx, req.ClientID, status)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: successfully fetched %d appointments for client=%d", len(appointments), req.ClientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetAgenda получает записи и блокировки мастера за период
// Доступно только сотрудникам студии
func (s *Service) GetAgenda(ctx context.Context, req *models.AgendaRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetAgenda: fetching agenda for professional=%d, period=%s to %s, user=%d",
		req.ProfessionalID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.UserID)

	if !s.staff.IsStaff(req.UserID) {
		s.logger.Warn("GetAgenda: user=%d is not staff", req.UserID)
		return nil, ErrAccessDenied
	}

	if err := validateRange(req.From, req.To); err != nil {
		s.logger.Warn("GetAgenda: %v", err)
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetAgenda: invalid filter for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.ListForProfessional(ctx, filter)
	if err != nil {
		s.logger.Error("GetAgenda: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: GetAgenda - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAgenda: successfully fetched %d appointments for professional=%d", len(appointments), req.ProfessionalID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись (cancelled_by_client)
// Сотрудник студии может отменить любую запись (cancelled_by_studio)
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appointment, err := s.getAppointment(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
		return ErrCannotCancel
	}

	var status domain.AppointmentStatus
	switch {
	case appointment.IsOwnedBy(req.UserID):
		status = domain.StatusCancelledByClient
	case s.staff.IsStaff(req.UserID):
		status = domain.StatusCancelledByStudio
	default:
		s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, id)
		return ErrAccessDenied
	}

	if err := s.appointmentRepo.Cancel(ctx, id, status, req.CancellationReason); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", id)
			return ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrCannotCancel):
			s.logger.Warn("Cancel: appointment id=%d changed status concurrently", id)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d with status=%s", id, status)
	return nil
}

// UpdateStatus переводит запись в новый статус: подтверждение, отклонение, визит или неявка
// Доступно только сотрудникам студии
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d to status=%s by user=%d", id, req.Status, req.UserID)

	if !s.staff.IsStaff(req.UserID) {
		s.logger.Warn("UpdateStatus: user=%d is not staff", req.UserID)
		return nil, ErrAccessDenied
	}

	target, err := models.ToDomainStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	var updated *domain.Appointment
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if !domain.CanTransition(appointment.Status, target) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				appointment.Status, target, id)
			return ErrInvalidTransition
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, target); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		appointment.Status = target
		updated = appointment
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			s.logger.Warn("UpdateStatus: concurrent update of appointment id=%d: %v", id, err)
			return nil, ErrInvalidTransition
		}
		if errors.Is(err, ErrInternal) {
			s.logger.Error("UpdateStatus: %v", err)
		}
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, target)
	return models.FromDomainAppointment(updated), nil
}

// CreateBlock блокирует время мастера (перерыв, личное время)
// Блокировка занимает время так же, как клиентская запись
func (s *Service) CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("CreateBlock: professional=%d, date=%s, start=%s, duration=%d by user=%d",
		req.ProfessionalID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes, req.UserID)

	if !s.staff.IsStaff(req.UserID) {
		s.logger.Warn("CreateBlock: user=%d is not staff", req.UserID)
		return nil, ErrAccessDenied
	}

	if req.Date.IsZero() || req.StartTime.IsZero() || req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: date, startTime and positive durationMinutes are required", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	endTime, err := req.StartTime.AddMinutes(req.DurationMinutes)
	if err != nil {
		s.logger.Warn("CreateBlock: block %s+%dm ends after midnight", req.StartTime, req.DurationMinutes)
		return nil, fmt.Errorf("%w: block must end before midnight", ErrInvalidTimeRange)
	}

	professional, err := s.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("CreateBlock: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("CreateBlock: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: CreateBlock - failed to get professional: %v", ErrInternal, err)
	}
	if !professional.Active {
		return nil, ErrProfessionalNotFound
	}

	var created *domain.Appointment
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.appointmentRepo.ListForProfessional(txCtx, domain.ProfessionalAgendaFilter{
			ProfessionalID: req.ProfessionalID,
			StartDate:      &req.Date,
			EndDate:        &req.Date,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrConcurrentUpdate) {
				s.logger.Warn("CreateBlock: concurrent write for professional=%d: %v", req.ProfessionalID, err)
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: CreateBlock - failed to get appointments: %v", ErrInternal, err)
		}

		if availability.NewIntervalSet(existing).Overlaps(req.StartTime.Minutes(), endTime.Minutes()) {
			s.logger.Warn("CreateBlock: %s-%s overlaps existing appointments of professional=%d",
				req.StartTime, endTime, req.ProfessionalID)
			return ErrSlotNotAvailable
		}

		created, err = s.appointmentRepo.Create(txCtx, &domain.Appointment{
			ProfessionalID:  req.ProfessionalID,
			Kind:            domain.KindBlock,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: req.DurationMinutes,
			Status:          domain.StatusConfirmed,
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: CreateBlock - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			s.logger.Warn("CreateBlock: concurrent write for professional=%d: %v", req.ProfessionalID, err)
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(err, ErrInternal) {
			s.logger.Error("CreateBlock: %v", err)
		}
		return nil, err
	}

	s.logger.Info("CreateBlock: successfully created block id=%d", created.ID)
	return models.FromDomainAppointment(created), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

// validateRange проверяет период выборки
func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidTimeRange)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidTimeRange)
	}
	if to.Sub(from) > time.Duration(domain.MaxAgendaRangeDays)*24*time.Hour {
		return fmt.Errorf("%w: period must not exceed %d days", ErrInvalidTimeRange, domain.MaxAgendaRangeDays)
	}
	return nil
}
