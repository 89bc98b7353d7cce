package booking_flow

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingFlow "github.com/m04kA/SMC-SalonBooking/internal/usecase/booking_flow"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const (
	msgInvalidFlowID        = "некорректный ID сессии записи"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime          = "некорректный формат времени, ожидается HH:MM"
	msgFlowNotFound         = "сессия записи не найдена или истекла"
	msgForbidden            = "доступ запрещен"
	msgInvalidTransition    = "действие недоступно на текущем шаге"
	msgDateNotSelectable    = "эту дату нельзя выбрать"
	msgTimeNotSelectable    = "это время нельзя выбрать"
	msgConfirmInProgress    = "подтверждение уже выполняется"
	msgProfessionalNotFound = "мастер не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgSlotNotAvailable     = "выбранное время уже занято"
	msgReservationRejected  = "запись на выбранное время невозможна"
	msgInvalidInput         = "некорректные параметры"
)

type Handler struct {
	useCase BookingFlowUseCase
	logger  Logger
}

func NewHandler(useCase BookingFlowUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Start POST /api/v1/booking-flows
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking-flows"

	userID, ok := h.userID(w, r, op)
	if !ok {
		return
	}

	var req StartFlowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	flow, err := h.useCase.Start(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		h.respondError(w, op, err)
		return
	}

	h.logger.Info("%s - Flow started: flow_id=%s, user_id=%d", op, flow.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromFlow(flow))
}

// Get GET /api/v1/booking-flows/{flowId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "GET /booking-flows/{id}"

	id, userID, ok := h.params(w, r, op)
	if !ok {
		return
	}

	flow, err := h.useCase.Get(r.Context(), id, userID)
	h.respond(w, op, flow, err)
}

// ChangeMonth POST /api/v1/booking-flows/{flowId}/month
func (h *Handler) ChangeMonth(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking-flows/{id}/month"

	id, userID, ok := h.params(w, r, op)
	if !ok {
		return
	}

	var req ChangeMonthRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	flow, err := h.useCase.ChangeMonth(r.Context(), id, userID, req.Year, time.Month(req.Month))
	h.respond(w, op, flow, err)
}

// SelectDate POST /api/v1/booking-flows/{flowId}/date
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking-flows/{id}/date"

	id, userID, ok := h.params(w, r, op)
	if !ok {
		return
	}

	var req SelectDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	flow, err := h.useCase.SelectDate(r.Context(), id, userID, date)
	h.respond(w, op, flow, err)
}

// SelectTime POST /api/v1/booking-flows/{flowId}/time
func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking-flows/{id}/time"

	id, userID, ok := h.params(w, r, op)
	if !ok {
		return
	}

	var req SelectTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	t, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		h.logger.Warn("%s - Invalid time: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	flow, err := h.useCase.SelectTime(r.Context(), id, userID, t)
	h.respond(w, op, flow, err)
}

// Back POST /api/v1/booking-flows/{flowId}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking-flows/{id}/back"

	id, userID, ok := h.params(w, r, op)
	if !ok {
		return
	}

	flow, err := h.useCase.Back(r.Context(), id, userID)
	h.respond(w, op, flow, err)
}

// Confirm POST /api/v1/booking-flows/{flowId}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking-flows/{id}/confirm"

	id, userID, ok := h.params(w, r, op)
	if !ok {
		return
	}

	var req ConfirmRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("%s - Invalid request body: %v", op, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	flow, err := h.useCase.Confirm(r.Context(), id, userID, req.Notes)
	if err == nil && flow.Reservation != nil {
		h.logger.Info("%s - Booking confirmed: flow_id=%s, appointment_id=%d", op, id, flow.Reservation.AppointmentID)
	}
	h.respond(w, op, flow, err)
}

// Вспомогательные методы

func (h *Handler) userID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
	}
	return userID, ok
}

func (h *Handler) params(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, int64, bool) {
	id, err := uuid.Parse(mux.Vars(r)["flowId"])
	if err != nil {
		h.logger.Warn("%s - Invalid flow ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidFlowID)
		return uuid.Nil, 0, false
	}

	userID, ok := h.userID(w, r, op)
	if !ok {
		return uuid.Nil, 0, false
	}
	return id, userID, true
}

func (h *Handler) respond(w http.ResponseWriter, op string, flow *bookingFlow.Flow, err error) {
	if err != nil {
		h.respondError(w, op, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromFlow(flow))
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, bookingFlow.ErrFlowNotFound):
		h.logger.Warn("%s - Flow not found", op)
		handlers.RespondNotFound(w, msgFlowNotFound)

	case errors.Is(err, bookingFlow.ErrFlowForbidden):
		h.logger.Warn("%s - Access denied", op)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, bookingFlow.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: %v", op, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, bookingFlow.ErrDateNotSelectable):
		h.logger.Warn("%s - Date not selectable: %v", op, err)
		handlers.RespondBadRequest(w, msgDateNotSelectable)

	case errors.Is(err, bookingFlow.ErrTimeNotSelectable):
		h.logger.Warn("%s - Time not selectable: %v", op, err)
		handlers.RespondBadRequest(w, msgTimeNotSelectable)

	case errors.Is(err, bookingFlow.ErrConfirmInProgress):
		h.logger.Warn("%s - Confirmation in progress", op)
		handlers.RespondConflict(w, msgConfirmInProgress)

	case errors.Is(err, bookingFlow.ErrProfessionalNotFound):
		h.logger.Warn("%s - Professional not found", op)
		handlers.RespondNotFound(w, msgProfessionalNotFound)

	case errors.Is(err, bookingFlow.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found", op)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, bookingFlow.ErrSlotNotAvailable):
		h.logger.Warn("%s - Slot not available", op)
		handlers.RespondConflict(w, msgSlotNotAvailable)

	case errors.Is(err, bookingFlow.ErrReservationRejected):
		h.logger.Warn("%s - Reservation rejected: %v", op, err)
		handlers.RespondBadRequest(w, msgReservationRejected)

	case errors.Is(err, bookingFlow.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
