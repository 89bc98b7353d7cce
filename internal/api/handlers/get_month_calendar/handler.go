package get_month_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getMonthCalendar "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_month_calendar"
)

const (
	msgInvalidProfessionalID = "некорректный ID мастера"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgInvalidYear           = "некорректный год"
	msgInvalidMonth          = "некорректный месяц, ожидается 1..12"
	msgInvalidRequest        = "некорректные параметры запроса"
	msgProfessionalNotFound  = "мастер не найден"
	msgServiceNotFound       = "услуга не найдена"
)

type Handler struct {
	useCase GetMonthCalendarUseCase
	logger  Logger
	now     func() time.Time
}

func NewHandler(useCase GetMonthCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock задает источник текущего времени для месяца по умолчанию
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Handle GET /api/v1/professionals/{professionalId}/calendar
// Query params: year, month (по умолчанию текущий месяц), serviceId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(mux.Vars(r)["professionalId"], 10, 64)
	if err != nil || professionalID <= 0 {
		h.logger.Warn("GET /professionals/{id}/calendar - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	query := r.URL.Query()
	now := h.now()
	req := &getMonthCalendar.Request{
		ProfessionalID: professionalID,
		Year:           now.Year(),
		Month:          now.Month(),
	}

	if v := query.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1970 || year > 9999 {
			h.logger.Warn("GET /professionals/{id}/calendar - Invalid year: %s", v)
			handlers.RespondBadRequest(w, msgInvalidYear)
			return
		}
		req.Year = year
	}

	if v := query.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			h.logger.Warn("GET /professionals/{id}/calendar - Invalid month: %s", v)
			handlers.RespondBadRequest(w, msgInvalidMonth)
			return
		}
		req.Month = time.Month(month)
	}

	if v := query.Get("serviceId"); v != "" {
		serviceID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || serviceID <= 0 {
			h.logger.Warn("GET /professionals/{id}/calendar - Invalid service ID: %s", v)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = &serviceID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getMonthCalendar.ErrProfessionalNotFound):
			h.logger.Warn("GET /professionals/{id}/calendar - Professional not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, getMonthCalendar.ErrServiceNotFound):
			h.logger.Warn("GET /professionals/{id}/calendar - Service not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getMonthCalendar.ErrInvalidInput):
			h.logger.Warn("GET /professionals/{id}/calendar - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /professionals/{id}/calendar - Failed to build calendar: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/calendar - Calendar built: professional_id=%d, %d-%02d",
		professionalID, req.Year, req.Month)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
