package get_agenda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) GetAgenda(ctx context.Context, req *models.AgendaRequest) (*models.AppointmentListResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*models.AppointmentListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func get(svc *mockService, url string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/professionals/{professionalId}/agenda", NewHandler(svc, logger.NewNop()).Handle)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(3, 1, "2026-10-01", "2026-10-31", "confirmed", "true")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), req.From)
	assert.Equal(t, "confirmed", *req.Status)
	assert.True(t, req.IncludeReleased)

	_, err = ToServiceRequest(3, 1, "", "2026-10-31", "", "")
	assert.Error(t, err)
	_, err = ToServiceRequest(3, 1, "2026-10-01", "2026-10-31", "", "maybe")
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("GetAgenda", mock.Anything, mock.MatchedBy(func(req *models.AgendaRequest) bool {
		return req.ProfessionalID == 3
	})).Return(&models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}, nil)
	svc.On("GetAgenda", mock.Anything, mock.MatchedBy(func(req *models.AgendaRequest) bool {
		return req.ProfessionalID == 4
	})).Return(nil, appointments.ErrAccessDenied)
	svc.On("GetAgenda", mock.Anything, mock.MatchedBy(func(req *models.AgendaRequest) bool {
		return req.ProfessionalID == 5
	})).Return(nil, appointments.ErrInvalidTimeRange)

	assert.Equal(t, http.StatusOK, get(svc, "/professionals/3/agenda?from=2026-10-01&to=2026-10-31").Code)
	assert.Equal(t, http.StatusForbidden, get(svc, "/professionals/4/agenda?from=2026-10-01&to=2026-10-31").Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "/professionals/5/agenda?from=2026-10-31&to=2026-10-01").Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "/professionals/3/agenda").Code)
}
