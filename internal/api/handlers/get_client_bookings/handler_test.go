package get_client_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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

func (m *mockService) GetClientAppointments(ctx context.Context, req *models.ClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*models.AppointmentListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func get(svc *mockService, url string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/clients/{clientId}/bookings", NewHandler(svc, logger.NewNop()).Handle)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_StatusFilter(t *testing.T) {
	svc := &mockService{}
	svc.On("GetClientAppointments", mock.Anything, mock.MatchedBy(func(req *models.ClientAppointmentsRequest) bool {
		return req.UserID == 7 && req.ClientID == 7 && req.Status != nil && *req.Status == "pending"
	})).Return(&models.AppointmentListResponse{Appointments: []models.AppointmentResponse{{ID: 1}}}, nil)

	rec := get(svc, "/clients/7/bookings?status=pending")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body []models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, int64(1), body[0].ID)
}

func TestHandle_Errors(t *testing.T) {
	svc := &mockService{}
	svc.On("GetClientAppointments", mock.Anything, mock.MatchedBy(func(req *models.ClientAppointmentsRequest) bool {
		return req.ClientID == 8
	})).Return(nil, appointments.ErrAccessDenied)
	svc.On("GetClientAppointments", mock.Anything, mock.MatchedBy(func(req *models.ClientAppointmentsRequest) bool {
		return req.ClientID == 7
	})).Return(nil, appointments.ErrInvalidInput)

	assert.Equal(t, http.StatusForbidden, get(svc, "/clients/8/bookings").Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "/clients/7/bookings?status=lost").Code)
	assert.Equal(t, http.StatusBadRequest, get(svc, "/clients/x/bookings").Code)
}
