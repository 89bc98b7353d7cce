package update_booking_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, id, req)
	if v := args.Get(0); v != nil {
		return v.(*models.AppointmentResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func patch(svc *mockService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/status", NewHandler(svc, logger.NewNop()).Handle)
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateStatus", mock.Anything, int64(1), &models.UpdateStatusRequest{UserID: 100, Status: "confirmed"}).
		Return(&models.AppointmentResponse{ID: 1, Status: "confirmed"}, nil)

	rec := patch(svc, "/bookings/1/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: appointments.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "forbidden", err: appointments.ErrAccessDenied, status: http.StatusForbidden},
		{name: "transition", err: appointments.ErrInvalidTransition, status: http.StatusConflict},
		{name: "internal", err: appointments.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("UpdateStatus", mock.Anything, int64(1), mock.Anything).Return(nil, tt.err)
			assert.Equal(t, tt.status, patch(svc, "/bookings/1/status", `{"status":"completed"}`).Code)
		})
	}

	svc := &mockService{}
	assert.Equal(t, http.StatusBadRequest, patch(svc, "/bookings/x/status", `{"status":"completed"}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(svc, "/bookings/1/status", `{"status":"pending"}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(svc, "/bookings/1/status", `{}`).Code)
	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
