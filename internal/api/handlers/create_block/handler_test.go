package create_block

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

func (m *mockService) CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*models.AppointmentResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

const validBody = `{"date":"2026-10-20","startTime":"13:00","durationMinutes":60,"notes":"lunch"}`

func post(svc *mockService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/professionals/{professionalId}/blocks", NewHandler(svc, logger.NewNop()).Handle)
	req := httptest.NewRequest(http.MethodPost, "/professionals/3/blocks", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	svc := &mockService{}
	svc.On("CreateBlock", mock.Anything, mock.MatchedBy(func(req *models.CreateBlockRequest) bool {
		return req.ProfessionalID == 3 && req.UserID == 1 && req.StartTime.String() == "13:00" && req.DurationMinutes == 60
	})).Return(&models.AppointmentResponse{ID: 9, Kind: "block"}, nil)

	assert.Equal(t, http.StatusCreated, post(svc, validBody).Code)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "zero duration", body: `{"date":"2026-10-20","startTime":"13:00","durationMinutes":0}`, status: http.StatusBadRequest},
		{name: "bad time", body: `{"date":"2026-10-20","startTime":"1pm","durationMinutes":30}`, status: http.StatusBadRequest},
		{name: "forbidden", body: validBody, err: appointments.ErrAccessDenied, status: http.StatusForbidden},
		{name: "overlap", body: validBody, err: appointments.ErrSlotNotAvailable, status: http.StatusConflict},
		{name: "past midnight", body: validBody, err: appointments.ErrInvalidTimeRange, status: http.StatusBadRequest},
		{name: "no professional", body: validBody, err: appointments.ErrProfessionalNotFound, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("CreateBlock", mock.Anything, mock.Anything).Return(nil, tt.err)
			assert.Equal(t, tt.status, post(svc, tt.body).Code)
		})
	}
}
