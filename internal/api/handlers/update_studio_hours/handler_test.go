package update_studio_hours

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedules"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedules/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) UpdateStudioHours(ctx context.Context, req *models.UpdateStudioHoursRequest) (*models.StudioHoursResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*models.StudioHoursResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func put(svc *mockService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/studio/hours", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateStudioHours", mock.Anything, &models.UpdateStudioHoursRequest{
		UserID: 1, Start: "09:00", End: "20:00", ClosedDays: []int{0, 6},
	}).Return(&models.StudioHoursResponse{Start: "09:00", End: "20:00", ClosedDays: []int{0, 6}}, nil)

	rec := put(svc, `{"start":"09:00","end":"20:00","closedDays":[0,6]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "day out of range", body: `{"start":"09:00","end":"20:00","closedDays":[7]}`, status: http.StatusBadRequest},
		{name: "missing end", body: `{"start":"09:00"}`, status: http.StatusBadRequest},
		{name: "not staff", body: `{"start":"09:00","end":"20:00"}`, err: schedules.ErrAccessDenied, status: http.StatusForbidden},
		{name: "invalid window", body: `{"start":"20:00","end":"09:00"}`, err: schedules.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", body: `{"start":"09:00","end":"20:00"}`, err: schedules.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("UpdateStudioHours", mock.Anything, mock.Anything).Return(nil, tt.err)
			assert.Equal(t, tt.status, put(svc, tt.body).Code)
		})
	}
}
