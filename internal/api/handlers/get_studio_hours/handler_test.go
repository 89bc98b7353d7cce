package get_studio_hours

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SalonBooking/internal/service/schedules/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) GetStudioHours(ctx context.Context) (*models.StudioHoursResponse, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*models.StudioHoursResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("GetStudioHours", mock.Anything).Return(&models.StudioHoursResponse{Start: "08:00", End: "18:00", ClosedDays: []int{0}}, nil).Once()
	svc.On("GetStudioHours", mock.Anything).Return(nil, errors.New("db down")).Once()
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/studio/hours", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"start":"08:00","end":"18:00","closedDays":[0]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/studio/hours", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
