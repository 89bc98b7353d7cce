package list_professionals

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

func (m *mockService) ListProfessionals(ctx context.Context) (*models.ProfessionalListResponse, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*models.ProfessionalListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("ListProfessionals", mock.Anything).Return(&models.ProfessionalListResponse{
		Professionals: []models.ProfessionalResponse{{ID: 1, Name: "Anna", HasOwnSchedule: true}},
	}, nil).Once()
	svc.On("ListProfessionals", mock.Anything).Return(nil, errors.New("db down")).Once()
	h := NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/professionals", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"professionals":[{"id":1,"name":"Anna","hasOwnSchedule":true,"usesLegacySchedule":false}]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/professionals", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
