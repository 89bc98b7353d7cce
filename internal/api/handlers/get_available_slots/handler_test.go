package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*getAvailableSlots.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(uc *mockUseCase, url string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/professionals/{professionalId}/available-slots", NewHandler(uc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	date := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{ProfessionalID: 3, ServiceID: 5, Date: date}).
		Return(&getAvailableSlots.Response{
			Date: date, ProfessionalID: 3, ServiceID: 5, DurationMinutes: 30,
			Slots: []types.TimeString{types.MustTimeString("08:00"), types.MustTimeString("08:30")},
		}, nil)

	rec := serve(uc, "/professionals/3/available-slots?serviceId=5&date=2026-10-20")
	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-20", body.Date)
	assert.Equal(t, []string{"08:00", "08:30"}, body.Slots)
	assert.False(t, body.Closed)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		err    error
		status int
	}{
		{name: "bad professional", url: "/professionals/x/available-slots?serviceId=5&date=2026-10-20", status: http.StatusBadRequest},
		{name: "missing service", url: "/professionals/3/available-slots?date=2026-10-20", status: http.StatusBadRequest},
		{name: "bad service", url: "/professionals/3/available-slots?serviceId=y&date=2026-10-20", status: http.StatusBadRequest},
		{name: "missing date", url: "/professionals/3/available-slots?serviceId=5", status: http.StatusBadRequest},
		{name: "bad date", url: "/professionals/3/available-slots?serviceId=5&date=20.10.2026", status: http.StatusBadRequest},
		{name: "professional not found", url: "/professionals/3/available-slots?serviceId=5&date=2026-10-20", err: getAvailableSlots.ErrProfessionalNotFound, status: http.StatusNotFound},
		{name: "service not found", url: "/professionals/3/available-slots?serviceId=5&date=2026-10-20", err: getAvailableSlots.ErrServiceNotFound, status: http.StatusNotFound},
		{name: "internal", url: "/professionals/3/available-slots?serviceId=5&date=2026-10-20", err: getAvailableSlots.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(uc, tt.url)
			assert.Equal(t, tt.status, rec.Code)
			if tt.err == nil {
				uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
			}
		})
	}
}
