package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/middleware"
	createBooking "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/create_booking"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*createBooking.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(userID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestHandle_Created(t *testing.T) {
	userID, courtID := uuid.New(), uuid.New()
	start := time.Date(2026, 5, 2, 11, 0, 0, 0, time.UTC)

	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.UserID == userID && r.CourtID == courtID &&
			r.StartLocal.Hour() == 18 && r.EndLocal.Minute() == 30 &&
			r.TimeZone == "Asia/Ho_Chi_Minh"
	})).Return(&createBooking.Response{
		ID:         uuid.New(),
		CourtID:    courtID,
		UserID:     userID,
		StartAt:    start,
		EndAt:      start.Add(90 * time.Minute),
		TimeZone:   "Asia/Ho_Chi_Minh",
		State:      "pending",
		TotalPrice: 120000,
	}, nil)

	body := fmt.Sprintf(`{"courtId":%q,"start":"2026-05-02T18:00","end":"2026-05-02T19:30","timeZone":"Asia/Ho_Chi_Minh"}`, courtID)
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest(userID, body))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "pending", resp.State)
	assert.Equal(t, "2026-05-02T11:00:00Z", resp.StartAt)
	assert.Equal(t, "2026-05-02T12:30:00Z", resp.EndAt)
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{createBooking.ErrInvalidInput, http.StatusBadRequest},
		{createBooking.ErrCourtNotFound, http.StatusNotFound},
		{createBooking.ErrResourceLocked, http.StatusLocked},
		{createBooking.ErrInvalidWindow, http.StatusBadRequest},
		{createBooking.ErrResourceClosed, http.StatusUnprocessableEntity},
		{createBooking.ErrOutsideOperatingHours, http.StatusUnprocessableEntity},
		{createBooking.ErrBookingConflict, http.StatusConflict},
		{createBooking.ErrBlackoutConflict, http.StatusConflict},
		{createBooking.ErrPersistenceFailure, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("wrapped: %w", tt.err))

			body := fmt.Sprintf(`{"courtId":%q,"start":"2026-05-02T18:00","end":"2026-05-02T19:00"}`, uuid.New())
			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, newRequest(uuid.New(), body))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"courtId":`},
		{name: "unknown field", body: `{"courtId":"00000000-0000-0000-0000-000000000001","start":"2026-05-02T18:00","end":"2026-05-02T19:00","status":"confirmed"}`},
		{name: "start with zone", body: `{"courtId":"00000000-0000-0000-0000-000000000001","start":"2026-05-02T18:00:00Z","end":"2026-05-02T19:00"}`},
		{name: "date only", body: `{"courtId":"00000000-0000-0000-0000-000000000001","start":"2026-05-02","end":"2026-05-02T19:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, newRequest(uuid.New(), tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_MissingUser(t *testing.T) {
	uc := &mockUseCase{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
