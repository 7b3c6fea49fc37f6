package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/middleware"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/bookings"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/bookings/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Cancel(ctx context.Context, bookingID uuid.UUID, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(bookingID, userID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID.String()+"/cancel", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID.String()})
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestHandle_EmptyBodyIsAllowed(t *testing.T) {
	bookingID, userID := uuid.New(), uuid.New()

	svc := &mockService{}
	svc.On("Cancel", mock.Anything, bookingID, &models.CancelBookingRequest{UserID: userID}).
		Return(&models.BookingResponse{ID: bookingID, State: "cancelled"}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, newRequest(bookingID, userID, ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_PassesReason(t *testing.T) {
	bookingID, userID := uuid.New(), uuid.New()

	svc := &mockService{}
	svc.On("Cancel", mock.Anything, bookingID, &models.CancelBookingRequest{UserID: userID, CancellationReason: "rain"}).
		Return(&models.BookingResponse{ID: bookingID, State: "cancelled"}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, newRequest(bookingID, userID, `{"cancellationReason":"rain"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{bookings.ErrBookingNotFound, http.StatusNotFound},
		{bookings.ErrAccessDenied, http.StatusForbidden},
		{bookings.ErrInvalidTransition, http.StatusConflict},
		{bookings.ErrInvalidInput, http.StatusBadRequest},
		{bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockService{}
			svc.On("Cancel", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(rec, newRequest(uuid.New(), uuid.New(), ""))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
