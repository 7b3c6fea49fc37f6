package create_blackout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/api/middleware"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/service/courts/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateBlackout(ctx context.Context, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.BlackoutResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{"startAt":"2026-05-02T09:00:00Z","endAt":"2026-05-02T12:00:00Z","reason":"floor repair"}`

func newRequest(courtID string, userID *uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/courts/"+courtID+"/blackouts", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"courtId": courtID})
	if userID != nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), *userID))
	}
	return req
}

func TestHandle_CreatesBlackout(t *testing.T) {
	courtID, userID, blackoutID := uuid.New(), uuid.New(), uuid.New()
	start := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)

	svc := &mockService{}
	svc.On("CreateBlackout", mock.Anything, &models.CreateBlackoutRequest{
		UserID:  userID,
		CourtID: courtID,
		StartAt: start,
		EndAt:   end,
		Reason:  "floor repair",
	}).Return(&models.BlackoutResponse{
		ID:        blackoutID,
		CourtID:   courtID,
		StartAt:   start,
		EndAt:     end,
		Reason:    "floor repair",
		CreatedBy: userID,
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, newRequest(courtID.String(), &userID, validBody))

	require.Equal(t, http.StatusCreated, rec.Code)
	var got models.BlackoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, blackoutID, got.ID)
	assert.Equal(t, courtID, got.CourtID)
	svc.AssertExpectations(t)
}

func TestHandle_InvalidCourtID(t *testing.T) {
	userID := uuid.New()
	svc := &mockService{}

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, newRequest("not-a-uuid", &userID, validBody))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateBlackout", mock.Anything, mock.Anything)
}

func TestHandle_MissingUser(t *testing.T) {
	svc := &mockService{}

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, newRequest(uuid.New().String(), nil, validBody))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "CreateBlackout", mock.Anything, mock.Anything)
}

func TestHandle_InvalidBody(t *testing.T) {
	userID := uuid.New()
	svc := &mockService{}

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, newRequest(uuid.New().String(), &userID, `{"startAt":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateBlackout", mock.Anything, mock.Anything)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{courts.ErrInvalidInput, http.StatusBadRequest},
		{courts.ErrCourtNotFound, http.StatusNotFound},
		{courts.ErrFacilityNotFound, http.StatusNotFound},
		{courts.ErrAccessDenied, http.StatusForbidden},
		{courts.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			userID := uuid.New()
			svc := &mockService{}
			svc.On("CreateBlackout", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(rec, newRequest(uuid.New().String(), &userID, validBody))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
