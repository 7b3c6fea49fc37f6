package check_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	checkAvailability "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/usecase/check_availability"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*checkAvailability.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(courtID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts/"+courtID+"/availability?"+query, nil)
	return mux.SetURLVars(req, map[string]string{"courtId": courtID})
}

func TestHandle_RejectionIsOK(t *testing.T) {
	courtID := uuid.New()
	conflict := uuid.New()

	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *checkAvailability.Request) bool {
		return r.CourtID == courtID && r.StartLocal.Hour() == 18 && r.EndLocal.Hour() == 19 && r.TimeZone == "Asia/Ho_Chi_Minh"
	})).Return(&checkAvailability.Response{
		CourtID:           courtID,
		Available:         false,
		Reason:            "booking_conflict",
		ConflictBookingID: &conflict,
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest(courtID.String(),
		"start=2026-05-02T18:00&end=2026-05-02T19:00&tz=Asia/Ho_Chi_Minh"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Available)
	assert.Equal(t, "booking_conflict", resp.Reason)
	require.NotNil(t, resp.ConflictBookingID)
	assert.Equal(t, conflict, *resp.ConflictBookingID)
}

func TestHandle_BadParams(t *testing.T) {
	valid := uuid.NewString()

	tests := []struct {
		name    string
		courtID string
		query   string
	}{
		{name: "bad court id", courtID: "x", query: "start=2026-05-02T18:00&end=2026-05-02T19:00"},
		{name: "missing end", courtID: valid, query: "start=2026-05-02T18:00"},
		{name: "rfc3339 start", courtID: valid, query: "start=2026-05-02T18:00:00Z&end=2026-05-02T19:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, newRequest(tt.courtID, tt.query))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_CourtNotFound(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, checkAvailability.ErrCourtNotFound)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest(uuid.NewString(), "start=2026-05-02T18:00&end=2026-05-02T19:00"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
