package check_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	courtRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/court"
)

type mockCourtRepo struct{ mock.Mock }

func (m *mockCourtRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Court, error) {
	args := m.Called(ctx, id)
	court, _ := args.Get(0).(*domain.Court)
	return court, args.Error(1)
}

func (m *mockCourtRepo) GetOperatingHours(ctx context.Context, courtID uuid.UUID) (domain.OperatingHours, error) {
	args := m.Called(ctx, courtID)
	hours, _ := args.Get(0).(domain.OperatingHours)
	return hours, args.Error(1)
}

func (m *mockCourtRepo) ListBlackoutWindows(ctx context.Context, courtID uuid.UUID, since time.Time) ([]domain.BlackoutWindow, error) {
	args := m.Called(ctx, courtID, since)
	windows, _ := args.Get(0).([]domain.BlackoutWindow)
	return windows, args.Error(1)
}

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) ListConfirmedBookingWindows(ctx context.Context, courtID uuid.UUID, since time.Time) ([]domain.BookedWindow, error) {
	args := m.Called(ctx, courtID, since)
	windows, _ := args.Get(0).([]domain.BookedWindow)
	return windows, args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type countingRecorder map[string]int

func (c countingRecorder) IncAvailabilityVerdict(v string) { c[v]++ }

var now = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func newUseCase(courts *mockCourtRepo, bookings *mockBookingRepo, rec VerdictRecorder) *UseCase {
	uc := NewUseCase(courts, bookings, passthroughTx{}, rec, nopLogger{})
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func openCourt(id uuid.UUID) *domain.Court {
	return &domain.Court{ID: id, TimeZone: "Asia/Ho_Chi_Minh", State: domain.CourtStateActive}
}

func allWeek() domain.OperatingHours {
	hours := domain.OperatingHours{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = domain.DayHours{From: "06:00", To: "22:00"}
	}
	return hours
}

func localTime(h int) time.Time {
	return time.Date(2026, 5, 2, h, 0, 0, 0, time.UTC)
}

func TestExecute_UsesCourtTimeZoneAndAccepts(t *testing.T) {
	courtID := uuid.New()
	courts, bookings := &mockCourtRepo{}, &mockBookingRepo{}
	courts.On("GetByID", mock.Anything, courtID).Return(openCourt(courtID), nil)
	courts.On("GetOperatingHours", mock.Anything, courtID).Return(allWeek(), nil)
	courts.On("ListBlackoutWindows", mock.Anything, courtID, now).Return([]domain.BlackoutWindow{}, nil)
	bookings.On("ListConfirmedBookingWindows", mock.Anything, courtID, now).Return([]domain.BookedWindow{}, nil)

	rec := countingRecorder{}
	resp, err := newUseCase(courts, bookings, rec).Execute(context.Background(), &Request{
		CourtID:    courtID,
		StartLocal: localTime(17),
		EndLocal:   localTime(18),
	})

	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Equal(t, "Asia/Ho_Chi_Minh", resp.TimeZone)
	require.NotNil(t, resp.StartUTC)
	assert.Equal(t, time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC), *resp.StartUTC)
	assert.Equal(t, 1, rec["accepted"])
	courts.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestExecute_CallerZoneDoesNotShiftCourtHours(t *testing.T) {
	courtID := uuid.New()
	courts, bookings := &mockCourtRepo{}, &mockBookingRepo{}
	courts.On("GetByID", mock.Anything, courtID).Return(openCourt(courtID), nil)
	courts.On("GetOperatingHours", mock.Anything, courtID).Return(allWeek(), nil)
	courts.On("ListBlackoutWindows", mock.Anything, courtID, now).Return([]domain.BlackoutWindow{}, nil)
	bookings.On("ListConfirmedBookingWindows", mock.Anything, courtID, now).Return([]domain.BookedWindow{}, nil)

	rec := countingRecorder{}
	resp, err := newUseCase(courts, bookings, rec).Execute(context.Background(), &Request{
		CourtID:    courtID,
		StartLocal: localTime(10),
		EndLocal:   localTime(11),
		TimeZone:   "America/Los_Angeles",
	})

	// 10:00 в Лос-Анджелесе - 00:00 воскресенья у корта
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, "outside_operating_hours", resp.Reason)
	assert.Equal(t, "America/Los_Angeles", resp.TimeZone)
	require.NotNil(t, resp.StartUTC)
	assert.Equal(t, time.Date(2026, 5, 2, 17, 0, 0, 0, time.UTC), *resp.StartUTC)
	assert.Equal(t, 1, rec["outside_operating_hours"])
}

func TestExecute_ReportsConflictAsVerdict(t *testing.T) {
	courtID, bookingID := uuid.New(), uuid.New()
	courts, bookings := &mockCourtRepo{}, &mockBookingRepo{}
	courts.On("GetByID", mock.Anything, courtID).Return(openCourt(courtID), nil)
	courts.On("GetOperatingHours", mock.Anything, courtID).Return(allWeek(), nil)
	courts.On("ListBlackoutWindows", mock.Anything, courtID, now).Return([]domain.BlackoutWindow{}, nil)
	bookings.On("ListConfirmedBookingWindows", mock.Anything, courtID, now).Return([]domain.BookedWindow{{
		BookingID: bookingID,
		Window: domain.TimeWindow{
			Start: time.Date(2026, 5, 2, 10, 30, 0, 0, time.UTC),
			End:   time.Date(2026, 5, 2, 11, 30, 0, 0, time.UTC),
		},
	}}, nil)

	resp, err := newUseCase(courts, bookings, nil).Execute(context.Background(), &Request{
		CourtID:    courtID,
		StartLocal: localTime(17),
		EndLocal:   localTime(18),
		TimeZone:   "Asia/Ho_Chi_Minh",
	})

	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, "booking_conflict", resp.Reason)
	require.NotNil(t, resp.ConflictBookingID)
	assert.Equal(t, bookingID, *resp.ConflictBookingID)
}

func TestExecute_ReportsBlackoutConflict(t *testing.T) {
	courtID, blackoutID := uuid.New(), uuid.New()
	courts, bookings := &mockCourtRepo{}, &mockBookingRepo{}
	courts.On("GetByID", mock.Anything, courtID).Return(openCourt(courtID), nil)
	courts.On("GetOperatingHours", mock.Anything, courtID).Return(allWeek(), nil)
	courts.On("ListBlackoutWindows", mock.Anything, courtID, now).Return([]domain.BlackoutWindow{{
		ID:      blackoutID,
		CourtID: courtID,
		Window: domain.TimeWindow{
			Start: time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
		},
		Reason: "floor repair",
	}}, nil)
	bookings.On("ListConfirmedBookingWindows", mock.Anything, courtID, now).Return([]domain.BookedWindow{}, nil)

	resp, err := newUseCase(courts, bookings, nil).Execute(context.Background(), &Request{
		CourtID:    courtID,
		StartLocal: localTime(17),
		EndLocal:   localTime(18),
	})

	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, "blackout_conflict", resp.Reason)
	assert.Nil(t, resp.ConflictBookingID)
	require.NotNil(t, resp.ConflictBlackoutID)
	assert.Equal(t, blackoutID, *resp.ConflictBlackoutID)
}

func TestExecute_CourtNotFound(t *testing.T) {
	courtID := uuid.New()
	courts := &mockCourtRepo{}
	courts.On("GetByID", mock.Anything, courtID).Return(nil, courtRepo.ErrCourtNotFound)

	_, err := newUseCase(courts, &mockBookingRepo{}, nil).Execute(context.Background(), &Request{
		CourtID:    courtID,
		StartLocal: localTime(10),
		EndLocal:   localTime(11),
	})

	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestExecute_StorageFailureIsInternal(t *testing.T) {
	courtID := uuid.New()
	courts := &mockCourtRepo{}
	courts.On("GetByID", mock.Anything, courtID).Return(openCourt(courtID), nil)
	courts.On("GetOperatingHours", mock.Anything, courtID).Return(nil, errors.New("connection reset"))

	_, err := newUseCase(courts, &mockBookingRepo{}, nil).Execute(context.Background(), &Request{
		CourtID:    courtID,
		StartLocal: localTime(10),
		EndLocal:   localTime(11),
	})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_InvalidInput(t *testing.T) {
	_, err := newUseCase(&mockCourtRepo{}, &mockBookingRepo{}, nil).Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
