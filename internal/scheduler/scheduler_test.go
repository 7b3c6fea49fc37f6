package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/events"
	bookingRepo "github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/infra/storage/booking"
)

// memRepo хранилище в памяти с той же семантикой условных обновлений, что и у postgres-репозитория
type memRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]domain.Booking
	failIDs  map[uuid.UUID]bool
	listErr  error
}

func newMemRepo(bookings ...domain.Booking) *memRepo {
	r := &memRepo{bookings: map[uuid.UUID]domain.Booking{}, failIDs: map[uuid.UUID]bool{}}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *memRepo) ListByState(_ context.Context, state domain.BookingState) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.State == state {
			copied := b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memRepo) CountByState(ctx context.Context, state domain.BookingState) (int, error) {
	list, err := r.ListByState(ctx, state)
	return len(list), err
}

func (r *memRepo) compareAndSet(id uuid.UUID, from domain.BookingState, apply func(b *domain.Booking)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIDs[id] {
		return fmt.Errorf("%w: connection reset", bookingRepo.ErrExecQuery)
	}
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.State != from {
		return fmt.Errorf("%w: booking is %s", bookingRepo.ErrStateChanged, b.State)
	}
	apply(&b)
	r.bookings[id] = b
	return nil
}

func (r *memRepo) UpdateState(_ context.Context, id uuid.UUID, from, to domain.BookingState) error {
	return r.compareAndSet(id, from, func(b *domain.Booking) { b.State = to })
}

func (r *memRepo) Cancel(_ context.Context, id uuid.UUID, from domain.BookingState, reason string) error {
	return r.compareAndSet(id, from, func(b *domain.Booking) {
		b.State = domain.StateCancelled
		b.CancellationReason = &reason
	})
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memRepo) get(id uuid.UUID) (domain.Booking, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	return b, ok
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

type countingMetrics struct {
	mu          sync.Mutex
	transitions map[string]int
	failures    map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{transitions: map[string]int{}, failures: map[string]int{}}
}

func (m *countingMetrics) IncSchedulerTransition(worker, event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[worker+"/"+event]++
}

func (m *countingMetrics) IncSchedulerFailure(worker string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[worker]++
}

func (m *countingMetrics) ObserveSchedulerSweep(string, time.Duration) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

var testConfig = Config{
	PendingGracePeriod: 20 * time.Minute,
	PollInterval:       10 * time.Millisecond,
	IdleProbe:          time.Hour,
	AdvanceInterval:    time.Hour,
}

func pendingCreated(ago time.Duration) domain.Booking {
	start := now.Add(24 * time.Hour)
	return domain.Booking{
		ID:        uuid.New(),
		CourtID:   uuid.New(),
		UserID:    uuid.New(),
		Window:    domain.TimeWindow{Start: start, End: start.Add(time.Hour)},
		State:     domain.StatePending,
		CreatedAt: now.Add(-ago),
	}
}

func withWindow(state domain.BookingState, start, end time.Time) domain.Booking {
	return domain.Booking{
		ID:      uuid.New(),
		CourtID: uuid.New(),
		UserID:  uuid.New(),
		Window:  domain.TimeWindow{Start: start, End: end},
		State:   state,
	}
}

func newReaper(repo *memRepo, cfg Config) (*Reaper, *recordingPublisher, *countingMetrics) {
	pub, m := &recordingPublisher{}, newCountingMetrics()
	r := NewReaper(repo, pub, m, cfg, nopLogger{})
	r.clock = fixedClock{now: now}
	return r, pub, m
}

func newAdvancer(repo *memRepo, at time.Time) (*Advancer, *recordingPublisher, *countingMetrics) {
	pub, m := &recordingPublisher{}, newCountingMetrics()
	a := NewAdvancer(repo, pub, m, testConfig, nopLogger{})
	a.clock = fixedClock{now: at}
	return a, pub, m
}

func TestReaper_ExpiresOnlyAfterGrace(t *testing.T) {
	stale := pendingCreated(21 * time.Minute)
	fresh := pendingCreated(19 * time.Minute)
	repo := newMemRepo(stale, fresh)
	reaper, pub, m := newReaper(repo, testConfig)

	remaining, err := reaper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	got, _ := repo.get(stale.ID)
	assert.Equal(t, domain.StateCancelled, got.State)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "payment_timeout", *got.CancellationReason)

	got, _ = repo.get(fresh.ID)
	assert.Equal(t, domain.StatePending, got.State)

	assert.Equal(t, []string{events.BookingExpired}, pub.keys)
	assert.Equal(t, 1, m.transitions["reaper/payment_timeout"])
}

func TestReaper_ExactlyAtGraceIsKept(t *testing.T) {
	b := pendingCreated(20 * time.Minute)
	repo := newMemRepo(b)
	reaper, _, _ := newReaper(repo, testConfig)

	_, err := reaper.Sweep(context.Background())
	require.NoError(t, err)

	got, _ := repo.get(b.ID)
	assert.Equal(t, domain.StatePending, got.State)
}

func TestReaper_DeleteExpired(t *testing.T) {
	stale := pendingCreated(time.Hour)
	repo := newMemRepo(stale)
	cfg := testConfig
	cfg.DeleteExpired = true
	reaper, _, _ := newReaper(repo, cfg)

	remaining, err := reaper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Zero(t, remaining)
	_, ok := repo.get(stale.ID)
	assert.False(t, ok)
}

func TestReaper_FailureDoesNotStopOthers(t *testing.T) {
	broken, ok1, ok2 := pendingCreated(time.Hour), pendingCreated(time.Hour), pendingCreated(time.Hour)
	repo := newMemRepo(broken, ok1, ok2)
	repo.failIDs[broken.ID] = true
	reaper, pub, m := newReaper(repo, testConfig)

	remaining, err := reaper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.Len(t, pub.keys, 2)
	assert.Equal(t, 1, m.failures[workerReaper])

	// следующий проход повторяет неудачное бронирование
	delete(repo.failIDs, broken.ID)
	remaining, err = reaper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestReaper_ListErrorReported(t *testing.T) {
	repo := newMemRepo()
	repo.listErr = errors.New("db down")
	reaper, _, m := newReaper(repo, testConfig)

	_, err := reaper.Sweep(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, m.failures[workerReaper])
}

func TestReaper_NotifyDoesNotBlock(t *testing.T) {
	reaper, _, _ := newReaper(newMemRepo(), testConfig)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			reaper.Notify()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked")
	}
	assert.Len(t, reaper.wake, 1)
}

func TestReaper_RunWakesOnNotify(t *testing.T) {
	repo := newMemRepo()
	reaper, _, _ := newReaper(repo, testConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = reaper.Run(ctx) }()

	// очередь пуста, воркер ушёл в простой с пробой раз в час
	stale := pendingCreated(time.Hour)
	repo.mu.Lock()
	repo.bookings[stale.ID] = stale
	repo.mu.Unlock()
	reaper.Notify()

	assert.Eventually(t, func() bool {
		got, _ := repo.get(stale.ID)
		return got.State == domain.StateCancelled
	}, time.Second, 10*time.Millisecond)
}

func TestAdvancer_MovesThroughWindow(t *testing.T) {
	start := now.Add(-30 * time.Minute)
	current := withWindow(domain.StateConfirmed, start, start.Add(time.Hour))
	future := withWindow(domain.StateConfirmed, now.Add(time.Hour), now.Add(2*time.Hour))
	repo := newMemRepo(current, future)

	advancer, pub, m := newAdvancer(repo, now)
	assert.Equal(t, 1, advancer.Sweep(context.Background()))

	got, _ := repo.get(current.ID)
	assert.Equal(t, domain.StateInProgress, got.State)
	got, _ = repo.get(future.ID)
	assert.Equal(t, domain.StateConfirmed, got.State)
	assert.Equal(t, []string{events.BookingStarted}, pub.keys)
	assert.Equal(t, 1, m.transitions["advancer/window_entered"])

	// после конца окна бронирование завершается
	later, pub, _ := newAdvancer(repo, start.Add(time.Hour))
	assert.Equal(t, 1, later.Sweep(context.Background()))
	got, _ = repo.get(current.ID)
	assert.Equal(t, domain.StateCompleted, got.State)
	assert.Equal(t, []string{events.BookingCompleted}, pub.keys)
}

func TestAdvancer_CatchesUpMissedWindowInOnePass(t *testing.T) {
	missed := withWindow(domain.StateConfirmed, now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	repo := newMemRepo(missed)

	advancer, pub, _ := newAdvancer(repo, now)
	assert.Equal(t, 2, advancer.Sweep(context.Background()))

	got, _ := repo.get(missed.ID)
	assert.Equal(t, domain.StateCompleted, got.State)
	assert.Equal(t, []string{events.BookingStarted, events.BookingCompleted}, pub.keys)
}

func TestAdvancer_RerunIsNoOp(t *testing.T) {
	b := withWindow(domain.StateConfirmed, now.Add(-time.Minute), now.Add(time.Hour))
	repo := newMemRepo(b)
	advancer, pub, _ := newAdvancer(repo, now)

	assert.Equal(t, 1, advancer.Sweep(context.Background()))
	assert.Equal(t, 0, advancer.Sweep(context.Background()))
	assert.Len(t, pub.keys, 1)
}

func TestAdvancer_IgnoresPendingAndCancelled(t *testing.T) {
	pending := withWindow(domain.StatePending, now.Add(-time.Hour), now.Add(time.Hour))
	cancelled := withWindow(domain.StateCancelled, now.Add(-time.Hour), now.Add(time.Hour))
	repo := newMemRepo(pending, cancelled)
	advancer, _, _ := newAdvancer(repo, now)

	assert.Zero(t, advancer.Sweep(context.Background()))
	got, _ := repo.get(pending.ID)
	assert.Equal(t, domain.StatePending, got.State)
}

func TestAdvancer_FailureIsCountedAndRetried(t *testing.T) {
	broken := withWindow(domain.StateConfirmed, now.Add(-time.Minute), now.Add(time.Hour))
	fine := withWindow(domain.StateConfirmed, now.Add(-time.Minute), now.Add(time.Hour))
	repo := newMemRepo(broken, fine)
	repo.failIDs[broken.ID] = true
	advancer, _, m := newAdvancer(repo, now)

	assert.Equal(t, 1, advancer.Sweep(context.Background()))
	assert.Equal(t, 1, m.failures[workerAdvancer])

	delete(repo.failIDs, broken.ID)
	assert.Equal(t, 1, advancer.Sweep(context.Background()))
	got, _ := repo.get(broken.ID)
	assert.Equal(t, domain.StateInProgress, got.State)
}

func TestScheduler_StopsOnCancel(t *testing.T) {
	s := New(newMemRepo(), nil, nil, testConfig, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.Wait() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
