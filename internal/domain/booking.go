package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingState represents the lifecycle state of a booking
type BookingState string

const (
	StatePending    BookingState = "pending"
	StateConfirmed  BookingState = "confirmed"
	StateInProgress BookingState = "in_progress"
	StateCompleted  BookingState = "completed"
	StateCancelled  BookingState = "cancelled"
)

// ParseBookingState проверяет, что строка является известным состоянием
func ParseBookingState(s string) (BookingState, error) {
	switch st := BookingState(s); st {
	case StatePending, StateConfirmed, StateInProgress, StateCompleted, StateCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBookingState, s)
	}
}

// IsTerminal returns true for completed and cancelled
func (s BookingState) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// OccupiesCourt returns true if a booking in this state holds its window on the court
func (s BookingState) OccupiesCourt() bool {
	return s == StatePending || s == StateConfirmed || s == StateInProgress
}

// BookingEvent событие, переводящее бронирование в другое состояние
type BookingEvent string

const (
	EventPaymentConfirmed BookingEvent = "payment_confirmed"
	EventPaymentTimeout   BookingEvent = "payment_timeout"
	EventCancelRequested  BookingEvent = "cancel_requested"
	EventWindowEntered    BookingEvent = "window_entered"
	EventWindowExited     BookingEvent = "window_exited"
)

type transitionKey struct {
	from  BookingState
	event BookingEvent
}

// transitions полная таблица допустимых переходов; всё остальное - ErrInvalidTransition
var transitions = map[transitionKey]BookingState{
	{StatePending, EventPaymentConfirmed}:  StateConfirmed,
	{StatePending, EventPaymentTimeout}:    StateCancelled,
	{StatePending, EventCancelRequested}:   StateCancelled,
	{StateConfirmed, EventWindowEntered}:   StateInProgress,
	{StateConfirmed, EventCancelRequested}: StateCancelled,
	{StateInProgress, EventWindowExited}:   StateCompleted,
}

// Transition returns the state reached from `from` on `event`
func Transition(from BookingState, event BookingEvent) (BookingState, error) {
	to, ok := transitions[transitionKey{from: from, event: event}]
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
	}
	return to, nil
}

// CancellationReason причина отмены
type CancellationReason string

const (
	CancelReasonPaymentTimeout CancellationReason = "payment_timeout"
	CancelReasonUser           CancellationReason = "cancelled_by_user"
	CancelReasonManager        CancellationReason = "cancelled_by_manager"
)

// Booking бронирование корта на одно окно
type Booking struct {
	ID                 uuid.UUID
	CourtID            uuid.UUID
	UserID             uuid.UUID
	Window             TimeWindow
	State              BookingState
	PaymentReference   *string
	TotalPrice         float64
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Apply переводит бронирование по событию, не трогая хранилище
func (b *Booking) Apply(event BookingEvent, now time.Time) error {
	to, err := Transition(b.State, event)
	if err != nil {
		return err
	}
	b.State = to
	b.UpdatedAt = now
	return nil
}

// NextTimedEvent событие, которое наступило к моменту now по одному лишь времени
// confirmed -> window_entered, когда now >= Start (в том числе с опозданием)
// in_progress -> window_exited, когда now >= End
// Для остальных состояний событий по времени нет.
func (b *Booking) NextTimedEvent(now time.Time) (BookingEvent, bool) {
	switch b.State {
	case StateConfirmed:
		if !now.Before(b.Window.Start) {
			return EventWindowEntered, true
		}
	case StateInProgress:
		if !now.Before(b.Window.End) {
			return EventWindowExited, true
		}
	}
	return "", false
}

// IsPaymentExpired returns true if a pending booking is older than grace
func (b *Booking) IsPaymentExpired(now time.Time, grace time.Duration) bool {
	return b.State == StatePending && now.Sub(b.CreatedAt) > grace
}

// CanBeCancelled returns true if cancel_requested is legal now
func (b *Booking) CanBeCancelled() bool {
	_, err := Transition(b.State, EventCancelRequested)
	return err == nil
}

// CourtBookingsFilter фильтр для получения бронирований корта
type CourtBookingsFilter struct {
	CourtID uuid.UUID     // Обязательный параметр
	From    *time.Time    // Окна, заканчивающиеся после From
	To      *time.Time    // Окна, начинающиеся до To
	State   *BookingState // Фильтр по состоянию (опционально)
}
