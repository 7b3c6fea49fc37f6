package domain

// Slot grid limits
const (
	DefaultSlotDurationMinutes = 60
	MinSlotDurationMinutes     = 15
	MaxSlotDurationMinutes     = 480 // 8 hours
)

// Business validation constants
const (
	MaxCancellationReasonLength = 500
	MaxBlackoutReasonLength     = 500
	MaxPaymentReferenceLength   = 128
)

// Time format constants
const (
	TimeFormat          = "15:04"            // HH:MM
	DateFormat          = "2006-01-02"       // YYYY-MM-DD
	LocalDateTimeFormat = "2006-01-02T15:04" // локальное время без зоны
)

// OccupyingStates состояния, в которых бронирование занимает корт
var OccupyingStates = []BookingState{
	StatePending,
	StateConfirmed,
	StateInProgress,
}
