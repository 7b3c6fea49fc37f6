package availability

import "errors"

var (
	// ErrResourceLocked корт административно заблокирован
	ErrResourceLocked = errors.New("availability: court is locked")

	// ErrInvalidWindow окно некорректно, в прошлом или занимает больше одного дня
	ErrInvalidWindow = errors.New("availability: invalid booking window")

	// ErrResourceClosed корт не работает в этот день недели
	ErrResourceClosed = errors.New("availability: court is closed on this day")

	// ErrOutsideOperatingHours окно выходит за часы работы
	ErrOutsideOperatingHours = errors.New("availability: window is outside operating hours")

	// ErrBookingConflict окно пересекается с существующим бронированием
	ErrBookingConflict = errors.New("availability: window overlaps an existing booking")

	// ErrBlackoutConflict окно пересекается с периодом недоступности
	ErrBlackoutConflict = errors.New("availability: window overlaps a blackout period")
)
