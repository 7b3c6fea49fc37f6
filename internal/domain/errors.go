package domain

import "errors"

var (
	// ErrInvalidWindow окно пустое или перевёрнутое (start >= end)
	ErrInvalidWindow = errors.New("domain: invalid time window")

	// ErrInvalidTransition событие недопустимо в текущем состоянии бронирования
	ErrInvalidTransition = errors.New("domain: invalid booking state transition")

	// ErrInvalidOperatingHours часы работы заданы некорректно (например From == To)
	ErrInvalidOperatingHours = errors.New("domain: invalid operating hours")

	// ErrUnknownBookingState неизвестное значение состояния
	ErrUnknownBookingState = errors.New("domain: unknown booking state")
)
