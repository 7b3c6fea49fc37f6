package create_booking

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("create_booking: court not found")

	// ErrResourceLocked возвращается, когда корт заблокирован
	ErrResourceLocked = errors.New("create_booking: court is locked")

	// ErrInvalidWindow возвращается для перевёрнутого окна, окна в прошлом или на несколько дней
	ErrInvalidWindow = errors.New("create_booking: invalid booking window")

	// ErrResourceClosed возвращается, когда корт не работает в этот день
	ErrResourceClosed = errors.New("create_booking: court is closed on this day")

	// ErrOutsideOperatingHours возвращается, когда окно выходит за часы работы
	ErrOutsideOperatingHours = errors.New("create_booking: window is outside operating hours")

	// ErrBookingConflict возвращается, когда окно пересекается с другим бронированием
	ErrBookingConflict = errors.New("create_booking: window overlaps an existing booking")

	// ErrBlackoutConflict возвращается, когда окно пересекается с периодом недоступности
	ErrBlackoutConflict = errors.New("create_booking: window overlaps a blackout period")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrPersistenceFailure возвращается при ошибке хранилища; запрос можно повторить
	ErrPersistenceFailure = errors.New("create_booking: persistence failure, retry the request")
)
