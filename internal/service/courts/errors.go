package courts

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("courts: court not found")

	// ErrBlackoutNotFound возвращается, когда период недоступности не найден
	ErrBlackoutNotFound = errors.New("courts: blackout window not found")

	// ErrFacilityNotFound возвращается, когда площадка корта не найдена в FacilityService
	ErrFacilityNotFound = errors.New("courts: facility not found")

	// ErrAccessDenied возвращается, когда пользователь не менеджер площадки
	ErrAccessDenied = errors.New("courts: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("courts: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("courts: internal error")
)
