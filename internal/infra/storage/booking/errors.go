package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrBookingConflict возвращается, когда окно пересекается с занятым окном (exclusion constraint)
	ErrBookingConflict = errors.New("booking.repository: window overlaps an occupied window")

	// ErrStateChanged возвращается, когда бронирование не в ожидаемом состоянии (compare-and-set не сработал)
	ErrStateChanged = errors.New("booking.repository: booking is not in the expected state")

	// ErrCourtNotFound возвращается при нарушении внешнего ключа на корт
	ErrCourtNotFound = errors.New("booking.repository: court not found")

	// ErrTransaction возвращается, когда операция требует активной транзакции
	ErrTransaction = errors.New("booking.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
