package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotUnavailable возвращается, когда условное резервирование не изменило ни одной строки:
	// слот закрыт, заполнен или не существует
	ErrSlotUnavailable = errors.New("slot.repository: slot unavailable")

	// ErrSlotNotDeletable возвращается при попытке удалить слот с активными бронированиями
	ErrSlotNotDeletable = errors.New("slot.repository: slot has bookings")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
