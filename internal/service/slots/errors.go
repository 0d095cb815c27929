package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("service.slots: slot not found")

	// ErrOfferingNotFound возвращается, когда услуга не найдена
	ErrOfferingNotFound = errors.New("service.slots: offering not found")

	// ErrAccessDenied возвращается, когда пользователь не является владельцем слота
	ErrAccessDenied = errors.New("service.slots: access denied, only the practitioner who published a slot may change it")

	// ErrSlotNotDeletable возвращается при попытке удалить слот с бронированиями
	ErrSlotNotDeletable = errors.New("service.slots: slot can only be deleted while it has no bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("service.slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service.slots: internal error")
)
