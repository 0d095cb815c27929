package create_booking

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда услуга не найдена
	ErrOfferingNotFound = errors.New("create_booking: service offering not found")

	// ErrOfferingInactive возвращается, когда услуга снята с продажи
	ErrOfferingInactive = errors.New("create_booking: service offering is not active")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("create_booking: time slot not found")

	// ErrSlotUnavailable возвращается, когда слот заполнен или выключен. Повторно не выполняется.
	ErrSlotUnavailable = errors.New("create_booking: time slot is full or unavailable")

	// ErrSlotMismatch возвращается, когда слот принадлежит другому практику или другой услуге
	ErrSlotMismatch = errors.New("create_booking: time slot does not belong to the offering's practitioner")

	// ErrInvalidDate возвращается, когда сессия начинается в прошлом
	ErrInvalidDate = errors.New("create_booking: session must start in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
