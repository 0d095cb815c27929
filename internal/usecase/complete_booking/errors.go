package complete_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("complete_booking: booking not found")

	// ErrAccessDenied возвращается, когда посещаемость отмечает не практик бронирования
	ErrAccessDenied = errors.New("complete_booking: only the booking's practitioner may mark attendance")

	// ErrInvalidTransition возвращается, когда бронирование не в статусе confirmed
	ErrInvalidTransition = errors.New("complete_booking: only a confirmed booking can be completed")

	// ErrSessionNotElapsed возвращается, когда сессия еще не закончилась
	ErrSessionNotElapsed = errors.New("complete_booking: session has not ended yet")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("complete_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_booking: internal error")
)
