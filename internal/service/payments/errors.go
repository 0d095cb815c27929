package payments

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("service.payments: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не является участником бронирования
	ErrAccessDenied = errors.New("service.payments: access denied, only the seeker or the practitioner of a booking may read its payment")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service.payments: internal error")
)
