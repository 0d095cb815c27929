package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не является участником бронирования
	ErrAccessDenied = errors.New("cancel_booking: only the seeker or the practitioner may cancel the booking")

	// ErrInvalidTransition возвращается, когда бронирование в текущем статусе нельзя отменить
	ErrInvalidTransition = errors.New("cancel_booking: booking cannot be cancelled in its current status")

	// ErrRefundFailed возвращается, когда провайдер не принял возврат.
	// Бронирование остается в статусе cancelling, повторная отмена продолжит с возврата.
	ErrRefundFailed = errors.New("cancel_booking: refund not accepted, booking remains cancelling")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
