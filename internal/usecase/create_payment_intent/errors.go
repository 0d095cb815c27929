package create_payment_intent

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("create_payment_intent: booking not found")

	// ErrAccessDenied возвращается, когда оплату начинает не искатель бронирования
	ErrAccessDenied = errors.New("create_payment_intent: booking belongs to another seeker")

	// ErrInvalidTransition возвращается, когда бронирование не в статусе pending
	ErrInvalidTransition = errors.New("create_payment_intent: only a pending booking can be paid")

	// ErrPractitionerNotPayable возвращается, когда у практика нет аккаунта для выплат
	ErrPractitionerNotPayable = errors.New("create_payment_intent: practitioner has no payable destination account")

	// ErrAmountMismatch сумма намерения не совпадает с зафиксированной ценой бронирования.
	// Ошибка согласованности, сумма никогда не подгоняется.
	ErrAmountMismatch = errors.New("create_payment_intent: payment amount does not match the booking's agreed price")

	// ErrPaymentProvider возвращается, когда провайдер не создал намерение
	ErrPaymentProvider = errors.New("create_payment_intent: payment provider error")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_payment_intent: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment_intent: internal error")
)
