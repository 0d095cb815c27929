package confirm_payment

import "errors"

var (
	// ErrIntentNotFound возвращается, когда платежное намерение не найдено
	ErrIntentNotFound = errors.New("confirm_payment: payment intent not found")

	// ErrAccessDenied возвращается, когда подтверждает не искатель бронирования
	ErrAccessDenied = errors.New("confirm_payment: booking belongs to another seeker")

	// ErrIntentClosed возвращается, когда намерение уже отклонено или отменено
	ErrIntentClosed = errors.New("confirm_payment: payment intent is failed or canceled, create a new booking")

	// ErrInvalidTransition возвращается, когда бронирование не в статусе pending
	ErrInvalidTransition = errors.New("confirm_payment: only a pending booking can be paid")

	// ErrPaymentDeclined возвращается при отказе в оплате. Бронирование переходит в payment_failed, слот освобождается.
	ErrPaymentDeclined = errors.New("confirm_payment: payment declined, slot released")

	// ErrPaymentProvider возвращается при недоступности провайдера. Бронирование переходит в payment_failed.
	ErrPaymentProvider = errors.New("confirm_payment: payment provider error, slot released")

	// ErrAmountMismatch сумма у провайдера не совпадает с ценой бронирования. Ошибка согласованности.
	ErrAmountMismatch = errors.New("confirm_payment: payment amount does not match the booking's agreed price")

	// ErrBookingNoLongerPending оплата прошла после отмены бронирования, платеж возвращается автоматически
	ErrBookingNoLongerPending = errors.New("confirm_payment: booking was cancelled before payment completed, payment refunded")

	// ErrLateRefundFailed автоматический возврат поздней оплаты не принят провайдером
	ErrLateRefundFailed = errors.New("confirm_payment: automatic refund of late payment failed")

	// ErrProviderLookup не удалось получить состояние намерения у провайдера
	ErrProviderLookup = errors.New("confirm_payment: failed to retrieve payment state from provider")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
