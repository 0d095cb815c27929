package request_refund

import "errors"

var (
	// ErrTransactionNotFound возвращается, когда платежная транзакция не найдена
	ErrTransactionNotFound = errors.New("request_refund: payment transaction not found")

	// ErrAccessDenied возвращается, когда возврат запрашивает не практик бронирования
	ErrAccessDenied = errors.New("request_refund: only the booking's practitioner may issue a refund")

	// ErrRefundExceedsBalance возвращается, когда сумма больше остатка (total_amount - уже возвращено).
	// Проверяется до обращения к провайдеру.
	ErrRefundExceedsBalance = errors.New("request_refund: refund exceeds refundable balance")

	// ErrRefundFailed возвращается, когда провайдер не принял возврат
	ErrRefundFailed = errors.New("request_refund: payment provider did not accept the refund")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_refund: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_refund: internal error")
)
