package payment

import "errors"

var (
	// ErrIntentNotFound платежное намерение не найдено
	ErrIntentNotFound = errors.New("payment.repository: payment intent not found")

	// ErrIntentExists для бронирования уже создано платежное намерение
	ErrIntentExists = errors.New("payment.repository: payment intent already exists for booking")

	// ErrIntentStatusConflict статус намерения уже изменен другим процессом
	ErrIntentStatusConflict = errors.New("payment.repository: payment intent status changed concurrently")

	// ErrTransactionNotFound транзакция не найдена
	ErrTransactionNotFound = errors.New("payment.repository: transaction not found")

	// ErrTransactionExists для намерения уже записана транзакция
	ErrTransactionExists = errors.New("payment.repository: transaction already recorded for intent")

	// ErrRefundExceedsBalance сумма возвратов превысила бы сумму транзакции
	ErrRefundExceedsBalance = errors.New("payment.repository: refund exceeds refundable balance")

	// ErrRefundNotFound возврат не найден или уже не в статусе pending
	ErrRefundNotFound = errors.New("payment.repository: pending refund not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
