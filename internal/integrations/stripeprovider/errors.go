package stripeprovider

import "errors"

var (
	// ErrDeclined провайдер отклонил платеж (карта, лимиты, антифрод)
	ErrDeclined = errors.New("stripeprovider: payment declined")

	// ErrProvider провайдер недоступен или вернул непредвиденную ошибку
	ErrProvider = errors.New("stripeprovider: provider error")

	// ErrRefundRejected провайдер отклонил возврат
	ErrRefundRejected = errors.New("stripeprovider: refund rejected")
)
