package offeringservice

import "errors"

var (
	// ErrOfferingNotFound услуга не найдена
	ErrOfferingNotFound = errors.New("offering not found")

	// ErrPayoutAccountNotFound у практика нет подключенного аккаунта выплат
	ErrPayoutAccountNotFound = errors.New("practitioner payout account not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("offeringservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("offeringservice client: invalid response")
)
