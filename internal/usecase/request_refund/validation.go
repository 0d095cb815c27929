package request_refund

import (
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TransactionID <= 0 {
		return fmt.Errorf("%w: transactionID must be positive", ErrInvalidInput)
	}

	if !req.System && req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if req.Amount != nil && *req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxRefundReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxRefundReasonLength)
	}

	return nil
}
