package request_refund

import (
	"errors"
	"net/http"

	"github.com/m04kA/SessionBookingService/internal/api/handlers"
	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	requestRefund "github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
)

const (
	msgInvalidTransactionID = "некорректный ID транзакции"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "транзакция не найдена"
	msgForbidden            = "возврат может оформить только практик бронирования"
	msgExceedsBalance       = "сумма возврата превышает доступный остаток"
	msgRefundFailed         = "платежный провайдер не принял возврат"
	msgInvalidInput         = "сумма возврата должна быть положительной"
)

type Handler struct {
	useCase RequestRefundUseCase
	logger  Logger
}

func NewHandler(useCase RequestRefundUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/transactions/{transactionId}/refunds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	transactionID, err := handlers.PathInt64(r, "transactionId")
	if err != nil {
		h.logger.Warn("POST /transactions/{id}/refunds - Invalid transaction ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTransactionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /transactions/{id}/refunds - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RequestRefundRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /transactions/{id}/refunds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(transactionID, userID))
	if err != nil {
		switch {
		case errors.Is(err, requestRefund.ErrTransactionNotFound):
			h.logger.Warn("POST /transactions/{id}/refunds - Transaction not found: transaction_id=%d", transactionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requestRefund.ErrAccessDenied):
			h.logger.Warn("POST /transactions/{id}/refunds - Access denied: transaction_id=%d, user_id=%d",
				transactionID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requestRefund.ErrRefundExceedsBalance):
			h.logger.Warn("POST /transactions/{id}/refunds - Exceeds balance: transaction_id=%d", transactionID)
			handlers.RespondConflict(w, msgExceedsBalance)

		case errors.Is(err, requestRefund.ErrRefundFailed):
			h.logger.Error("POST /transactions/{id}/refunds - Provider rejected refund: transaction_id=%d, error=%v",
				transactionID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgRefundFailed)

		case errors.Is(err, requestRefund.ErrInvalidInput):
			h.logger.Warn("POST /transactions/{id}/refunds - Invalid input: transaction_id=%d, error=%v", transactionID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /transactions/{id}/refunds - Failed to refund: transaction_id=%d, error=%v",
				transactionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /transactions/{id}/refunds - Refund issued: refund_id=%d, transaction_id=%d, amount=%d",
		result.RefundID, transactionID, result.Amount)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
