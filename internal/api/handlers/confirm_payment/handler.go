package confirm_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SessionBookingService/internal/api/handlers"
	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	confirmPayment "github.com/m04kA/SessionBookingService/internal/usecase/confirm_payment"
)

const (
	msgInvalidIntentID    = "некорректный ID платежного намерения"
	msgInvalidRequestBody = "некорректное тело запроса, ожидается paymentMethodId"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "платежное намерение не найдено"
	msgForbidden          = "подтвердить оплату может только клиент бронирования"
	msgIntentClosed       = "платежное намерение закрыто, создайте новое бронирование"
	msgInvalidTransition  = "оплатить можно только бронирование в статусе pending"
	msgPaymentDeclined    = "платеж отклонен, слот освобожден"
	msgProviderError      = "ошибка платежного провайдера, слот освобожден"
	msgAmountMismatch     = "сумма платежа не совпадает с ценой бронирования"
	msgNoLongerPending    = "бронирование отменено до завершения оплаты, платеж возвращен"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payment-intents/{intentId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	intentID, err := handlers.PathInt64(r, "intentId")
	if err != nil {
		h.logger.Warn("POST /payment-intents/{id}/confirm - Invalid intent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIntentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /payment-intents/{id}/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ConfirmPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payment-intents/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(intentID, userID))
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrIntentNotFound):
			h.logger.Warn("POST /payment-intents/{id}/confirm - Intent not found: intent_id=%d", intentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmPayment.ErrAccessDenied):
			h.logger.Warn("POST /payment-intents/{id}/confirm - Access denied: intent_id=%d, user_id=%d", intentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmPayment.ErrIntentClosed):
			h.logger.Warn("POST /payment-intents/{id}/confirm - Intent closed: intent_id=%d", intentID)
			handlers.RespondConflict(w, msgIntentClosed)

		case errors.Is(err, confirmPayment.ErrInvalidTransition):
			h.logger.Warn("POST /payment-intents/{id}/confirm - Booking not pending: intent_id=%d", intentID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, confirmPayment.ErrBookingNoLongerPending):
			h.logger.Warn("POST /payment-intents/{id}/confirm - Late payment refunded: intent_id=%d, error=%v", intentID, err)
			handlers.RespondConflict(w, msgNoLongerPending)

		case errors.Is(err, confirmPayment.ErrPaymentDeclined):
			h.logger.Warn("POST /payment-intents/{id}/confirm - Payment declined: intent_id=%d", intentID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentDeclined)

		case errors.Is(err, confirmPayment.ErrPaymentProvider):
			h.logger.Error("POST /payment-intents/{id}/confirm - Provider error: intent_id=%d, error=%v", intentID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgProviderError)

		case errors.Is(err, confirmPayment.ErrAmountMismatch):
			h.logger.Error("POST /payment-intents/{id}/confirm - Amount mismatch: intent_id=%d, error=%v", intentID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgAmountMismatch)

		case errors.Is(err, confirmPayment.ErrInvalidInput):
			h.logger.Warn("POST /payment-intents/{id}/confirm - Invalid input: intent_id=%d, error=%v", intentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payment-intents/{id}/confirm - Failed to confirm payment: intent_id=%d, error=%v",
				intentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payment-intents/{id}/confirm - Payment confirmed: intent_id=%d, booking_id=%d, booking_status=%s",
		intentID, result.BookingID, result.BookingStatus)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
