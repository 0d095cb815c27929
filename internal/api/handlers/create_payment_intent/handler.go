package create_payment_intent

import (
	"errors"
	"net/http"

	"github.com/m04kA/SessionBookingService/internal/api/handlers"
	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	createIntent "github.com/m04kA/SessionBookingService/internal/usecase/create_payment_intent"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "бронирование не найдено"
	msgForbidden         = "оплатить бронирование может только его клиент"
	msgInvalidTransition = "оплатить можно только бронирование в статусе pending"
	msgNotPayable        = "у практика нет счета для выплат"
	msgAmountMismatch    = "сумма платежа не совпадает с ценой бронирования"
	msgProviderError     = "ошибка платежного провайдера"
	msgInvalidInput      = "цена бронирования не может быть оплачена"
)

type Handler struct {
	useCase CreatePaymentIntentUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentIntentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment-intent
// Повторный вызов возвращает уже созданное намерение (200 вместо 201)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment-intent - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment-intent - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createIntent.Request{
		BookingID: bookingID,
		SeekerID:  userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, createIntent.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment-intent - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createIntent.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment-intent - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createIntent.ErrInvalidTransition):
			h.logger.Warn("POST /bookings/{id}/payment-intent - Booking not pending: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, createIntent.ErrPractitionerNotPayable):
			h.logger.Warn("POST /bookings/{id}/payment-intent - Practitioner not payable: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNotPayable)

		case errors.Is(err, createIntent.ErrAmountMismatch):
			h.logger.Error("POST /bookings/{id}/payment-intent - Amount mismatch: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgAmountMismatch)

		case errors.Is(err, createIntent.ErrPaymentProvider):
			h.logger.Error("POST /bookings/{id}/payment-intent - Provider error: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgProviderError)

		case errors.Is(err, createIntent.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/payment-intent - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/payment-intent - Failed to create intent: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Reused {
		status = http.StatusOK
	}

	h.logger.Info("POST /bookings/{id}/payment-intent - Intent ready: intent_id=%d, booking_id=%d, reused=%t",
		result.IntentID, bookingID, result.Reused)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
