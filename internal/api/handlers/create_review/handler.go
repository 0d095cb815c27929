package create_review

import (
	"errors"
	"net/http"

	"github.com/m04kA/SessionBookingService/internal/api/handlers"
	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	createReview "github.com/m04kA/SessionBookingService/internal/usecase/create_review"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgNotEligible        = "оставить отзыв может только клиент завершенного бронирования"
	msgReviewExists       = "отзыв на это бронирование уже оставлен"
	msgInvalidInput       = "оценка должна быть от 1 до 5"
)

type Handler struct {
	useCase CreateReviewUseCase
	logger  Logger
}

func NewHandler(useCase CreateReviewUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/review - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, userID))
	if err != nil {
		switch {
		case errors.Is(err, createReview.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/review - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createReview.ErrNotEligible):
			h.logger.Warn("POST /bookings/{id}/review - Not eligible: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNotEligible)

		case errors.Is(err, createReview.ErrReviewExists):
			h.logger.Warn("POST /bookings/{id}/review - Review exists: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgReviewExists)

		case errors.Is(err, createReview.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/review - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/review - Failed to create review: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/review - Review created: review_id=%d, booking_id=%d", result.ID, bookingID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
