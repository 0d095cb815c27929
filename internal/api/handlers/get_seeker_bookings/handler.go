package get_seeker_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SessionBookingService/internal/api/handlers"
	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/service/bookings"
	"github.com/m04kA/SessionBookingService/internal/service/bookings/models"
)

const (
	msgInvalidSeekerID = "некорректный ID клиента"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "можно просматривать только свои бронирования"
	msgInvalidStatus   = "некорректный статус бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/seekers/{seekerId}/bookings
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seekerID, err := handlers.PathInt64(r, "seekerId")
	if err != nil {
		h.logger.Warn("GET /seekers/{id}/bookings - Invalid seeker ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSeekerID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /seekers/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.GetSeekerBookingsRequest{
		UserID:   userID,
		SeekerID: seekerID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetSeekerBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /seekers/{id}/bookings - Access denied: seeker_id=%d, user_id=%d", seekerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /seekers/{id}/bookings - Invalid status: seeker_id=%d, error=%v", seekerID, err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /seekers/{id}/bookings - Failed to get bookings: seeker_id=%d, error=%v", seekerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
