package publish_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SessionBookingService/internal/api/handlers"
	"github.com/m04kA/SessionBookingService/internal/api/middleware"
	"github.com/m04kA/SessionBookingService/internal/service/slots"
)

const (
	msgInvalidPractitionerID = "некорректный ID практика"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgForbidden             = "публиковать слоты может только сам практик"
	msgOfferingNotFound      = "услуга практика не найдена"
	msgInvalidSlot           = "некорректный слот: время окончания после начала, вместимость от 1 до 100, дата в будущем"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/practitioners/{practitionerId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	practitionerID, err := handlers.PathInt64(r, "practitionerId")
	if err != nil {
		h.logger.Warn("POST /practitioners/{id}/slots - Invalid practitioner ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPractitionerID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /practitioners/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req PublishSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /practitioners/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.service.Publish(r.Context(), req.ToServiceRequest(practitionerID, userID))
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("POST /practitioners/{id}/slots - Access denied: practitioner_id=%d, user_id=%d",
				practitionerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrOfferingNotFound):
			h.logger.Warn("POST /practitioners/{id}/slots - Offering not found: practitioner_id=%d", practitionerID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /practitioners/{id}/slots - Invalid slot: practitioner_id=%d, error=%v", practitionerID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		default:
			h.logger.Error("POST /practitioners/{id}/slots - Failed to publish slot: practitioner_id=%d, error=%v",
				practitionerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /practitioners/{id}/slots - Slot published: slot_id=%d, practitioner_id=%d", slot.ID, practitionerID)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
