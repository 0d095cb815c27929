package publish_slot

import (
	"context"

	"github.com/m04kA/SessionBookingService/internal/service/slots/models"
)

type SlotService interface {
	Publish(ctx context.Context, req *models.PublishSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
