package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/integrations/offeringservice"
)

// UseCase use case для получения свободных слотов услуги на дату
type UseCase struct {
	slotRepo       SlotRepository
	offeringClient OfferingClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	offeringClient OfferingClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:       slotRepo,
		offeringClient: offeringClient,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider устанавливает кастомный провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: offering=%d, date=%s", req.ServiceOfferingID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Валидация даты
	if err := validateDate(req.Date, now, domain.MaxAdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем услугу: по ней определяется практик
	offering, err := uc.offeringClient.GetOffering(ctx, req.ServiceOfferingID)
	if err != nil {
		if errors.Is(err, offeringservice.ErrOfferingNotFound) {
			uc.logger.Warn("GetAvailableSlots: offering id=%d not found", req.ServiceOfferingID)
			return nil, ErrOfferingNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get offering id=%d: %v", req.ServiceOfferingID, err)
		return nil, fmt.Errorf("%w: failed to get offering: %v", ErrInternal, err)
	}
	if !offering.IsActive {
		uc.logger.Warn("GetAvailableSlots: offering id=%d is inactive", offering.ID)
		return nil, ErrOfferingInactive
	}

	// 4. Получаем слоты практика на дату
	slots, err := uc.slotRepo.ListByPractitioner(ctx, offering.PractitionerID, &req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots for practitioner=%d: %v", offering.PractitionerID, err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 5. Оставляем только те, в которые можно записаться на эту услугу
	available := filterBookable(slots, offering, now)

	uc.logger.Info("GetAvailableSlots: %d of %d slots bookable for offering=%d, date=%s",
		len(available), len(slots), offering.ID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:              req.Date,
		ServiceOfferingID: offering.ID,
		PractitionerID:    offering.PractitionerID,
		Slots:             available,
	}, nil
}
