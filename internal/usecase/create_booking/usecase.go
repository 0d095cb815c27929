package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
	slotRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/slot"
	offeringClient "github.com/m04kA/SessionBookingService/internal/integrations/offeringservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	slotRepo       SlotRepository
	offeringClient OfferingClient
	txManager      TransactionManager
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	offeringClient OfferingClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		slotRepo:       slotRepo,
		offeringClient: offeringClient,
		txManager:      txManager,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Резервирование места в слоте и вставка бронирования выполняются в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: seeker=%d, offering=%d, slot=%v",
		req.SeekerID, req.ServiceOfferingID, slotLabel(req.TimeSlotID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу и проверяем, что она активна
	offering, err := uc.offeringClient.GetOffering(ctx, req.ServiceOfferingID)
	if err != nil {
		if errors.Is(err, offeringClient.ErrOfferingNotFound) {
			uc.logger.Warn("CreateBooking: offering id=%d not found", req.ServiceOfferingID)
			return nil, ErrOfferingNotFound
		}
		uc.logger.Error("CreateBooking: failed to get offering id=%d: %v", req.ServiceOfferingID, err)
		return nil, fmt.Errorf("%w: failed to get offering: %v", ErrInternal, err)
	}

	if !offering.IsActive {
		uc.logger.Warn("CreateBooking: offering id=%d is inactive", offering.ID)
		return nil, ErrOfferingInactive
	}

	// 4. Собираем бронирование, цена фиксируется из услуги
	booking := &domain.Booking{
		SeekerID:          req.SeekerID,
		PractitionerID:    offering.PractitionerID,
		ServiceOfferingID: offering.ID,
		TimeSlotID:        req.TimeSlotID,
		SessionDate:       req.SessionDate,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Timezone:          req.Timezone,
		SessionType:       req.SessionType,
		Status:            domain.StatusPending,
		PaymentStatus:     domain.PaymentUnpaid,
		AgreedPrice:       offering.Price,
		Currency:          offering.Currency,
		PrepNotes:         req.PrepNotes,
	}
	if booking.SessionType == "" {
		booking.SessionType = domain.SessionRemote
	}

	if _, err := booking.AgreedPriceMinor(); err != nil {
		uc.logger.Error("CreateBooking: offering id=%d has unusable price %s: %v",
			offering.ID, offering.Price.String(), err)
		return nil, fmt.Errorf("%w: offering price: %v", ErrInternal, err)
	}

	// 5. Если указан слот, окно сессии берется из него
	if req.TimeSlotID != nil {
		slot, err := uc.slotRepo.GetByID(ctx, *req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", *req.TimeSlotID)
				return nil, ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", *req.TimeSlotID, err)
			return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if !slot.AcceptsOffering(offering.PractitionerID, offering.ID) {
			uc.logger.Warn("CreateBooking: slot id=%d (practitioner=%d) does not accept offering id=%d (practitioner=%d)",
				slot.ID, slot.PractitionerID, offering.ID, offering.PractitionerID)
			return nil, ErrSlotMismatch
		}

		booking.SessionDate = slot.SlotDate
		booking.StartTime = slot.StartTime
		booking.EndTime = slot.EndTime
		booking.Timezone = slot.Timezone
	}

	// 6. Сессия должна начинаться в будущем
	start, err := booking.SessionStart()
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid session window: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !start.After(now) {
		uc.logger.Warn("CreateBooking: session start %s is not in the future", start.Format("2006-01-02 15:04 MST"))
		return nil, ErrInvalidDate
	}

	var result *domain.Booking

	// 7. Резервируем место и сохраняем бронирование в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 7.1. Условное обновление счетчика слота
		if booking.TimeSlotID != nil {
			if err := uc.slotRepo.Reserve(txCtx, *booking.TimeSlotID); err != nil {
				if errors.Is(err, slotRepo.ErrSlotUnavailable) {
					uc.metrics.IncSlotReservation("unavailable")
					uc.logger.Warn("CreateBooking: slot id=%d is full or unavailable", *booking.TimeSlotID)
					return ErrSlotUnavailable
				}
				uc.logger.Error("CreateBooking: failed to reserve slot id=%d: %v", *booking.TimeSlotID, err)
				return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
			}
		}

		// 7.2. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	if result.TimeSlotID != nil {
		uc.metrics.IncSlotReservation("reserved")
	}
	uc.metrics.IncBookingsCreated()

	uc.logger.Info("CreateBooking: successfully created booking id=%d, agreed_price=%s %s",
		result.ID, result.AgreedPrice.StringFixed(2), result.Currency)

	return toResponse(result), nil
}

func slotLabel(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}
