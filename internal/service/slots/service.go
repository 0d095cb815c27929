package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
	slotRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SessionBookingService/internal/integrations/offeringservice"
	"github.com/m04kA/SessionBookingService/internal/service/slots/models"
)

// Service сервис публикации и чтения слотов практика
type Service struct {
	slotRepo       SlotRepository
	offeringClient OfferingClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	offeringClient OfferingClient,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:       slotRepo,
		offeringClient: offeringClient,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider устанавливает кастомный провайдер времени (для тестирования)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Publish публикует новый слот
// Публиковать слоты может только сам практик; если указана услуга, она должна принадлежать ему
func (s *Service) Publish(ctx context.Context, req *models.PublishSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Publish: publishing slot for practitioner=%d, date=%s %s-%s by user=%d",
		req.PractitionerID, req.SlotDate, req.StartTime, req.EndTime, req.UserID)

	// 1. Проверяем права доступа
	if req.UserID != req.PractitionerID {
		s.logger.Warn("Publish: user=%d cannot publish slots for practitioner=%d", req.UserID, req.PractitionerID)
		return nil, ErrAccessDenied
	}

	// 2. Валидируем входные данные
	slot, err := s.validatePublish(req)
	if err != nil {
		s.logger.Warn("Publish: validation failed: %v", err)
		return nil, err
	}

	// 3. Если указана услуга, проверяем, что она принадлежит практику
	if req.ServiceOfferingID != nil {
		offering, err := s.offeringClient.GetOffering(ctx, *req.ServiceOfferingID)
		if err != nil {
			if errors.Is(err, offeringservice.ErrOfferingNotFound) {
				s.logger.Warn("Publish: offering id=%d not found", *req.ServiceOfferingID)
				return nil, ErrOfferingNotFound
			}
			s.logger.Error("Publish: failed to get offering id=%d: %v", *req.ServiceOfferingID, err)
			return nil, fmt.Errorf("%w: failed to get offering: %v", ErrInternal, err)
		}
		if offering.PractitionerID != req.PractitionerID {
			s.logger.Warn("Publish: offering id=%d does not belong to practitioner=%d", offering.ID, req.PractitionerID)
			return nil, fmt.Errorf("%w: offering belongs to another practitioner", ErrInvalidInput)
		}
	}

	// 4. Создаем слот
	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("Publish: repository error: %v", err)
		return nil, fmt.Errorf("%w: Publish - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Publish: successfully published slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// GetByID получает слот по ID
// Публичный метод - доступен всем
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SlotResponse, error) {
	s.logger.Info("GetByID: fetching slot id=%d", id)

	slot, err := s.getSlot(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSlot(slot), nil
}

// List получает слоты практика, опционально на конкретную дату
// Публичный метод - доступен всем
func (s *Service) List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("List: fetching slots for practitioner=%d, date=%v", req.PractitionerID, req.Date)

	slots, err := s.slotRepo.ListByPractitioner(ctx, req.PractitionerID, req.Date)
	if err != nil {
		s.logger.Error("List: repository error for practitioner=%d: %v", req.PractitionerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d slots for practitioner=%d", len(slots), req.PractitionerID)
	return models.FromDomainSlotList(slots), nil
}

// SetAvailability открывает или закрывает слот для новых бронирований
// Уже занятые места не освобождаются. Доступно только владельцу слота
func (s *Service) SetAvailability(ctx context.Context, req *models.SetAvailabilityRequest) (*models.SlotResponse, error) {
	s.logger.Info("SetAvailability: setting slot id=%d available=%t by user=%d", req.SlotID, req.IsAvailable, req.UserID)

	slot, err := s.getSlot(ctx, "SetAvailability", req.SlotID)
	if err != nil {
		return nil, err
	}

	if slot.PractitionerID != req.UserID {
		s.logger.Warn("SetAvailability: user=%d is not the owner of slot id=%d", req.UserID, req.SlotID)
		return nil, ErrAccessDenied
	}

	if err := s.slotRepo.SetAvailability(ctx, req.SlotID, req.IsAvailable); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("SetAvailability: repository error for slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: SetAvailability - repository error: %v", ErrInternal, err)
	}

	slot.IsAvailable = req.IsAvailable
	s.logger.Info("SetAvailability: slot id=%d is now available=%t", req.SlotID, req.IsAvailable)
	return models.FromDomainSlot(slot), nil
}

// Delete удаляет слот
// Удаление возможно, только пока в слоте нет бронирований; условие проверяется в самом DELETE
func (s *Service) Delete(ctx context.Context, slotID int64, userID int64) error {
	s.logger.Info("Delete: deleting slot id=%d by user=%d", slotID, userID)

	slot, err := s.getSlot(ctx, "Delete", slotID)
	if err != nil {
		return err
	}

	if slot.PractitionerID != userID {
		s.logger.Warn("Delete: user=%d is not the owner of slot id=%d", userID, slotID)
		return ErrAccessDenied
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			return ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrSlotNotDeletable):
			s.logger.Warn("Delete: slot id=%d still has bookings", slotID)
			return ErrSlotNotDeletable
		}
		s.logger.Error("Delete: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted slot id=%d", slotID)
	return nil
}

// Вспомогательные методы

func (s *Service) getSlot(ctx context.Context, op string, id int64) (*domain.TimeSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", op, id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return slot, nil
}

// validatePublish валидирует параметры слота и собирает domain модель
func (s *Service) validatePublish(req *models.PublishSlotRequest) (*domain.TimeSlot, error) {
	if req.PractitionerID <= 0 {
		return nil, fmt.Errorf("%w: practitionerID must be positive", ErrInvalidInput)
	}

	if req.MaxBookings < domain.MinSlotCapacity || req.MaxBookings > domain.MaxSlotCapacity {
		return nil, fmt.Errorf("%w: maxBookings must be between %d and %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}

	date, err := time.Parse(domain.DateFormat, req.SlotDate)
	if err != nil {
		return nil, fmt.Errorf("%w: slotDate must be YYYY-MM-DD", ErrInvalidInput)
	}

	start, err := time.Parse(domain.TimeFormat, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be HH:MM", ErrInvalidInput)
	}
	end, err := time.Parse(domain.TimeFormat, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime must be HH:MM", ErrInvalidInput)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	slot := req.ToDomainSlot(date)
	slotStart, err := slot.Start()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !slotStart.After(s.timeProvider.Now()) {
		return nil, fmt.Errorf("%w: slot must start in the future", ErrInvalidInput)
	}

	return slot, nil
}
