package complete_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
)

// UseCase use case отметки посещаемости: confirmed -> completed | no_show
type UseCase struct {
	bookingRepo  BookingRepository
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute отмечает, состоялась ли сессия
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteBooking: booking=%d, practitioner=%d, attended=%t", req.BookingID, req.PractitionerID, req.Attended)

	// 1. Валидация входных данных
	if req.BookingID <= 0 || req.PractitionerID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and practitionerID must be positive", ErrInvalidInput)
	}
	if req.SessionNotes != nil && len(*req.SessionNotes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: sessionNotes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CompleteBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CompleteBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Проверяем права и статус
	if booking.PractitionerID != req.PractitionerID {
		uc.logger.Warn("CompleteBooking: user=%d is not the practitioner of booking id=%d", req.PractitionerID, booking.ID)
		return nil, ErrAccessDenied
	}

	event := domain.EventAttended
	if !req.Attended {
		event = domain.EventNotAttended
	}
	to, err := domain.NextStatus(booking.Status, event)
	if err != nil {
		uc.logger.Warn("CompleteBooking: booking id=%d is %s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
	}

	// 4. Сессия должна закончиться
	now := uc.timeProvider.Now()
	end, err := booking.SessionEnd()
	if err != nil {
		uc.logger.Error("CompleteBooking: booking id=%d has invalid session window: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if now.Before(end) {
		uc.logger.Warn("CompleteBooking: session of booking id=%d ends at %s", booking.ID, end.Format("2006-01-02 15:04 MST"))
		return nil, ErrSessionNotElapsed
	}

	// 5. Переход защищен исходным статусом
	err = uc.bookingRepo.Transition(ctx, booking.ID, []domain.BookingStatus{booking.Status}, to,
		bookingRepo.TransitionUpdate{
			SessionNotes:  req.SessionNotes,
			MarkCompleted: true,
		})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			uc.logger.Warn("CompleteBooking: booking id=%d left status %s concurrently", booking.ID, booking.Status)
			return nil, fmt.Errorf("%w: booking is no longer %s", ErrInvalidTransition, booking.Status)
		}
		uc.logger.Error("CompleteBooking: failed to update booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingTransition(string(booking.Status), string(to))
	uc.logger.Info("CompleteBooking: booking id=%d is %s", booking.ID, to)

	return &Response{
		BookingID:   booking.ID,
		Status:      string(to),
		CompletedAt: now,
	}, nil
}
