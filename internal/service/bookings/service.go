package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	reviewRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/review"
	"github.com/m04kA/SessionBookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	reviewRepo  ReviewRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, reviewRepo ReviewRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование могут только его ищущий и практик.
// Для завершенного бронирования в ответ добавляется отзыв, если он оставлен
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !booking.BelongsTo(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	resp := models.FromDomainBooking(booking)

	if booking.Status == domain.StatusCompleted {
		review, err := s.reviewRepo.GetByBookingID(ctx, id)
		switch {
		case err == nil:
			resp.Review = models.FromDomainReview(review)
		case errors.Is(err, reviewRepo.ErrReviewNotFound):
		default:
			s.logger.Error("GetByID: failed to get review for booking id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: GetByID - review repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return resp, nil
}

// GetSeekerBookings получает историю бронирований ищущего
// Опционально фильтрует по статусу. Пользователь видит только свои бронирования
func (s *Service) GetSeekerBookings(ctx context.Context, req *models.GetSeekerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetSeekerBookings: fetching bookings for seeker=%d, status=%v", req.SeekerID, req.Status)

	if req.UserID != req.SeekerID {
		s.logger.Warn("GetSeekerBookings: user=%d tried to read bookings of seeker=%d", req.UserID, req.SeekerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetSeekerBookings: invalid status=%s for seeker=%d", *req.Status, req.SeekerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.ListBySeeker(ctx, req.SeekerID, domainStatus)
	if err != nil {
		s.logger.Error("GetSeekerBookings: repository error for seeker=%d: %v", req.SeekerID, err)
		return nil, fmt.Errorf("%w: GetSeekerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSeekerBookings: successfully fetched %d bookings for seeker=%d", len(bookings), req.SeekerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetPractitionerBookings получает бронирования практика с фильтрацией по периоду и статусу
// Доступно только самому практику
//
// Примеры использования:
// - Все бронирования: GetPractitionerBookings(ctx, &GetPractitionerBookingsRequest{PractitionerID: 7, UserID: 7})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Только подтвержденные: Status = "confirmed"
func (s *Service) GetPractitionerBookings(ctx context.Context, req *models.GetPractitionerBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetPractitionerBookings: fetching bookings for practitioner=%d, user=%d", req.PractitionerID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.UserID != req.PractitionerID {
		s.logger.Warn("GetPractitionerBookings: user=%d tried to read bookings of practitioner=%d", req.UserID, req.PractitionerID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetPractitionerBookings: invalid filter for practitioner=%d: %v", req.PractitionerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.ListByPractitioner(ctx, filter)
	if err != nil {
		s.logger.Error("GetPractitionerBookings: repository error for practitioner=%d: %v", req.PractitionerID, err)
		return nil, fmt.Errorf("%w: GetPractitionerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPractitionerBookings: successfully fetched %d bookings for practitioner=%d", len(bookings), req.PractitionerID)
	return models.FromDomainBookingList(bookings), nil
}
