package create_review

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	reviewRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/review"
)

// UseCase use case создания отзыва
type UseCase struct {
	bookingRepo BookingRepository
	reviewRepo  ReviewRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, reviewRepo ReviewRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		logger:      logger,
	}
}

// Execute создает отзыв. Единственность отзыва обеспечивает уникальный индекс по booking_id.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReview: booking=%d, reviewer=%d, rating=%d", req.BookingID, req.ReviewerID, req.Rating)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReview: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CreateReview: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CreateReview: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Проверяем право на отзыв
	if !booking.CanReview(req.ReviewerID) {
		uc.logger.Warn("CreateReview: user=%d may not review booking id=%d (status=%s)",
			req.ReviewerID, booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrNotEligible, booking.Status)
	}

	// 4. Сохраняем отзыв
	review, err := uc.reviewRepo.Create(ctx, &domain.Review{
		BookingID:      booking.ID,
		ReviewerID:     req.ReviewerID,
		PractitionerID: booking.PractitionerID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		if errors.Is(err, reviewRepo.ErrReviewExists) {
			uc.logger.Warn("CreateReview: booking id=%d already reviewed", booking.ID)
			return nil, ErrReviewExists
		}
		uc.logger.Error("CreateReview: failed to create review: %v", err)
		return nil, fmt.Errorf("%w: failed to create review: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateReview: review id=%d created for booking id=%d", review.ID, booking.ID)

	return &Response{
		ID:             review.ID,
		BookingID:      review.BookingID,
		ReviewerID:     review.ReviewerID,
		PractitionerID: review.PractitionerID,
		Rating:         review.Rating,
		Comment:        review.Comment,
		CreatedAt:      review.CreatedAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 || req.ReviewerID <= 0 {
		return fmt.Errorf("%w: bookingID and reviewerID must be positive", ErrInvalidInput)
	}

	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}

	if req.Comment != nil && len(*req.Comment) > domain.MaxReviewCommentLength {
		return fmt.Errorf("%w: comment must not exceed %d characters", ErrInvalidInput, domain.MaxReviewCommentLength)
	}

	return nil
}
