package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SessionBookingService/internal/service/payments/models"
)

// Service сервис чтения платежного состояния бронирований
type Service struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(bookingRepo BookingRepository, paymentRepo PaymentRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// GetBookingPayment возвращает намерение, транзакцию и возвраты бронирования
// Отсутствие намерения или транзакции не ошибка: бронирование могло еще не оплачиваться
func (s *Service) GetBookingPayment(ctx context.Context, bookingID int64, userID int64) (*models.BookingPaymentResponse, error) {
	s.logger.Info("GetBookingPayment: fetching payment of booking id=%d for user=%d", bookingID, userID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetBookingPayment: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetBookingPayment: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetBookingPayment - booking repository error: %v", ErrInternal, err)
	}

	if !booking.BelongsTo(userID) {
		s.logger.Warn("GetBookingPayment: access denied for user=%d to booking id=%d", userID, bookingID)
		return nil, ErrAccessDenied
	}

	intent, err := s.paymentRepo.GetIntentByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, paymentRepo.ErrIntentNotFound) {
		s.logger.Error("GetBookingPayment: failed to get intent of booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetBookingPayment - intent: %v", ErrInternal, err)
	}

	txn, err := s.paymentRepo.GetTransactionByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, paymentRepo.ErrTransactionNotFound) {
		s.logger.Error("GetBookingPayment: failed to get transaction of booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetBookingPayment - transaction: %v", ErrInternal, err)
	}

	var refunds []*domain.PaymentRefund
	if txn != nil {
		refunds, err = s.paymentRepo.ListRefundsByTransaction(ctx, txn.ID)
		if err != nil {
			s.logger.Error("GetBookingPayment: failed to list refunds of transaction id=%d: %v", txn.ID, err)
			return nil, fmt.Errorf("%w: GetBookingPayment - refunds: %v", ErrInternal, err)
		}
	}

	return models.FromDomain(booking, intent, txn, refunds), nil
}
