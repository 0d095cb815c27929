package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	paymentRepo PaymentRepository
	provider    PaymentProvider
	refunder    Refunder
	reconciler  Reconciler
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	paymentRepo PaymentRepository,
	provider PaymentProvider,
	refunder Refunder,
	reconciler Reconciler,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		paymentRepo: paymentRepo,
		provider:    provider,
		refunder:    refunder,
		reconciler:  reconciler,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет отмену бронирования.
// Без движения денег бронирование сразу переходит в cancelled.
// Если деньги списаны, бронирование сначала переходит в cancelling (слот освобождается),
// затем вне транзакции запрашивается возврат, и только после его принятия провайдером - cancelled.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%d, system=%t", req.BookingID, req.ActorID, req.System)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Определяем, кто отменяет
	actor, err := resolveActor(booking, req)
	if err != nil {
		uc.logger.Warn("CancelBooking: user=%d is not a participant of booking id=%d", req.ActorID, booking.ID)
		return nil, err
	}

	// 4. Проверяем, что отмену можно начать или продолжить
	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking id=%d is %s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
	}
	if req.ExpectedStatus != "" && booking.Status != req.ExpectedStatus {
		uc.logger.Warn("CancelBooking: booking id=%d is %s, expected %s", booking.ID, booking.Status, req.ExpectedStatus)
		return nil, fmt.Errorf("%w: booking is %s, expected %s", ErrInvalidTransition, booking.Status, req.ExpectedStatus)
	}

	// 5. Ищем проведенный платеж
	txn, err := uc.paymentRepo.GetTransactionByBookingID(ctx, booking.ID)
	if err != nil {
		if !errors.Is(err, paymentRepo.ErrTransactionNotFound) {
			uc.logger.Error("CancelBooking: failed to get transaction for booking id=%d: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: failed to get transaction: %v", ErrInternal, err)
		}
		txn = nil
	}

	var refund *request_refund.Response

	switch {
	case booking.Status == domain.StatusCancelling:
		// 6a. Отмена уже начата, продолжаем с возврата
		uc.logger.Info("CancelBooking: resuming cancellation of booking id=%d", booking.ID)
		if refund, err = uc.refundAndFinish(ctx, booking, txn, actor, req.Reason); err != nil {
			return nil, err
		}

	case txn != nil && txn.RefundableBalance() > 0 && !canCancelWithRefund(booking.Status):
		// 6b. Поздний платеж по payment_failed: возврат, затем cancelled
		if refund, err = uc.refundBalance(ctx, booking, txn, actor, req.Reason); err != nil {
			return nil, err
		}
		if err := uc.cancel(ctx, booking, actor, req.Reason); err != nil {
			return nil, err
		}

	case txn != nil && txn.RefundableBalance() > 0:
		// 6c. Деньги списаны: cancelling, возврат, cancelled
		if err := uc.beginCancelling(ctx, booking, actor, req.Reason); err != nil {
			return nil, err
		}
		if refund, err = uc.refundAndFinish(ctx, booking, txn, actor, req.Reason); err != nil {
			return nil, err
		}

	default:
		// 6d. Деньги не двигались
		if err := uc.cancel(ctx, booking, actor, req.Reason); err != nil {
			return nil, err
		}
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled by %s", booking.ID, actor)

	resp := &Response{
		BookingID:     booking.ID,
		Status:        string(domain.StatusCancelled),
		CancelledBy:   string(actor),
		PaymentStatus: string(booking.PaymentStatus),
	}
	if refund != nil {
		resp.RefundID = ptr.Ptr(refund.RefundID)
		resp.RefundedAmount = refund.Amount
	}
	if final, err := uc.bookingRepo.GetByID(ctx, booking.ID); err == nil {
		resp.PaymentStatus = string(final.PaymentStatus)
		if final.CancelledBy != nil {
			resp.CancelledBy = string(*final.CancelledBy)
		}
	}

	return resp, nil
}

// cancel переводит бронирование без платежа в cancelled, освобождает слот и закрывает открытое намерение
func (uc *UseCase) cancel(ctx context.Context, booking *domain.Booking, actor domain.Actor, reason string) error {
	from := booking.Status
	to, err := uc.nextStatus(booking.ID, from, domain.EventCancel)
	if err != nil {
		return err
	}

	intent, err := uc.paymentRepo.GetIntentByBookingID(ctx, booking.ID)
	if err != nil {
		if !errors.Is(err, paymentRepo.ErrIntentNotFound) {
			uc.logger.Error("CancelBooking: failed to get intent for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to get payment intent: %v", ErrInternal, err)
		}
		intent = nil
	}
	openIntent := intent != nil && !intent.Status.IsTerminal()

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// Переход защищен исходным статусом
		err := uc.bookingRepo.Transition(txCtx, booking.ID, []domain.BookingStatus{from}, to,
			bookingRepo.TransitionUpdate{
				CancellationReason: reasonPtr(reason),
				CancelledBy:        &actor,
				MarkCancelled:      true,
			})
		if err != nil {
			return uc.transitionError(booking.ID, from, err)
		}

		// Место возвращается ровно один раз - на переходе из занимающего статуса
		if booking.TimeSlotID != nil && domain.ReleasesSlot(from, to) {
			if err := uc.slotRepo.Release(txCtx, *booking.TimeSlotID); err != nil {
				uc.logger.Error("CancelBooking: failed to release slot id=%d: %v", *booking.TimeSlotID, err)
				return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
			}
		}

		if openIntent {
			err := uc.paymentRepo.UpdateIntentStatus(txCtx, intent.ID, domain.OpenIntentStatuses, domain.IntentCanceled, nil)
			if err != nil && !errors.Is(err, paymentRepo.ErrIntentStatusConflict) {
				uc.logger.Error("CancelBooking: failed to cancel intent id=%d: %v", intent.ID, err)
				return fmt.Errorf("%w: failed to cancel payment intent: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.metrics.IncBookingTransition(string(from), string(to))

	// Провайдер не отменяет намерение, которое уже проводится или проведено.
	// Тогда сверяем статус: проведенный платеж записывается и сразу возвращается.
	if openIntent {
		if err := uc.provider.CancelIntent(ctx, intent.ProviderIntentID); err != nil {
			uc.logger.Warn("CancelBooking: failed to cancel provider intent %s, reconciling: %v", intent.ProviderIntentID, err)
			if err := uc.reconciler.ReconcileIntent(ctx, intent.ID); err != nil {
				uc.logger.Error("CancelBooking: failed to reconcile intent id=%d of booking id=%d: %v", intent.ID, booking.ID, err)
			}
		}
	}

	return nil
}

// beginCancelling переводит оплаченное бронирование в cancelling и освобождает слот
func (uc *UseCase) beginCancelling(ctx context.Context, booking *domain.Booking, actor domain.Actor, reason string) error {
	from := booking.Status
	to, err := uc.nextStatus(booking.ID, from, domain.EventCancelWithRefund)
	if err != nil {
		return err
	}

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		err := uc.bookingRepo.Transition(txCtx, booking.ID, []domain.BookingStatus{from}, to,
			bookingRepo.TransitionUpdate{
				CancellationReason: reasonPtr(reason),
				CancelledBy:        &actor,
			})
		if err != nil {
			return uc.transitionError(booking.ID, from, err)
		}

		if booking.TimeSlotID != nil && domain.ReleasesSlot(from, to) {
			if err := uc.slotRepo.Release(txCtx, *booking.TimeSlotID); err != nil {
				uc.logger.Error("CancelBooking: failed to release slot id=%d: %v", *booking.TimeSlotID, err)
				return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.metrics.IncBookingTransition(string(from), string(to))
	booking.Status = to
	return nil
}

// refundAndFinish возвращает остаток платежа и завершает отмену
func (uc *UseCase) refundAndFinish(
	ctx context.Context,
	booking *domain.Booking,
	txn *domain.PaymentTransaction,
	actor domain.Actor,
	reason string,
) (*request_refund.Response, error) {
	to, err := uc.nextStatus(booking.ID, domain.StatusCancelling, domain.EventRefundAccepted)
	if err != nil {
		return nil, err
	}

	refund, err := uc.refundBalance(ctx, booking, txn, actor, reason)
	if err != nil {
		return nil, err
	}

	err = uc.bookingRepo.Transition(ctx, booking.ID, []domain.BookingStatus{domain.StatusCancelling}, to,
		bookingRepo.TransitionUpdate{MarkCancelled: true})
	if err != nil {
		return nil, uc.transitionError(booking.ID, domain.StatusCancelling, err)
	}

	uc.metrics.IncBookingTransition(string(domain.StatusCancelling), string(to))
	return refund, nil
}

// refundBalance возвращает невозвращенный остаток платежа, если он есть
func (uc *UseCase) refundBalance(
	ctx context.Context,
	booking *domain.Booking,
	txn *domain.PaymentTransaction,
	actor domain.Actor,
	reason string,
) (*request_refund.Response, error) {
	if txn == nil || txn.RefundableBalance() <= 0 {
		return nil, nil
	}

	resp, err := uc.refunder.Execute(ctx, &request_refund.Request{
		TransactionID: txn.ID,
		Reason:        reason,
		System:        true,
		InitiatedBy:   actor,
	})
	switch {
	case err == nil:
		return resp, nil
	case errors.Is(err, request_refund.ErrRefundExceedsBalance):
		// Остаток уже возвращен параллельным запросом
		uc.logger.Warn("CancelBooking: nothing left to refund for booking id=%d", booking.ID)
		return nil, nil
	default:
		uc.logger.Error("CancelBooking: refund for booking id=%d failed, booking stays %s: %v", booking.ID, booking.Status, err)
		return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
	}
}

// nextStatus статус, в который бронирование переходит по событию
func (uc *UseCase) nextStatus(bookingID int64, from domain.BookingStatus, event domain.BookingEvent) (domain.BookingStatus, error) {
	to, err := domain.NextStatus(from, event)
	if err != nil {
		uc.logger.Warn("CancelBooking: booking id=%d: %v", bookingID, err)
		return "", fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	return to, nil
}

func canCancelWithRefund(from domain.BookingStatus) bool {
	_, err := domain.NextStatus(from, domain.EventCancelWithRefund)
	return err == nil
}

func (uc *UseCase) transitionError(bookingID int64, from domain.BookingStatus, err error) error {
	if errors.Is(err, bookingRepo.ErrStatusConflict) {
		uc.logger.Warn("CancelBooking: booking id=%d left status %s concurrently", bookingID, from)
		return fmt.Errorf("%w: booking is no longer %s", ErrInvalidTransition, from)
	}
	uc.logger.Error("CancelBooking: failed to update booking id=%d: %v", bookingID, err)
	return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
}

func resolveActor(booking *domain.Booking, req *Request) (domain.Actor, error) {
	switch {
	case req.System:
		return domain.ActorPlatform, nil
	case req.ActorID == booking.SeekerID:
		return domain.ActorSeeker, nil
	case req.ActorID == booking.PractitionerID:
		return domain.ActorPractitioner, nil
	default:
		return "", ErrAccessDenied
	}
}

func reasonPtr(reason string) *string {
	if reason == "" {
		return nil
	}
	return &reason
}
