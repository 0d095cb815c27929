package confirm_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
	"github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

// settleFrom статусы, из которых намерение переводится в succeeded.
// Ответ провайдера об успешном списании важнее локального статуса.
var settleFrom = append(append([]domain.IntentStatus{}, domain.OpenIntentStatuses...),
	domain.IntentFailed, domain.IntentCanceled)

// errIntentMoved намерение изменено параллельным запросом
var errIntentMoved = errors.New("confirm_payment: intent changed concurrently")

// UseCase use case подтверждения оплаты
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	paymentRepo  PaymentRepository
	provider     PaymentProvider
	refunder     Refunder
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	paymentRepo PaymentRepository,
	provider PaymentProvider,
	refunder Refunder,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		paymentRepo:  paymentRepo,
		provider:     provider,
		refunder:     refunder,
		txManager:    txManager,
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

// Execute передает подтверждение провайдеру и фиксирует результат.
// Успех: транзакция, намерение и бронирование (confirmed) сохраняются одной транзакцией БД.
// Отказ: намерение failed, бронирование payment_failed, место в слоте освобождается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmPayment: intent=%d, seeker=%d", req.IntentID, req.SeekerID)

	// 1. Валидация входных данных
	if req.IntentID <= 0 || req.SeekerID <= 0 {
		return nil, fmt.Errorf("%w: intentID and seekerID must be positive", ErrInvalidInput)
	}
	if req.PaymentMethodID == "" {
		return nil, fmt.Errorf("%w: paymentMethodId is required", ErrInvalidInput)
	}

	// 2. Получаем намерение и бронирование
	intent, err := uc.paymentRepo.GetIntentByID(ctx, req.IntentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrIntentNotFound) {
			uc.logger.Warn("ConfirmPayment: intent id=%d not found", req.IntentID)
			return nil, ErrIntentNotFound
		}
		uc.logger.Error("ConfirmPayment: failed to get intent id=%d: %v", req.IntentID, err)
		return nil, fmt.Errorf("%w: failed to get intent: %v", ErrInternal, err)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, intent.BookingID)
	if err != nil {
		uc.logger.Error("ConfirmPayment: failed to get booking id=%d of intent id=%d: %v", intent.BookingID, intent.ID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.SeekerID != req.SeekerID {
		uc.logger.Warn("ConfirmPayment: user=%d is not the seeker of booking id=%d", req.SeekerID, booking.ID)
		return nil, ErrAccessDenied
	}

	// 3. Сумма намерения должна совпадать с ценой бронирования
	if err := intent.CheckAgainst(booking); err != nil {
		uc.metrics.IncConsistencyError("intent_amount")
		uc.logger.Error("ConfirmPayment: intent id=%d does not match booking id=%d: %v", intent.ID, booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrAmountMismatch, err)
	}

	// 4. Проверяем статусы
	switch intent.Status {
	case domain.IntentSucceeded:
		uc.logger.Info("ConfirmPayment: intent id=%d already succeeded", intent.ID)
		return uc.current(ctx, intent.ID)
	case domain.IntentFailed, domain.IntentCanceled:
		// Локально намерение закрыто, но провайдер мог провести платеж позже
		pi, err := uc.provider.RetrieveIntent(ctx, intent.ProviderIntentID)
		if err != nil {
			uc.logger.Warn("ConfirmPayment: failed to retrieve closed intent id=%d from provider: %v", intent.ID, err)
		} else if pi.Status == domain.IntentSucceeded {
			uc.logger.Warn("ConfirmPayment: intent id=%d is %s locally but succeeded at provider", intent.ID, intent.Status)
			return uc.capture(ctx, intent, booking, pi, paymentMethodOf(pi, req.PaymentMethodID))
		}
		uc.logger.Warn("ConfirmPayment: intent id=%d is %s", intent.ID, intent.Status)
		return nil, fmt.Errorf("%w: intent is %s", ErrIntentClosed, intent.Status)
	}

	if _, err := domain.NextStatus(booking.Status, domain.EventPaymentSucceeded); err != nil {
		uc.logger.Warn("ConfirmPayment: booking id=%d is %s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
	}

	// 5. Подтверждаем у провайдера вне транзакции
	pi, providerErr := uc.provider.ConfirmIntent(ctx, intent.ProviderIntentID, req.PaymentMethodID)
	if providerErr != nil {
		return uc.fail(ctx, intent, booking, req.PaymentMethodID, providerErr)
	}

	if pi.Status != domain.IntentSucceeded {
		return uc.await(ctx, intent, booking, pi, req.PaymentMethodID)
	}

	// 6. Провайдер списал деньги
	return uc.capture(ctx, intent, booking, pi, req.PaymentMethodID)
}

// ReconcileIntent сверяет намерение с провайдером. Платеж, проведенный провайдером,
// но не записанный локально, записывается; если бронирование уже вышло из pending,
// платеж сразу возвращается. Отсутствие проведенного платежа ошибкой не считается.
func (uc *UseCase) ReconcileIntent(ctx context.Context, intentID int64) error {
	intent, err := uc.paymentRepo.GetIntentByID(ctx, intentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrIntentNotFound) {
			return ErrIntentNotFound
		}
		return fmt.Errorf("%w: failed to get intent: %v", ErrInternal, err)
	}
	if intent.Status == domain.IntentSucceeded {
		return nil
	}

	booking, err := uc.bookingRepo.GetByID(ctx, intent.BookingID)
	if err != nil {
		return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	pi, err := uc.provider.RetrieveIntent(ctx, intent.ProviderIntentID)
	if err != nil {
		uc.logger.Error("ReconcileIntent: failed to retrieve intent id=%d: %v", intent.ID, err)
		return fmt.Errorf("%w: %v", ErrProviderLookup, err)
	}
	if pi.Status != domain.IntentSucceeded {
		uc.logger.Info("ReconcileIntent: intent id=%d is %s at provider, nothing to record", intent.ID, pi.Status)
		return nil
	}

	uc.logger.Warn("ReconcileIntent: intent id=%d is %s locally but succeeded at provider", intent.ID, intent.Status)
	_, err = uc.capture(ctx, intent, booking, pi, paymentMethodOf(pi, ptr.Value(intent.PaymentMethodID)))
	if errors.Is(err, ErrBookingNoLongerPending) && !errors.Is(err, ErrLateRefundFailed) {
		return nil
	}
	return err
}

// capture сверяет списанную сумму и записывает платеж
func (uc *UseCase) capture(
	ctx context.Context,
	intent *domain.PaymentIntent,
	booking *domain.Booking,
	pi *stripeprovider.Intent,
	paymentMethodID string,
) (*Response, error) {
	if pi.Amount != intent.Amount {
		uc.metrics.IncConsistencyError("charge_amount")
		uc.logger.Error("ConfirmPayment: provider charged %d for intent id=%d, expected %d",
			pi.Amount, intent.ID, intent.Amount)
		return nil, fmt.Errorf("%w: charged %d, expected %d", ErrAmountMismatch, pi.Amount, intent.Amount)
	}

	return uc.settle(ctx, intent, booking, pi, paymentMethodID)
}

// settle записывает проведенный платеж и подтверждает бронирование
func (uc *UseCase) settle(
	ctx context.Context,
	intent *domain.PaymentIntent,
	booking *domain.Booking,
	pi *stripeprovider.Intent,
	paymentMethodID string,
) (*Response, error) {
	to, err := nextStatus(domain.EventPaymentSucceeded)
	if err != nil {
		return nil, err
	}
	now := uc.timeProvider.Now()
	late := false

	var txn *domain.PaymentTransaction
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 6.1. Намерение -> succeeded
		err := uc.paymentRepo.UpdateIntentStatus(txCtx, intent.ID, settleFrom, domain.IntentSucceeded, optional(paymentMethodID))
		if err != nil {
			if errors.Is(err, paymentRepo.ErrIntentStatusConflict) {
				return errIntentMoved
			}
			return err
		}

		// 6.2. Запись о проведенном платеже, одна на намерение
		created, err := uc.paymentRepo.CreateTransaction(txCtx, &domain.PaymentTransaction{
			PaymentIntentID:    intent.ID,
			BookingID:          booking.ID,
			PractitionerID:     booking.PractitionerID,
			SeekerID:           booking.SeekerID,
			ProviderChargeID:   pi.ChargeID,
			TotalAmount:        intent.Amount,
			PlatformFee:        intent.PlatformFee,
			PractitionerAmount: intent.PractitionerAmount,
			ProcessingFee:      pi.ProcessingFee,
			Currency:           intent.Currency,
			Status:             domain.TransactionCompleted,
			ChargedAt:          now,
			TransferredAt:      &now,
		})
		if err != nil {
			if errors.Is(err, paymentRepo.ErrTransactionExists) {
				return errIntentMoved
			}
			return err
		}
		txn = created

		// 6.3. Бронирование pending -> confirmed
		err = uc.bookingRepo.Transition(txCtx, booking.ID, []domain.BookingStatus{domain.StatusPending}, to,
			bookingRepo.TransitionUpdate{PaymentStatus: ptr.Ptr(domain.PaymentPaid)})
		if err == nil {
			return nil
		}
		if !errors.Is(err, bookingRepo.ErrStatusConflict) {
			return err
		}

		// Бронирование отменено, пока шла оплата: платеж сохраняется и возвращается ниже
		late = true
		return uc.bookingRepo.SetPaymentStatus(txCtx, booking.ID, domain.PaymentPaid)
	})
	if err != nil {
		if errors.Is(err, errIntentMoved) {
			uc.logger.Info("ConfirmPayment: intent id=%d settled by a concurrent request", intent.ID)
			return uc.current(ctx, intent.ID)
		}
		uc.metrics.IncConsistencyError("unrecorded_charge")
		uc.logger.Error("ConfirmPayment: charge %s for intent id=%d succeeded but was not recorded: %v",
			pi.ChargeID, intent.ID, err)
		return nil, fmt.Errorf("%w: failed to record payment: %v", ErrInternal, err)
	}

	uc.metrics.IncPaymentIntent("succeeded")

	if late {
		return nil, uc.refundLatePayment(ctx, booking, txn)
	}

	uc.metrics.IncBookingTransition(string(domain.StatusPending), string(to))
	uc.logger.Info("ConfirmPayment: booking id=%d confirmed, transaction id=%d, processing_fee=%d",
		booking.ID, txn.ID, txn.ProcessingFee)

	return &Response{
		IntentID:      intent.ID,
		BookingID:     booking.ID,
		IntentStatus:  string(domain.IntentSucceeded),
		BookingStatus: string(to),
		PaymentStatus: string(domain.PaymentPaid),
		TransactionID: ptr.Ptr(txn.ID),
		ProcessingFee: txn.ProcessingFee,
	}, nil
}

// refundLatePayment возвращает платеж, проведенный после выхода бронирования из pending
func (uc *UseCase) refundLatePayment(ctx context.Context, booking *domain.Booking, txn *domain.PaymentTransaction) error {
	uc.metrics.IncConsistencyError("late_payment")
	uc.logger.Warn("ConfirmPayment: booking id=%d left pending before payment settled, refunding transaction id=%d",
		booking.ID, txn.ID)

	refund, err := uc.refunder.Execute(ctx, &request_refund.Request{
		TransactionID: txn.ID,
		Reason:        domain.ReasonLatePayment,
		System:        true,
		InitiatedBy:   domain.ActorPlatform,
	})
	if err != nil {
		uc.logger.Error("ConfirmPayment: automatic refund of transaction id=%d failed: %v", txn.ID, err)
		return fmt.Errorf("%w: %w: %v", ErrBookingNoLongerPending, ErrLateRefundFailed, err)
	}

	uc.logger.Info("ConfirmPayment: transaction id=%d refunded automatically, refund id=%d", txn.ID, refund.RefundID)
	return ErrBookingNoLongerPending
}

// fail фиксирует отказ или недоступность провайдера: payment_failed и освобождение слота.
// При ошибке, не являющейся отказом, сначала уточняется фактический статус у провайдера:
// ответ мог потеряться уже после списания.
func (uc *UseCase) fail(
	ctx context.Context,
	intent *domain.PaymentIntent,
	booking *domain.Booking,
	paymentMethodID string,
	providerErr error,
) (*Response, error) {
	declined := errors.Is(providerErr, stripeprovider.ErrDeclined)
	if !declined {
		pi, err := uc.provider.RetrieveIntent(ctx, intent.ProviderIntentID)
		switch {
		case err != nil:
			uc.logger.Warn("ConfirmPayment: failed to retrieve intent id=%d after provider error: %v", intent.ID, err)
		case pi.Status == domain.IntentSucceeded:
			uc.logger.Warn("ConfirmPayment: provider error for intent id=%d, but the charge succeeded: %v", intent.ID, providerErr)
			return uc.capture(ctx, intent, booking, pi, paymentMethodOf(pi, paymentMethodID))
		case pi.Status == domain.IntentProcessing || pi.Status == domain.IntentRequiresAction:
			uc.logger.Warn("ConfirmPayment: provider error for intent id=%d, intent is still %s: %v", intent.ID, pi.Status, providerErr)
			return uc.await(ctx, intent, booking, pi, paymentMethodOf(pi, paymentMethodID))
		}
	}

	if declined {
		uc.metrics.IncPaymentIntent("declined")
		uc.logger.Warn("ConfirmPayment: payment for booking id=%d declined: %v", booking.ID, providerErr)
	} else {
		uc.metrics.IncPaymentIntent("error")
		uc.logger.Error("ConfirmPayment: provider failed for booking id=%d: %v", booking.ID, providerErr)
	}

	to, err := nextStatus(domain.EventPaymentFailed)
	if err != nil {
		return nil, err
	}

	transitioned := false
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		err := uc.paymentRepo.UpdateIntentStatus(txCtx, intent.ID, domain.OpenIntentStatuses, domain.IntentFailed, nil)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrIntentStatusConflict) {
				return errIntentMoved
			}
			return err
		}

		err = uc.bookingRepo.Transition(txCtx, booking.ID, []domain.BookingStatus{domain.StatusPending}, to,
			bookingRepo.TransitionUpdate{PaymentStatus: ptr.Ptr(domain.PaymentFailed)})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				// Бронирование уже отменено, слот освобожден при отмене
				return nil
			}
			return err
		}
		transitioned = true

		if booking.TimeSlotID != nil && domain.ReleasesSlot(domain.StatusPending, to) {
			return uc.slotRepo.Release(txCtx, *booking.TimeSlotID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errIntentMoved) {
			uc.logger.Info("ConfirmPayment: intent id=%d changed concurrently, returning current state", intent.ID)
			return uc.current(ctx, intent.ID)
		}
		uc.logger.Error("ConfirmPayment: failed to record payment failure for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to record payment failure: %v", ErrInternal, err)
	}

	if transitioned {
		uc.metrics.IncBookingTransition(string(domain.StatusPending), string(to))
	}

	if declined {
		return nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, providerErr)
	}
	return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, providerErr)
}

// await сохраняет промежуточный статус (processing, requires_action), бронирование остается pending
func (uc *UseCase) await(
	ctx context.Context,
	intent *domain.PaymentIntent,
	booking *domain.Booking,
	pi *stripeprovider.Intent,
	paymentMethodID string,
) (*Response, error) {
	err := uc.paymentRepo.UpdateIntentStatus(ctx, intent.ID, domain.OpenIntentStatuses, pi.Status, optional(paymentMethodID))
	if err != nil && !errors.Is(err, paymentRepo.ErrIntentStatusConflict) {
		uc.logger.Error("ConfirmPayment: failed to update intent id=%d: %v", intent.ID, err)
		return nil, fmt.Errorf("%w: failed to update intent: %v", ErrInternal, err)
	}

	uc.metrics.IncPaymentIntent("pending")
	uc.logger.Info("ConfirmPayment: intent id=%d is %s, booking id=%d stays pending", intent.ID, pi.Status, booking.ID)

	return &Response{
		IntentID:      intent.ID,
		BookingID:     booking.ID,
		IntentStatus:  string(pi.Status),
		BookingStatus: string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
	}, nil
}

// current возвращает сохраненное состояние оплаты
func (uc *UseCase) current(ctx context.Context, intentID int64) (*Response, error) {
	intent, err := uc.paymentRepo.GetIntentByID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reload intent: %v", ErrInternal, err)
	}
	booking, err := uc.bookingRepo.GetByID(ctx, intent.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
	}

	resp := &Response{
		IntentID:      intent.ID,
		BookingID:     booking.ID,
		IntentStatus:  string(intent.Status),
		BookingStatus: string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
	}

	txn, err := uc.paymentRepo.GetTransactionByBookingID(ctx, booking.ID)
	switch {
	case err == nil:
		resp.TransactionID = ptr.Ptr(txn.ID)
		resp.ProcessingFee = txn.ProcessingFee
	case !errors.Is(err, paymentRepo.ErrTransactionNotFound):
		return nil, fmt.Errorf("%w: failed to reload transaction: %v", ErrInternal, err)
	}

	if intent.Status == domain.IntentFailed || intent.Status == domain.IntentCanceled {
		return nil, fmt.Errorf("%w: intent is %s", ErrIntentClosed, intent.Status)
	}
	return resp, nil
}

// nextStatus статус, в который pending бронирование переходит по событию оплаты
func nextStatus(event domain.BookingEvent) (domain.BookingStatus, error) {
	to, err := domain.NextStatus(domain.StatusPending, event)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	return to, nil
}

// paymentMethodOf способ оплаты по данным провайдера, если он известен
func paymentMethodOf(pi *stripeprovider.Intent, fallback string) string {
	if pi.PaymentMethodID != "" {
		return pi.PaymentMethodID
	}
	return fallback
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
