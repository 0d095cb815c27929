package request_refund

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SessionBookingService/internal/domain"
	paymentRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
)

// UseCase use case возврата средств по платежной транзакции
type UseCase struct {
	paymentRepo PaymentRepository
	bookingRepo BookingRepository
	provider    PaymentProvider
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	bookingRepo BookingRepository,
	provider PaymentProvider,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		provider:    provider,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет возврат.
// Сумма резервируется в транзакции до вызова провайдера, поэтому параллельные
// возвраты не могут в сумме превысить total_amount. Провайдер вызывается вне транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestRefund: transaction=%d, actor=%d, system=%t", req.TransactionID, req.ActorID, req.System)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestRefund: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем транзакцию
	txn, err := uc.paymentRepo.GetTransactionByID(ctx, req.TransactionID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrTransactionNotFound) {
			uc.logger.Warn("RequestRefund: transaction id=%d not found", req.TransactionID)
			return nil, ErrTransactionNotFound
		}
		uc.logger.Error("RequestRefund: failed to get transaction id=%d: %v", req.TransactionID, err)
		return nil, fmt.Errorf("%w: failed to get transaction: %v", ErrInternal, err)
	}

	// 3. Проверяем права
	initiator := domain.ActorPractitioner
	if req.System {
		initiator = req.InitiatedBy
		if initiator == "" {
			initiator = domain.ActorPlatform
		}
	} else if txn.PractitionerID != req.ActorID {
		uc.logger.Warn("RequestRefund: user=%d is not the practitioner of transaction id=%d", req.ActorID, txn.ID)
		return nil, ErrAccessDenied
	}

	// 4. Определяем сумму и проверяем остаток до обращения к провайдеру
	balance := txn.RefundableBalance()
	amount := balance
	if req.Amount != nil {
		amount = *req.Amount
	}
	if balance <= 0 || amount > balance {
		uc.metrics.IncRefund("rejected")
		uc.logger.Warn("RequestRefund: amount %d exceeds refundable balance %d of transaction id=%d",
			amount, balance, txn.ID)
		return nil, fmt.Errorf("%w: requested %d, refundable %d", ErrRefundExceedsBalance, amount, balance)
	}

	intent, err := uc.paymentRepo.GetIntentByID(ctx, txn.PaymentIntentID)
	if err != nil {
		uc.logger.Error("RequestRefund: failed to get intent id=%d: %v", txn.PaymentIntentID, err)
		return nil, fmt.Errorf("%w: failed to get payment intent: %v", ErrInternal, err)
	}

	// 5. Резервируем сумму и создаем запись возврата в статусе pending.
	// Возврат делится пропорционально исходному распределению от накопленной суммы возвратов,
	// поэтому части платформы и практика в сумме не расходятся с исходными.
	var (
		refund                         *domain.PaymentRefund
		platformPart, practitionerPart int64
	)
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		refunded, err := uc.paymentRepo.ReserveRefund(txCtx, txn.ID, amount)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrRefundExceedsBalance) {
				uc.metrics.IncRefund("rejected")
				uc.logger.Warn("RequestRefund: concurrent refund exhausted balance of transaction id=%d", txn.ID)
				return fmt.Errorf("%w: requested %d", ErrRefundExceedsBalance, amount)
			}
			uc.logger.Error("RequestRefund: failed to reserve refund: %v", err)
			return fmt.Errorf("%w: failed to reserve refund: %v", ErrInternal, err)
		}
		platformPart, practitionerPart = domain.SplitRefund(refunded-amount, amount, txn.Split())

		created, err := uc.paymentRepo.CreateRefund(txCtx, &domain.PaymentRefund{
			TransactionID:      txn.ID,
			Amount:             amount,
			PlatformFeeRefund:  platformPart,
			PractitionerRefund: practitionerPart,
			Reason:             req.Reason,
			InitiatedBy:        initiator,
			Status:             domain.RefundPending,
		})
		if err != nil {
			uc.logger.Error("RequestRefund: failed to create refund record: %v", err)
			return fmt.Errorf("%w: failed to create refund: %v", ErrInternal, err)
		}

		refund = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 6. Вызываем провайдера вне транзакции, ключ идемпотентности привязан к записи возврата
	providerRefund, providerErr := uc.provider.Refund(ctx, stripeprovider.RefundRequest{
		ProviderIntentID: intent.ProviderIntentID,
		Amount:           amount,
		Reason:           req.Reason,
		IdempotencyKey:   fmt.Sprintf("refund-%d", refund.ID),
	})

	// 7. Провайдер отказал - снимаем резерв
	if providerErr != nil {
		uc.metrics.IncRefund("failed")
		uc.logger.Error("RequestRefund: provider rejected refund id=%d of transaction id=%d: %v",
			refund.ID, txn.ID, providerErr)

		var providerRefundID *string
		if providerRefund != nil && providerRefund.ID != "" {
			providerRefundID = &providerRefund.ID
		}

		err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
			if err := uc.paymentRepo.ReleaseRefund(txCtx, txn.ID, amount); err != nil {
				return err
			}
			return uc.paymentRepo.MarkRefund(txCtx, refund.ID, domain.RefundFailed, providerRefundID)
		})
		if err != nil {
			uc.logger.Error("RequestRefund: failed to release reservation of refund id=%d: %v", refund.ID, err)
		}

		return nil, fmt.Errorf("%w: %v", ErrRefundFailed, providerErr)
	}

	// 8. Фиксируем успешный возврат и обновляем статусы транзакции и бронирования
	var txnStatus domain.TransactionStatus
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.paymentRepo.MarkRefund(txCtx, refund.ID, domain.RefundSucceeded, &providerRefund.ID); err != nil {
			return err
		}

		status, err := uc.paymentRepo.FinalizeTransactionStatus(txCtx, txn.ID)
		if err != nil {
			return err
		}
		txnStatus = status

		return uc.bookingRepo.SetPaymentStatus(txCtx, txn.BookingID, status.BookingPaymentStatus())
	})
	if err != nil {
		// Деньги уже возвращены провайдером, резерв остается в силе
		uc.logger.Error("RequestRefund: refund id=%d accepted by provider (%s) but not recorded: %v",
			refund.ID, providerRefund.ID, err)
		return nil, fmt.Errorf("%w: failed to record refund: %v", ErrInternal, err)
	}

	uc.metrics.IncRefund("succeeded")
	uc.logger.Info("RequestRefund: refund id=%d of %d (platform=%d, practitioner=%d) succeeded, transaction id=%d is %s",
		refund.ID, amount, platformPart, practitionerPart, txn.ID, txnStatus)

	return &Response{
		RefundID:           refund.ID,
		TransactionID:      txn.ID,
		Amount:             amount,
		PlatformFeeRefund:  platformPart,
		PractitionerRefund: practitionerPart,
		Status:             string(domain.RefundSucceeded),
		TransactionStatus:  string(txnStatus),
		RemainingBalance:   balance - amount,
	}, nil
}
