package create_payment_intent

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/payment"
	offeringClient "github.com/m04kA/SessionBookingService/internal/integrations/offeringservice"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
)

// UseCase use case создания платежного намерения
type UseCase struct {
	bookingRepo    BookingRepository
	paymentRepo    PaymentRepository
	offeringClient OfferingClient
	provider       PaymentProvider
	txManager      TransactionManager
	metrics        Metrics
	feeRate        decimal.Decimal
	logger         Logger
}

// NewUseCase создает новый экземпляр use case. feeRate - доля платформы в [0, 1).
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	offeringClient OfferingClient,
	provider PaymentProvider,
	txManager TransactionManager,
	metrics Metrics,
	feeRate decimal.Decimal,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		paymentRepo:    paymentRepo,
		offeringClient: offeringClient,
		provider:       provider,
		txManager:      txManager,
		metrics:        metrics,
		feeRate:        feeRate,
		logger:         logger,
	}
}

// Execute создает намерение у провайдера и сохраняет его.
// Ключ идемпотентности - ID бронирования, поэтому повторный вызов не создает второе намерение.
// Провайдер вызывается вне транзакции, результат сохраняется отдельной короткой транзакцией.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePaymentIntent: booking=%d, seeker=%d", req.BookingID, req.SeekerID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 || req.SeekerID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and seekerID must be positive", ErrInvalidInput)
	}

	// 2. Получаем бронирование и проверяем владельца
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CreatePaymentIntent: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CreatePaymentIntent: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.SeekerID != req.SeekerID {
		uc.logger.Warn("CreatePaymentIntent: user=%d is not the seeker of booking id=%d", req.SeekerID, booking.ID)
		return nil, ErrAccessDenied
	}

	// 3. Намерение уже есть - возвращаем его
	existing, err := uc.paymentRepo.GetIntentByBookingID(ctx, booking.ID)
	if err == nil {
		return uc.reuse(existing, booking)
	}
	if !errors.Is(err, paymentRepo.ErrIntentNotFound) {
		uc.logger.Error("CreatePaymentIntent: failed to get intent for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to get intent: %v", ErrInternal, err)
	}

	// 4. Оплатить можно только pending бронирование
	if booking.Status != domain.StatusPending {
		uc.logger.Warn("CreatePaymentIntent: booking id=%d is %s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
	}

	// 5. Проверяем аккаунт выплат практика
	account, err := uc.offeringClient.GetPayoutAccount(ctx, booking.PractitionerID)
	if err != nil && !errors.Is(err, offeringClient.ErrPayoutAccountNotFound) {
		uc.logger.Error("CreatePaymentIntent: failed to get payout account of practitioner=%d: %v", booking.PractitionerID, err)
		return nil, fmt.Errorf("%w: failed to get payout account: %v", ErrInternal, err)
	}
	if err != nil || !account.IsPayable() {
		uc.logger.Warn("CreatePaymentIntent: practitioner=%d cannot receive payouts", booking.PractitionerID)
		return nil, ErrPractitionerNotPayable
	}

	// 6. Считаем распределение в минимальных единицах
	total, err := booking.AgreedPriceMinor()
	if err != nil {
		uc.logger.Error("CreatePaymentIntent: booking id=%d has unusable price: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	split, err := domain.ComputeSplit(total, uc.feeRate)
	if err != nil {
		uc.logger.Warn("CreatePaymentIntent: cannot split %d for booking id=%d: %v", total, booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 7. Создаем намерение у провайдера: комиссия платформы и перевод практику в одном вызове
	pi, err := uc.provider.CreateIntent(ctx, stripeprovider.IntentRequest{
		BookingID:          booking.ID,
		Amount:             split.Total,
		Currency:           booking.Currency,
		PlatformFee:        split.PlatformFee,
		DestinationAccount: account.DestinationAccount,
		IdempotencyKey:     fmt.Sprintf("booking-%d", booking.ID),
	})
	if err != nil {
		uc.metrics.IncPaymentIntent("error")
		uc.logger.Error("CreatePaymentIntent: provider failed for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if pi.Amount != split.Total {
		uc.metrics.IncConsistencyError("intent_amount")
		uc.logger.Error("CreatePaymentIntent: provider intent %s amount %d differs from agreed price %d of booking id=%d",
			pi.ID, pi.Amount, split.Total, booking.ID)
		return nil, fmt.Errorf("%w: provider amount %d, agreed %d", ErrAmountMismatch, pi.Amount, split.Total)
	}

	intent := &domain.PaymentIntent{
		BookingID:          booking.ID,
		ProviderIntentID:   pi.ID,
		Amount:             split.Total,
		Currency:           booking.Currency,
		PlatformFee:        split.PlatformFee,
		PractitionerAmount: split.PractitionerAmount,
		Status:             pi.Status,
		ClientSecret:       pi.ClientSecret,
		DestinationAccount: account.DestinationAccount,
	}

	// 8. Сохраняем намерение и отражаем статус оплаты в бронировании
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.paymentRepo.CreateIntent(txCtx, intent)
		if err != nil {
			return err
		}
		intent = created

		return uc.bookingRepo.SetPaymentStatus(txCtx, booking.ID, domain.PaymentRequiresConfirmation)
	})
	if err != nil {
		// Параллельный запрос успел сохранить намерение с тем же ключом идемпотентности
		if errors.Is(err, paymentRepo.ErrIntentExists) {
			existing, getErr := uc.paymentRepo.GetIntentByBookingID(ctx, booking.ID)
			if getErr != nil {
				uc.logger.Error("CreatePaymentIntent: failed to reload intent for booking id=%d: %v", booking.ID, getErr)
				return nil, fmt.Errorf("%w: failed to reload intent: %v", ErrInternal, getErr)
			}
			return uc.reuse(existing, booking)
		}
		uc.logger.Error("CreatePaymentIntent: provider intent %s created but not persisted: %v", pi.ID, err)
		return nil, fmt.Errorf("%w: failed to save intent: %v", ErrInternal, err)
	}

	uc.metrics.IncPaymentIntent("created")
	uc.logger.Info("CreatePaymentIntent: intent id=%d (%s) for booking id=%d: amount=%d fee=%d practitioner=%d",
		intent.ID, intent.ProviderIntentID, booking.ID, intent.Amount, intent.PlatformFee, intent.PractitionerAmount)

	return toResponse(intent, false), nil
}

// reuse возвращает существующее намерение после сверки с ценой бронирования
func (uc *UseCase) reuse(intent *domain.PaymentIntent, booking *domain.Booking) (*Response, error) {
	if err := intent.CheckAgainst(booking); err != nil {
		uc.metrics.IncConsistencyError("intent_amount")
		uc.logger.Error("CreatePaymentIntent: intent id=%d does not match booking id=%d: %v", intent.ID, booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrAmountMismatch, err)
	}

	uc.metrics.IncPaymentIntent("reused")
	uc.logger.Info("CreatePaymentIntent: reusing intent id=%d for booking id=%d", intent.ID, booking.ID)
	return toResponse(intent, true), nil
}
