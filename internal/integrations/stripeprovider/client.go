package stripeprovider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

const tracerName = "github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"

// Config параметры подключения к провайдеру
type Config struct {
	SecretKey         string
	APIURL            string // пусто = боевой API
	MaxNetworkRetries int64
}

// Client адаптер платежного провайдера.
// Вызовы выполняются вне транзакций БД; повтор с тем же ключом идемпотентности безопасен.
type Client struct {
	api    *client.API
	tracer trace.Tracer
	log    Logger
}

// NewClient создает клиента провайдера
func NewClient(cfg Config, log Logger) *Client {
	backendCfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
		LeveledLogger:     &leveledLogger{log: log},
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(strings.TrimRight(cfg.APIURL, "/"))
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &Client{
		api:    api,
		tracer: otel.Tracer(tracerName),
		log:    log,
	}
}

// CreateIntent создает намерение с комиссией платформы и переводом практику
func (c *Client) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	ctx, span := c.tracer.Start(ctx, "payments.create_intent", trace.WithAttributes(
		attribute.Int64("booking.id", req.BookingID),
		attribute.Int64("payment.amount", req.Amount),
		attribute.Int64("payment.platform_fee", req.PlatformFee),
	))
	defer span.End()

	params := &stripe.PaymentIntentParams{
		Amount:               stripe.Int64(req.Amount),
		Currency:             stripe.String(req.Currency),
		ApplicationFeeAmount: stripe.Int64(req.PlatformFee),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(req.DestinationAccount),
		},
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	params.AddMetadata("booking_id", strconv.FormatInt(req.BookingID, 10))

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, c.fail(span, "CreateIntent", err)
	}

	return toIntent(pi), nil
}

// ConfirmIntent подтверждает намерение выбранным способом оплаты
func (c *Client) ConfirmIntent(ctx context.Context, providerIntentID string, paymentMethodID string) (*Intent, error) {
	ctx, span := c.tracer.Start(ctx, "payments.confirm_intent", trace.WithAttributes(
		attribute.String("payment.intent_id", providerIntentID),
	))
	defer span.End()

	params := &stripe.PaymentIntentConfirmParams{}
	if paymentMethodID != "" {
		params.PaymentMethod = stripe.String(paymentMethodID)
	}
	params.Context = ctx
	params.AddExpand("latest_charge.balance_transaction")

	pi, err := c.api.PaymentIntents.Confirm(providerIntentID, params)
	if err != nil {
		return nil, c.fail(span, "ConfirmIntent", err)
	}

	intent := toIntent(pi)
	span.SetAttributes(attribute.String("payment.status", string(intent.Status)))

	// Отказ, который провайдер вернул статусом, а не ошибкой:
	// после подтверждения намерение снова требует способ оплаты
	if intent.Status == domain.IntentRequiresPaymentMethod {
		intent.Status = domain.IntentFailed
		reason := "requires new payment method"
		if pi.LastPaymentError != nil {
			reason = pi.LastPaymentError.Msg
		}
		span.SetStatus(codes.Error, "declined")
		return intent, fmt.Errorf("%w: %s", ErrDeclined, reason)
	}

	return intent, nil
}

// RetrieveIntent возвращает текущее состояние намерения у провайдера.
// Используется для сверки, когда локальный статус мог разойтись с провайдером.
func (c *Client) RetrieveIntent(ctx context.Context, providerIntentID string) (*Intent, error) {
	ctx, span := c.tracer.Start(ctx, "payments.retrieve_intent", trace.WithAttributes(
		attribute.String("payment.intent_id", providerIntentID),
	))
	defer span.End()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddExpand("latest_charge.balance_transaction")

	pi, err := c.api.PaymentIntents.Get(providerIntentID, params)
	if err != nil {
		return nil, c.fail(span, "RetrieveIntent", err)
	}

	intent := toIntent(pi)
	span.SetAttributes(attribute.String("payment.status", string(intent.Status)))
	return intent, nil
}

// CancelIntent отменяет неоплаченное намерение
func (c *Client) CancelIntent(ctx context.Context, providerIntentID string) error {
	ctx, span := c.tracer.Start(ctx, "payments.cancel_intent", trace.WithAttributes(
		attribute.String("payment.intent_id", providerIntentID),
	))
	defer span.End()

	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx

	if _, err := c.api.PaymentIntents.Cancel(providerIntentID, params); err != nil {
		return c.fail(span, "CancelIntent", err)
	}

	return nil
}

// Refund возвращает деньги пропорционально: часть комиссии платформы и часть перевода практику
func (c *Client) Refund(ctx context.Context, req RefundRequest) (*Refund, error) {
	ctx, span := c.tracer.Start(ctx, "payments.refund", trace.WithAttributes(
		attribute.String("payment.intent_id", req.ProviderIntentID),
		attribute.Int64("refund.amount", req.Amount),
	))
	defer span.End()

	params := &stripe.RefundParams{
		PaymentIntent:        stripe.String(req.ProviderIntentID),
		Amount:               stripe.Int64(req.Amount),
		RefundApplicationFee: stripe.Bool(true),
		ReverseTransfer:      stripe.Bool(true),
		Reason:               stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	if req.Reason != "" {
		params.AddMetadata("reason", req.Reason)
	}

	re, err := c.api.Refunds.New(params)
	if err != nil {
		return nil, c.fail(span, "Refund", err)
	}

	switch re.Status {
	case stripe.RefundStatusSucceeded, stripe.RefundStatusPending:
		return &Refund{ID: re.ID, Status: domain.RefundSucceeded}, nil
	default:
		span.SetStatus(codes.Error, string(re.Status))
		return &Refund{ID: re.ID, Status: domain.RefundFailed},
			fmt.Errorf("%w: refund %s status %s", ErrRefundRejected, re.ID, re.Status)
	}
}

// fail классифицирует ошибку провайдера и помечает span
func (c *Client) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		c.log.Warn("PaymentProvider: %s declined: code=%s decline_code=%s", op, stripeErr.Code, stripeErr.DeclineCode)
		return fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
	}

	c.log.Error("PaymentProvider: %s failed: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrProvider, op, err)
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	intent := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       mapIntentStatus(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
	if pi.PaymentMethod != nil {
		intent.PaymentMethodID = pi.PaymentMethod.ID
	}
	if pi.LatestCharge != nil {
		intent.ChargeID = pi.LatestCharge.ID
		if pi.LatestCharge.BalanceTransaction != nil {
			intent.ProcessingFee = pi.LatestCharge.BalanceTransaction.Fee
		}
	}
	return intent
}

func mapIntentStatus(status stripe.PaymentIntentStatus) domain.IntentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return domain.IntentSucceeded
	case stripe.PaymentIntentStatusProcessing, stripe.PaymentIntentStatusRequiresCapture:
		return domain.IntentProcessing
	case stripe.PaymentIntentStatusRequiresAction:
		return domain.IntentRequiresAction
	case stripe.PaymentIntentStatusRequiresConfirmation:
		return domain.IntentRequiresConfirmation
	case stripe.PaymentIntentStatusCanceled:
		return domain.IntentCanceled
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return domain.IntentRequiresPaymentMethod
	default:
		return domain.IntentProcessing
	}
}
