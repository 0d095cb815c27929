package payment

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/pkg/dbmetrics"
	"github.com/m04kA/SessionBookingService/pkg/psqlbuilder"
)

var intentColumns = []string{
	"id",
	"booking_id",
	"provider_intent_id",
	"amount",
	"currency",
	"platform_fee",
	"practitioner_amount",
	"payment_status",
	"client_secret",
	"payment_method_id",
	"destination_account",
	"created_at",
	"updated_at",
}

// CreateIntent сохраняет платежное намерение.
// Уникальный индекс по booking_id гарантирует одно намерение на бронирование:
// при конфликте вставка ничего не делает и возвращается ErrIntentExists.
func (r *Repository) CreateIntent(ctx context.Context, intent *domain.PaymentIntent) (*domain.PaymentIntent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_intents").
		Columns(
			"booking_id",
			"provider_intent_id",
			"amount",
			"currency",
			"platform_fee",
			"practitioner_amount",
			"payment_status",
			"client_secret",
			"destination_account",
		).
		Values(
			intent.BookingID,
			intent.ProviderIntentID,
			intent.Amount,
			intent.Currency,
			intent.PlatformFee,
			intent.PractitionerAmount,
			intent.Status,
			intent.ClientSecret,
			intent.DestinationAccount,
		).
		Suffix("ON CONFLICT (booking_id) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrapBuild("CreateIntent", err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&intent.ID, &intent.CreatedAt, &intent.UpdatedAt)
	if isNoRows(err) || isUniqueViolation(err) {
		return nil, ErrIntentExists
	}
	if err != nil {
		return nil, wrapExec("CreateIntent", err)
	}

	return intent, nil
}

// GetIntentByID получает платежное намерение по ID
func (r *Repository) GetIntentByID(ctx context.Context, id int64) (*domain.PaymentIntent, error) {
	return r.getIntent(ctx, "GetIntentByID", squirrel.Eq{"id": id})
}

// GetIntentByBookingID получает платежное намерение бронирования
func (r *Repository) GetIntentByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentIntent, error) {
	return r.getIntent(ctx, "GetIntentByBookingID", squirrel.Eq{"booking_id": bookingID})
}

func (r *Repository) getIntent(ctx context.Context, op string, where squirrel.Eq) (*domain.PaymentIntent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(intentColumns...).
		From("payment_intents").
		Where(where).
		ToSql()
	if err != nil {
		return nil, wrapBuild(op, err)
	}

	intent, err := scanIntent(executor.QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, wrapScan(op, err)
	}

	return intent, nil
}

// UpdateIntentStatus переводит намерение в статус to, только если текущий статус входит в from
func (r *Repository) UpdateIntentStatus(
	ctx context.Context,
	id int64,
	from []domain.IntentStatus,
	to domain.IntentStatus,
	paymentMethodID *string,
) error {
	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	updateBuilder := psqlbuilder.Update("payment_intents").
		Set("payment_status", to)
	if paymentMethodID != nil {
		updateBuilder = updateBuilder.Set("payment_method_id", *paymentMethodID)
	}

	query, args, err := updateBuilder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"payment_status": fromStatuses}).
		ToSql()
	if err != nil {
		return wrapBuild("UpdateIntentStatus", err)
	}

	rowsAffected, err := r.exec(ctx, query, args)
	if err != nil {
		return wrapExec("UpdateIntentStatus", err)
	}
	if rowsAffected == 0 {
		return ErrIntentStatusConflict
	}

	return nil
}

func scanIntent(row rowScanner) (*domain.PaymentIntent, error) {
	var (
		intent          domain.PaymentIntent
		paymentMethodID sql.NullString
	)

	err := row.Scan(
		&intent.ID,
		&intent.BookingID,
		&intent.ProviderIntentID,
		&intent.Amount,
		&intent.Currency,
		&intent.PlatformFee,
		&intent.PractitionerAmount,
		&intent.Status,
		&intent.ClientSecret,
		&paymentMethodID,
		&intent.DestinationAccount,
		&intent.CreatedAt,
		&intent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentMethodID.Valid {
		intent.PaymentMethodID = &paymentMethodID.String
	}

	return &intent, nil
}
