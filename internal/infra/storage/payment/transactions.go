package payment

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/pkg/dbmetrics"
	"github.com/m04kA/SessionBookingService/pkg/psqlbuilder"
)

var transactionColumns = []string{
	"id",
	"payment_intent_id",
	"booking_id",
	"practitioner_id",
	"seeker_id",
	"provider_charge_id",
	"total_amount",
	"platform_fee",
	"practitioner_amount",
	"processing_fee",
	"currency",
	"transaction_status",
	"refunded_amount",
	"charged_at",
	"transferred_at",
	"created_at",
	"updated_at",
}

// CreateTransaction записывает проведенный платеж. Одна транзакция на намерение.
func (r *Repository) CreateTransaction(ctx context.Context, txn *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_transactions").
		Columns(
			"payment_intent_id",
			"booking_id",
			"practitioner_id",
			"seeker_id",
			"provider_charge_id",
			"total_amount",
			"platform_fee",
			"practitioner_amount",
			"processing_fee",
			"currency",
			"transaction_status",
			"refunded_amount",
			"charged_at",
			"transferred_at",
		).
		Values(
			txn.PaymentIntentID,
			txn.BookingID,
			txn.PractitionerID,
			txn.SeekerID,
			txn.ProviderChargeID,
			txn.TotalAmount,
			txn.PlatformFee,
			txn.PractitionerAmount,
			txn.ProcessingFee,
			txn.Currency,
			domain.TransactionCompleted,
			0,
			txn.ChargedAt,
			txn.TransferredAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrapBuild("CreateTransaction", err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrTransactionExists
	}
	if err != nil {
		return nil, wrapExec("CreateTransaction", err)
	}

	txn.Status = domain.TransactionCompleted
	txn.RefundedAmount = 0

	return txn, nil
}

// GetTransactionByID получает транзакцию по ID
func (r *Repository) GetTransactionByID(ctx context.Context, id int64) (*domain.PaymentTransaction, error) {
	return r.getTransaction(ctx, "GetTransactionByID", squirrel.Eq{"id": id})
}

// GetTransactionByBookingID получает транзакцию бронирования
func (r *Repository) GetTransactionByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentTransaction, error) {
	return r.getTransaction(ctx, "GetTransactionByBookingID", squirrel.Eq{"booking_id": bookingID})
}

func (r *Repository) getTransaction(ctx context.Context, op string, where squirrel.Eq) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(transactionColumns...).
		From("payment_transactions").
		Where(where).
		ToSql()
	if err != nil {
		return nil, wrapBuild(op, err)
	}

	txn, err := scanTransaction(executor.QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, wrapScan(op, err)
	}

	return txn, nil
}

// ReserveRefund увеличивает refunded_amount на amount, только если итог не превысит total_amount,
// и возвращает новый refunded_amount. Проверка и запись выполняются одним условным UPDATE,
// поэтому конкурентные возвраты не могут в сумме превысить сумму платежа.
// Ноль затронутых строк = ErrRefundExceedsBalance.
func (r *Repository) ReserveRefund(ctx context.Context, transactionID int64, amount int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payment_transactions").
		Set("refunded_amount", squirrel.Expr("refunded_amount + ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": transactionID}).
		Where("refunded_amount + ? <= total_amount", amount).
		Suffix("RETURNING refunded_amount").
		ToSql()
	if err != nil {
		return 0, wrapBuild("ReserveRefund", err)
	}

	var refunded int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&refunded)
	if isNoRows(err) {
		return 0, ErrRefundExceedsBalance
	}
	if err != nil {
		return 0, wrapExec("ReserveRefund", err)
	}

	return refunded, nil
}

// ReleaseRefund возвращает зарезервированную сумму, если провайдер отклонил возврат
func (r *Repository) ReleaseRefund(ctx context.Context, transactionID int64, amount int64) error {
	query, args, err := psqlbuilder.Update("payment_transactions").
		Set("refunded_amount", squirrel.Expr("GREATEST(refunded_amount - ?, 0)", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": transactionID}).
		ToSql()
	if err != nil {
		return wrapBuild("ReleaseRefund", err)
	}

	rowsAffected, err := r.exec(ctx, query, args)
	if err != nil {
		return wrapExec("ReleaseRefund", err)
	}
	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// FinalizeTransactionStatus пересчитывает статус транзакции по refunded_amount
func (r *Repository) FinalizeTransactionStatus(ctx context.Context, transactionID int64) (domain.TransactionStatus, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusExpr := squirrel.Expr(
		"CASE WHEN refunded_amount >= total_amount THEN ? WHEN refunded_amount > 0 THEN ? ELSE ? END",
		domain.TransactionRefunded,
		domain.TransactionPartiallyRefunded,
		domain.TransactionCompleted,
	)

	query, args, err := psqlbuilder.Update("payment_transactions").
		Set("transaction_status", statusExpr).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": transactionID}).
		Suffix("RETURNING transaction_status").
		ToSql()
	if err != nil {
		return "", wrapBuild("FinalizeTransactionStatus", err)
	}

	var status domain.TransactionStatus
	err = executor.QueryRowContext(ctx, query, args...).Scan(&status)
	if isNoRows(err) {
		return "", ErrTransactionNotFound
	}
	if err != nil {
		return "", wrapExec("FinalizeTransactionStatus", err)
	}

	return status, nil
}

func scanTransaction(row rowScanner) (*domain.PaymentTransaction, error) {
	var (
		txn           domain.PaymentTransaction
		transferredAt sql.NullTime
	)

	err := row.Scan(
		&txn.ID,
		&txn.PaymentIntentID,
		&txn.BookingID,
		&txn.PractitionerID,
		&txn.SeekerID,
		&txn.ProviderChargeID,
		&txn.TotalAmount,
		&txn.PlatformFee,
		&txn.PractitionerAmount,
		&txn.ProcessingFee,
		&txn.Currency,
		&txn.Status,
		&txn.RefundedAmount,
		&txn.ChargedAt,
		&transferredAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if transferredAt.Valid {
		txn.TransferredAt = &transferredAt.Time
	}

	return &txn, nil
}
