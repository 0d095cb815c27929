package payment

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/pkg/dbmetrics"
	"github.com/m04kA/SessionBookingService/pkg/psqlbuilder"
)

// CreateRefund сохраняет возврат в статусе pending до ответа провайдера
func (r *Repository) CreateRefund(ctx context.Context, refund *domain.PaymentRefund) (*domain.PaymentRefund, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_refunds").
		Columns(
			"transaction_id",
			"amount",
			"platform_fee_refund",
			"practitioner_refund",
			"reason",
			"initiated_by",
			"refund_status",
		).
		Values(
			refund.TransactionID,
			refund.Amount,
			refund.PlatformFeeRefund,
			refund.PractitionerRefund,
			refund.Reason,
			refund.InitiatedBy,
			domain.RefundPending,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, wrapBuild("CreateRefund", err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&refund.ID, &refund.CreatedAt, &refund.UpdatedAt)
	if err != nil {
		return nil, wrapExec("CreateRefund", err)
	}
	refund.Status = domain.RefundPending

	return refund, nil
}

// MarkRefund фиксирует ответ провайдера для pending возврата
func (r *Repository) MarkRefund(ctx context.Context, refundID int64, status domain.RefundStatus, providerRefundID *string) error {
	updateBuilder := psqlbuilder.Update("payment_refunds").
		Set("refund_status", status)
	if providerRefundID != nil {
		updateBuilder = updateBuilder.Set("provider_refund_id", *providerRefundID)
	}

	query, args, err := updateBuilder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": refundID, "refund_status": domain.RefundPending}).
		ToSql()
	if err != nil {
		return wrapBuild("MarkRefund", err)
	}

	rowsAffected, err := r.exec(ctx, query, args)
	if err != nil {
		return wrapExec("MarkRefund", err)
	}
	if rowsAffected == 0 {
		return ErrRefundNotFound
	}

	return nil
}

// ListRefundsByTransaction список возвратов по транзакции (старые первыми)
func (r *Repository) ListRefundsByTransaction(ctx context.Context, transactionID int64) ([]*domain.PaymentRefund, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"transaction_id",
		"provider_refund_id",
		"amount",
		"platform_fee_refund",
		"practitioner_refund",
		"reason",
		"initiated_by",
		"refund_status",
		"created_at",
		"updated_at",
	).
		From("payment_refunds").
		Where(squirrel.Eq{"transaction_id": transactionID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, wrapBuild("ListRefundsByTransaction", err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExec("ListRefundsByTransaction", err)
	}
	defer rows.Close()

	refunds := make([]*domain.PaymentRefund, 0)
	for rows.Next() {
		var (
			refund     domain.PaymentRefund
			providerID sql.NullString
		)
		err := rows.Scan(
			&refund.ID,
			&refund.TransactionID,
			&providerID,
			&refund.Amount,
			&refund.PlatformFeeRefund,
			&refund.PractitionerRefund,
			&refund.Reason,
			&refund.InitiatedBy,
			&refund.Status,
			&refund.CreatedAt,
			&refund.UpdatedAt,
		)
		if err != nil {
			return nil, wrapScan("ListRefundsByTransaction", err)
		}
		if providerID.Valid {
			refund.ProviderRefundID = &providerID.String
		}
		refunds = append(refunds, &refund)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapScan("ListRefundsByTransaction", err)
	}

	return refunds, nil
}
