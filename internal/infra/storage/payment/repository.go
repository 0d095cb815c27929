package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SessionBookingService/pkg/dbmetrics"
)

const uniqueViolation = "23505"

// Repository репозиторий платежных намерений, транзакций и возвратов.
// Все суммы хранятся в минимальных единицах валюты (BIGINT).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр платежного репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) exec(ctx context.Context, query string, args []interface{}) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func wrapBuild(op string, err error) error {
	return fmt.Errorf("%w: %s - build query: %v", ErrBuildQuery, op, err)
}

func wrapExec(op string, err error) error {
	return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
}

func wrapScan(op string, err error) error {
	return fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
}

