package txmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/pkg/dbmetrics"
)

func TestManager_Do_Commit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mgr := NewTransactionManager(dbmetrics.Wrap(db, nil))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE time_slots").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = mgr.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		exec := dbmetrics.GetExecutor(ctx, nil)
		_, err := exec.ExecContext(ctx, "UPDATE time_slots SET current_bookings = current_bookings + 1")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Do_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mgr := NewTransactionManager(dbmetrics.Wrap(db, nil))
	errSlot := errors.New("slot unavailable")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = mgr.Do(context.Background(), func(ctx context.Context) error {
		return errSlot
	})
	assert.ErrorIs(t, err, errSlot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Do_NestedReusesTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mgr := NewTransactionManager(dbmetrics.Wrap(db, nil))

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = mgr.Do(context.Background(), func(ctx context.Context) error {
		return mgr.Do(ctx, func(inner context.Context) error {
			assert.True(t, dbmetrics.IsInTransaction(inner))
			return nil
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
