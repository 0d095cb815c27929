package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

var columns = []string{
	"id", "seeker_id", "practitioner_id", "service_offering_id", "time_slot_id", "session_date",
	"start_time", "end_time", "timezone", "session_type", "booking_status", "payment_status",
	"agreed_price", "currency", "prep_notes", "session_notes", "cancellation_reason",
	"cancelled_by", "cancelled_at", "completed_at", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestTransition_GuardedByFromStatus(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`UPDATE bookings SET booking_status = \$1, payment_status = \$2, updated_at = NOW\(\) WHERE id = \$3 AND booking_status IN \(\$4\)`).
		WithArgs("confirmed", "paid", int64(9), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Transition(context.Background(), 9,
		[]domain.BookingStatus{domain.StatusPending},
		domain.StatusConfirmed,
		TransitionUpdate{PaymentStatus: ptr.Ptr(domain.PaymentPaid)},
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_ConflictWhenStatusMoved(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`UPDATE bookings SET booking_status = \$1, cancellation_reason = \$2, cancelled_by = \$3, cancelled_at = NOW\(\), updated_at = NOW\(\) WHERE id = \$4 AND booking_status IN \(\$5,\$6\)`).
		WithArgs("cancelled", "changed plans", "seeker", int64(9), "pending", "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Transition(context.Background(), 9,
		[]domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed},
		domain.StatusCancelled,
		TransitionUpdate{
			CancellationReason: ptr.Ptr("changed plans"),
			CancelledBy:        ptr.Ptr(domain.ActorSeeker),
			MarkCancelled:      true,
		},
	)
	require.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_ScansNullableFields(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			int64(4), int64(1), int64(2), int64(3), int64(8), now,
			"10:00", "11:00", "Europe/Berlin", "remote", "cancelled", "refunded",
			"80.00", "usd", nil, nil, "payment_timeout",
			"platform", now, nil, now, now,
		))

	b, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	require.NotNil(t, b.TimeSlotID)
	assert.Equal(t, int64(8), *b.TimeSlotID)
	assert.Equal(t, domain.StatusCancelled, b.Status)
	assert.True(t, b.AgreedPrice.Equal(decimal.RequireFromString("80")))
	assert.Nil(t, b.PrepNotes)
	require.NotNil(t, b.CancelledBy)
	assert.Equal(t, domain.ActorPlatform, *b.CancelledBy)
	assert.Nil(t, b.CompletedAt)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), 4)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListAbandoned_OldestPendingFirst(t *testing.T) {
	repo, mock := newRepo(t)
	cutoff := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM bookings WHERE booking_status = \$1 AND created_at < \$2 ORDER BY created_at ASC LIMIT 50`).
		WithArgs("pending", cutoff).
		WillReturnRows(sqlmock.NewRows(columns))

	list, err := repo.ListAbandoned(context.Background(), cutoff, 50)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
