package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/pkg/dbmetrics"
	"github.com/m04kA/SessionBookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"seeker_id",
	"practitioner_id",
	"service_offering_id",
	"time_slot_id",
	"session_date",
	"to_char(start_time, 'HH24:MI')",
	"to_char(end_time, 'HH24:MI')",
	"timezone",
	"session_type",
	"booking_status",
	"payment_status",
	"agreed_price",
	"currency",
	"prep_notes",
	"session_notes",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её: при создании со слотом
// резервирование и вставка должны выполняться в одной транзакции.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"seeker_id",
			"practitioner_id",
			"service_offering_id",
			"time_slot_id",
			"session_date",
			"start_time",
			"end_time",
			"timezone",
			"session_type",
			"booking_status",
			"payment_status",
			"agreed_price",
			"currency",
			"prep_notes",
		).
		Values(
			booking.SeekerID,
			booking.PractitionerID,
			booking.ServiceOfferingID,
			booking.TimeSlotID,
			booking.SessionDate,
			booking.StartTime,
			booking.EndTime,
			booking.Timezone,
			booking.SessionType,
			booking.Status,
			booking.PaymentStatus,
			booking.AgreedPrice,
			booking.Currency,
			booking.PrepNotes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListBySeeker получает список бронирований искателя
// Опционально фильтрует по статусу
func (r *Repository) ListBySeeker(ctx context.Context, seekerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"seeker_id": seekerID}).
		OrderBy("session_date DESC", "start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_status": *status})
	}

	return r.list(ctx, "ListBySeeker", selectBuilder)
}

// ListByPractitioner получает бронирования практика с фильтрацией по периоду и статусу
func (r *Repository) ListByPractitioner(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"practitioner_id": filter.PractitionerID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"session_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"session_date": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_status": *filter.Status})
	}

	// Для конкретной даты сортируем по времени начала
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("session_date DESC", "start_time DESC")
	}

	return r.list(ctx, "ListByPractitioner", selectBuilder)
}

// ListAbandoned возвращает pending бронирования, созданные раньше cutoff (старые первыми)
func (r *Repository) ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"booking_status": domain.StatusPending}).
		Where(squirrel.Lt{"created_at": cutoff}).
		OrderBy("created_at ASC").
		Limit(uint64(limit))

	return r.list(ctx, "ListAbandoned", selectBuilder)
}

// Transition переводит бронирование в статус to, только если текущий статус входит в from.
// Проверка и запись выполняются одним UPDATE ... WHERE booking_status IN (...):
// ноль затронутых строк означает, что статус уже изменил другой процесс (ErrStatusConflict).
func (r *Repository) Transition(
	ctx context.Context,
	id int64,
	from []domain.BookingStatus,
	to domain.BookingStatus,
	upd TransitionUpdate,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	updateBuilder := psqlbuilder.Update("bookings").
		Set("booking_status", to)

	if upd.PaymentStatus != nil {
		updateBuilder = updateBuilder.Set("payment_status", *upd.PaymentStatus)
	}
	if upd.CancellationReason != nil {
		updateBuilder = updateBuilder.Set("cancellation_reason", *upd.CancellationReason)
	}
	if upd.CancelledBy != nil {
		updateBuilder = updateBuilder.Set("cancelled_by", *upd.CancelledBy)
	}
	if upd.SessionNotes != nil {
		updateBuilder = updateBuilder.Set("session_notes", *upd.SessionNotes)
	}
	if upd.MarkCancelled {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}
	if upd.MarkCompleted {
		updateBuilder = updateBuilder.Set("completed_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"booking_status": fromStatuses}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Transition - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Transition - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Transition - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// SetPaymentStatus обновляет зеркало статуса оплаты на бронировании
func (r *Repository) SetPaymentStatus(ctx context.Context, id int64, status domain.BookingPaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking     domain.Booking
		timeSlotID  sql.NullInt64
		prepNotes   sql.NullString
		notes       sql.NullString
		reason      sql.NullString
		cancelledBy sql.NullString
		cancelledAt sql.NullTime
		completedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.SeekerID,
		&booking.PractitionerID,
		&booking.ServiceOfferingID,
		&timeSlotID,
		&booking.SessionDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Timezone,
		&booking.SessionType,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.AgreedPrice,
		&booking.Currency,
		&prepNotes,
		&notes,
		&reason,
		&cancelledBy,
		&cancelledAt,
		&completedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if timeSlotID.Valid {
		booking.TimeSlotID = &timeSlotID.Int64
	}
	if prepNotes.Valid {
		booking.PrepNotes = &prepNotes.String
	}
	if notes.Valid {
		booking.SessionNotes = &notes.String
	}
	if reason.Valid {
		booking.CancellationReason = &reason.String
	}
	if cancelledBy.Valid {
		actor := domain.Actor(cancelledBy.String)
		booking.CancelledBy = &actor
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	if completedAt.Valid {
		booking.CompletedAt = &completedAt.Time
	}

	return &booking, nil
}
