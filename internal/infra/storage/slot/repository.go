package slot

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

var slotColumns = []string{
	"id",
	"practitioner_id",
	"service_offering_id",
	"slot_date",
	"to_char(start_time, 'HH24:MI')",
	"to_char(end_time, 'HH24:MI')",
	"timezone",
	"max_bookings",
	"current_bookings",
	"is_available",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов (учет вместимости)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create публикует новый слот
func (r *Repository) Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns(
			"practitioner_id",
			"service_offering_id",
			"slot_date",
			"start_time",
			"end_time",
			"timezone",
			"max_bookings",
			"current_bookings",
			"is_available",
		).
		Values(
			slot.PractitionerID,
			slot.ServiceOfferingID,
			slot.SlotDate,
			slot.StartTime,
			slot.EndTime,
			slot.Timezone,
			slot.MaxBookings,
			0,
			slot.IsAvailable,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	slot.CurrentBookings = 0

	return slot, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ListByPractitioner список слотов практика, опционально на конкретную дату
func (r *Repository) ListByPractitioner(ctx context.Context, practitionerID int64, date *time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"practitioner_id": practitionerID}).
		OrderBy("slot_date ASC", "start_time ASC")

	if date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": *date})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByPractitioner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByPractitioner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByPractitioner - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByPractitioner - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// Reserve занимает одну единицу вместимости слота.
// Проверка и инкремент выполняются одним условным UPDATE, поэтому конкурентные
// резервирования не могут превысить max_bookings. Ноль затронутых строк = ErrSlotUnavailable.
func (r *Repository) Reserve(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("current_bookings", squirrel.Expr("current_bookings + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID, "is_available": true}).
		Where(squirrel.Expr("current_bookings < max_bookings")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	rowsAffected, err := execAffected(ctx, executor, query, args)
	if err != nil {
		return fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotUnavailable
	}

	return nil
}

// Release возвращает одну единицу вместимости. Счетчик никогда не уходит ниже нуля.
func (r *Repository) Release(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("current_bookings", squirrel.Expr("GREATEST(current_bookings - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	rowsAffected, err := execAffected(ctx, executor, query, args)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// SetAvailability открывает или закрывает слот для новых бронирований
func (r *Repository) SetAvailability(ctx context.Context, slotID int64, available bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_available", available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - build update query: %v", ErrBuildQuery, err)
	}

	rowsAffected, err := execAffected(ctx, executor, query, args)
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - execute update: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// Delete удаляет слот, только если на нем нет бронирований
func (r *Repository) Delete(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"id": slotID, "current_bookings": 0}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	rowsAffected, err := execAffected(ctx, executor, query, args)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		// Различаем "нет слота" и "слот занят"
		if _, err := r.GetByID(ctx, slotID); err != nil {
			return err
		}
		return ErrSlotNotDeletable
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var offeringID sql.NullInt64

	err := row.Scan(
		&slot.ID,
		&slot.PractitionerID,
		&offeringID,
		&slot.SlotDate,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Timezone,
		&slot.MaxBookings,
		&slot.CurrentBookings,
		&slot.IsAvailable,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if offeringID.Valid {
		slot.ServiceOfferingID = &offeringID.Int64
	}

	return &slot, nil
}

func execAffected(ctx context.Context, executor DBExecutor, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
