package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/internal/domain"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/dbmetrics"
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/psqlbuilder"
)

const tableBookings = "bookings"

var bookingColumns = []string{
	"id",
	"court_id",
	"user_id",
	"start_at",
	"end_at",
	"state",
	"payment_reference",
	"total_price",
	"cancellation_reason",
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

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Пересечение с занятым окном того же корта отклоняется exclusion constraint и возвращается как ErrBookingConflict.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"id",
			"court_id",
			"user_id",
			"start_at",
			"end_at",
			"state",
			"payment_reference",
			"total_price",
		).
		Values(
			booking.ID,
			booking.CourtID,
			booking.UserID,
			booking.Window.Start.UTC(),
			booking.Window.End.UTC(),
			booking.State,
			booking.PaymentReference,
			booking.TotalPrice,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		switch {
		case isExclusionViolation(err):
			return nil, fmt.Errorf("%w: Create - court=%s window=%s", ErrBookingConflict, booking.CourtID, booking.Window)
		case isForeignKeyViolation(err):
			return nil, fmt.Errorf("%w: Create - court=%s", ErrCourtNotFound, booking.CourtID)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = booking.CreatedAt.UTC()
	booking.UpdatedAt = booking.UpdatedAt.UTC()

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
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
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя (сначала новые)
// Опционально фильтрует по состоянию
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID, state *domain.BookingState) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_at DESC")

	if state != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"state": *state})
	}

	return r.queryBookings(ctx, "GetByUserID", selectBuilder)
}

// GetByCourtWithFilter получает бронирования корта
// From/To отбирают окна, пересекающиеся с [From, To); State - точное состояние.
func (r *Repository) GetByCourtWithFilter(ctx context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"court_id": filter.CourtID}).
		OrderBy("start_at ASC")

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": filter.To.UTC()})
	}
	if filter.State != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"state": *filter.State})
	}

	return r.queryBookings(ctx, "GetByCourtWithFilter", selectBuilder)
}

// ListByState получает все бронирования в состоянии state (старые первыми)
// Используется фоновыми воркерами
func (r *Repository) ListByState(ctx context.Context, state domain.BookingState) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"state": state}).
		OrderBy("created_at ASC")

	return r.queryBookings(ctx, "ListByState", selectBuilder)
}

// CountByState считает бронирования в состоянии state
func (r *Repository) CountByState(ctx context.Context, state domain.BookingState) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableBookings).
		Where(squirrel.Eq{"state": state}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByState - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByState - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// ListConfirmedBookingWindows окна бронирований, занимающих корт (pending, confirmed, in_progress),
// которые заканчиваются позже since
func (r *Repository) ListConfirmedBookingWindows(ctx context.Context, courtID uuid.UUID, since time.Time) ([]domain.BookedWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "start_at", "end_at").
		From(tableBookings).
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Eq{"state": domain.OccupyingStates}).
		Where(squirrel.Gt{"end_at": since.UTC()}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedBookingWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedBookingWindows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]domain.BookedWindow, 0)
	for rows.Next() {
		var w domain.BookedWindow
		if err := rows.Scan(&w.BookingID, &w.Window.Start, &w.Window.End); err != nil {
			return nil, fmt.Errorf("%w: ListConfirmedBookingWindows - scan row: %w", ErrScanRow, err)
		}
		w.Window.Start = w.Window.Start.UTC()
		w.Window.End = w.Window.End.UTC()
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedBookingWindows - rows error: %w", ErrScanRow, err)
	}

	return windows, nil
}

// UpdateState переводит бронирование из from в to, только если оно всё ещё в from
// Повторный вызов после успешного перехода возвращает ErrStateChanged
func (r *Repository) UpdateState(ctx context.Context, id uuid.UUID, from, to domain.BookingState) error {
	query, args, err := psqlbuilder.Update(tableBookings).
		Set("state", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "state": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCompareAndSet(ctx, "UpdateState", id, from, query, args)
}

// Cancel отменяет бронирование, находящееся в состоянии from, с указанием причины
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, from domain.BookingState, reason string) error {
	query, args, err := psqlbuilder.Update(tableBookings).
		Set("state", domain.StateCancelled).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "state": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCompareAndSet(ctx, "Cancel", id, from, query, args)
}

// Confirm подтверждает оплату pending бронирования
func (r *Repository) Confirm(ctx context.Context, id uuid.UUID, paymentReference string) error {
	query, args, err := psqlbuilder.Update(tableBookings).
		Set("state", domain.StateConfirmed).
		Set("payment_reference", paymentReference).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "state": domain.StatePending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCompareAndSet(ctx, "Confirm", id, domain.StatePending, query, args)
}

// Delete удаляет бронирование (используется воркером при reaper_delete_expired)
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableBookings).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// LockCourt берёт транзакционную advisory-блокировку корта
// Блокировка держится до конца транзакции и сериализует создание бронирований одного корта
func (r *Repository) LockCourt(ctx context.Context, courtID uuid.UUID) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockCourt - called outside of a transaction", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", courtID.String()); err != nil {
		return fmt.Errorf("%w: LockCourt - court=%s: %w", ErrExecQuery, courtID, err)
	}

	return nil
}

// execCompareAndSet выполняет условный UPDATE и различает "не найдено" и "не то состояние"
func (r *Repository) execCompareAndSet(ctx context.Context, op string, id uuid.UUID, from domain.BookingState, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s - booking %s is no longer %s", ErrStateChanged, op, id, from)
}

func (r *Repository) queryBookings(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var paymentRef, cancellationReason sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.CourtID,
		&booking.UserID,
		&booking.Window.Start,
		&booking.Window.End,
		&booking.State,
		&paymentRef,
		&booking.TotalPrice,
		&cancellationReason,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Window.Start = booking.Window.Start.UTC()
	booking.Window.End = booking.Window.End.UTC()
	booking.CreatedAt = booking.CreatedAt.UTC()
	booking.UpdatedAt = booking.UpdatedAt.UTC()
	if paymentRef.Valid {
		booking.PaymentReference = &paymentRef.String
	}
	if cancellationReason.Valid {
		booking.CancellationReason = &cancellationReason.String
	}

	return &booking, nil
}
