package court

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
	"github.com/MinhNhatQA15101910/se121.badcourt-sub001/pkg/types"
)

const (
	tableCourts    = "courts"
	tableHours     = "court_operating_hours"
	tableBlackouts = "blackout_windows"
)

// Repository репозиторий кортов, их часов работы и периодов недоступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает корт по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"facility_id",
		"name",
		"time_zone",
		"state",
		"price_per_hour",
		"created_at",
		"updated_at",
	).
		From(tableCourts).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var court domain.Court
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&court.ID,
		&court.FacilityID,
		&court.Name,
		&court.TimeZone,
		&court.State,
		&court.PricePerHour,
		&court.CreatedAt,
		&court.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan court: %w", ErrScanRow, err)
	}

	return &court, nil
}

// GetOperatingHours получает часы работы корта; дни без записи - выходные
func (r *Repository) GetOperatingHours(ctx context.Context, courtID uuid.UUID) (domain.OperatingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "open_from", "open_to").
		From(tableHours).
		Where(squirrel.Eq{"court_id": courtID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := domain.OperatingHours{}
	for rows.Next() {
		var weekday int
		var from, to types.TimeString
		if err := rows.Scan(&weekday, &from, &to); err != nil {
			return nil, fmt.Errorf("%w: GetOperatingHours - scan row: %w", ErrScanRow, err)
		}
		hours[time.Weekday(weekday)] = domain.DayHours{From: from, To: to}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - rows error: %w", ErrScanRow, err)
	}

	return hours, nil
}

// UpsertOperatingHours заменяет недельное расписание корта:
// дни из hours создаются или обновляются, остальные удаляются (корт в них закрыт).
// Вызывать внутри транзакции, чтобы расписание менялось целиком.
func (r *Repository) UpsertOperatingHours(ctx context.Context, courtID uuid.UUID, hours domain.OperatingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weekdays := make([]int, 0, len(hours))
	for day := range hours {
		weekdays = append(weekdays, int(day))
	}

	deleteBuilder := psqlbuilder.Delete(tableHours).Where(squirrel.Eq{"court_id": courtID})
	if len(weekdays) > 0 {
		deleteBuilder = deleteBuilder.Where(squirrel.NotEq{"weekday": weekdays})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertOperatingHours - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertOperatingHours - execute delete: %w", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return r.touch(ctx, courtID)
	}

	insertBuilder := psqlbuilder.Insert(tableHours).
		Columns("court_id", "weekday", "open_from", "open_to")
	for day, h := range hours {
		insertBuilder = insertBuilder.Values(courtID, int(day), h.From, h.To)
	}

	query, args, err = insertBuilder.
		Suffix("ON CONFLICT (court_id, weekday) DO UPDATE SET open_from = EXCLUDED.open_from, open_to = EXCLUDED.open_to").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertOperatingHours - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertOperatingHours - execute insert: %w", ErrExecQuery, err)
	}

	return r.touch(ctx, courtID)
}

// touch обновляет updated_at корта и проверяет его существование
func (r *Repository) touch(ctx context.Context, courtID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableCourts).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": courtID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: touch - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: touch - execute update: %w", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: touch - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCourtNotFound
	}
	return nil
}

// ListBlackoutWindows периоды недоступности корта, заканчивающиеся позже since
func (r *Repository) ListBlackoutWindows(ctx context.Context, courtID uuid.UUID, since time.Time) ([]domain.BlackoutWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"court_id",
		"start_at",
		"end_at",
		"reason",
		"created_by",
		"created_at",
	).
		From(tableBlackouts).
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Gt{"end_at": since.UTC()}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBlackoutWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlackoutWindows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]domain.BlackoutWindow, 0)
	for rows.Next() {
		var b domain.BlackoutWindow
		err := rows.Scan(
			&b.ID,
			&b.CourtID,
			&b.Window.Start,
			&b.Window.End,
			&b.Reason,
			&b.CreatedBy,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBlackoutWindows - scan row: %w", ErrScanRow, err)
		}
		b.Window.Start = b.Window.Start.UTC()
		b.Window.End = b.Window.End.UTC()
		blackouts = append(blackouts, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlackoutWindows - rows error: %w", ErrScanRow, err)
	}

	return blackouts, nil
}

// CreateBlackout создает период недоступности
func (r *Repository) CreateBlackout(ctx context.Context, blackout *domain.BlackoutWindow) (*domain.BlackoutWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if blackout.ID == uuid.Nil {
		blackout.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(tableBlackouts).
		Columns("id", "court_id", "start_at", "end_at", "reason", "created_by").
		Values(
			blackout.ID,
			blackout.CourtID,
			blackout.Window.Start.UTC(),
			blackout.Window.End.UTC(),
			blackout.Reason,
			blackout.CreatedBy,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlackout - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&blackout.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBlackout - execute insert: %w", ErrExecQuery, err)
	}

	return blackout, nil
}

// DeleteBlackout удаляет период недоступности корта
func (r *Repository) DeleteBlackout(ctx context.Context, courtID, blackoutID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableBlackouts).
		Where(squirrel.Eq{"id": blackoutID, "court_id": courtID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}
