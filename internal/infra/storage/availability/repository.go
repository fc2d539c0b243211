package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

var windowColumns = []string{
	"id",
	"agenda_id",
	"day_of_week",
	"start_time",
	"end_time",
}

// Repository репозиторий недельных окон доступности и обеденного перерыва агенды
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByAgenda получает все окна агенды, упорядоченные по дню и времени
func (r *Repository) ListByAgenda(ctx context.Context, agendaID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	return r.list(ctx, squirrel.Eq{"agenda_id": agendaID}, "ListByAgenda")
}

// ListWindows получает окна агенды на конкретный день недели
func (r *Repository) ListWindows(ctx context.Context, agendaID uuid.UUID, day time.Weekday) ([]domain.AvailabilityWindow, error) {
	return r.list(ctx, squirrel.Eq{"agenda_id": agendaID, "day_of_week": int(day)}, "ListWindows")
}

// ReplaceWindows удаляет все окна агенды и вставляет переданные.
// Вызывается внутри транзакции, чтобы неделя сохранялась целиком.
func (r *Repository) ReplaceWindows(ctx context.Context, agendaID uuid.UUID, windows []domain.AvailabilityWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability").
		Where(squirrel.Eq{"agenda_id": agendaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute delete: %v", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("availability").Columns(windowColumns...)
	for i := range windows {
		if windows[i].ID == uuid.Nil {
			windows[i].ID = uuid.New()
		}
		windows[i].AgendaID = agendaID
		insert = insert.Values(
			windows[i].ID,
			agendaID,
			int(windows[i].DayOfWeek),
			windows[i].StartTime,
			windows[i].EndTime,
		)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetLunchBreak получает перерыв агенды; nil = перерыва нет
func (r *Repository) GetLunchBreak(ctx context.Context, agendaID uuid.UUID) (*domain.LunchBreak, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("lunch_break_start", "lunch_break_end").
		From("agendas").
		Where(squirrel.Eq{"id": agendaID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLunchBreak - build select query: %v", ErrBuildQuery, err)
	}

	var start, end types.TimeString
	err = executor.QueryRowContext(ctx, query, args...).Scan(&start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAgendaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLunchBreak - scan: %v", ErrScanRow, err)
	}

	if start.IsZero() || end.IsZero() {
		return nil, nil
	}
	return &domain.LunchBreak{Start: start, End: end}, nil
}

// SetLunchBreak сохраняет перерыв агенды; nil очищает его
func (r *Repository) SetLunchBreak(ctx context.Context, agendaID uuid.UUID, lunch *domain.LunchBreak) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var start, end types.TimeString
	if lunch != nil {
		start, end = lunch.Start, lunch.End
	}

	query, args, err := psqlbuilder.Update("agendas").
		Set("lunch_break_start", start).
		Set("lunch_break_end", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": agendaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetLunchBreak - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetLunchBreak - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetLunchBreak - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAgendaNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, where squirrel.Eq, method string) ([]domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("availability").
		Where(where).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	windows := make([]domain.AvailabilityWindow, 0)
	for rows.Next() {
		var (
			w   domain.AvailabilityWindow
			day int
		)
		if err := rows.Scan(&w.ID, &w.AgendaID, &day, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		w.DayOfWeek = time.Weekday(day)
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return windows, nil
}
