package studio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/schedulejson"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const (
	table = "studio_settings"

	// settingsRowID настройки студии хранятся одной строкой
	settingsRowID = 1
)

// Repository репозиторий настроек студии
type Repository struct {
	db     DBExecutor
	logger Logger
}

// NewRepository создает новый экземпляр репозитория настроек студии
func NewRepository(db DBExecutor, log Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// GetDefaults получает расписание студии по умолчанию
// Если строки нет, возвращаются встроенные значения (08:00-18:00, воскресенье выходной)
func (r *Repository) GetDefaults(ctx context.Context) (domain.StudioDefaults, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("opening_time", "closing_time", "closed_days", "updated_at").
		From(table).
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return domain.StudioDefaults{}, fmt.Errorf("%w: GetDefaults - build select query: %v", ErrBuildQuery, err)
	}

	var (
		opening, closing sql.NullString
		closedDays       []byte
		updatedAt        sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&opening, &closing, &closedDays, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultStudioDefaults(), nil
	}
	if err != nil {
		return domain.StudioDefaults{}, fmt.Errorf("%w: GetDefaults - scan settings: %v", ErrScanRow, err)
	}

	d, ok := decodeDefaults(opening, closing, closedDays, updatedAt)
	if !ok {
		r.logger.Warn("studio settings: opening=%q closing=%q closed_days=%q could not be parsed, affected days are closed",
			opening.String, closing.String, closedDays)
	}
	return d, nil
}

// SaveDefaults сохраняет расписание студии (upsert единственной строки)
func (r *Repository) SaveDefaults(ctx context.Context, d domain.StudioDefaults) (domain.StudioDefaults, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "opening_time", "closing_time", "closed_days").
		Values(settingsRowID, d.Start.String(), d.End.String(), string(schedulejson.EncodeClosedDays(d.ClosedDays))).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			opening_time = EXCLUDED.opening_time,
			closing_time = EXCLUDED.closing_time,
			closed_days = EXCLUDED.closed_days,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return domain.StudioDefaults{}, fmt.Errorf("%w: SaveDefaults - build upsert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return domain.StudioDefaults{}, fmt.Errorf("%w: SaveDefaults - execute upsert: %v", ErrExecQuery, err)
	}

	d.UpdatedAt = updatedAt.Time
	return d, nil
}

// decodeDefaults битые значения не подменяются встроенными: время станет пустым и дни закроются
// ok=false, если какое-то из полей не удалось разобрать
func decodeDefaults(opening, closing sql.NullString, closedDays []byte, updatedAt sql.NullTime) (domain.StudioDefaults, bool) {
	closed, ok := schedulejson.DecodeClosedDays(closedDays)
	d := domain.StudioDefaults{
		Start:      schedulejson.DecodeTime(nullStringPtr(opening)),
		End:        schedulejson.DecodeTime(nullStringPtr(closing)),
		ClosedDays: closed,
		UpdatedAt:  updatedAt.Time,
	}
	if opening.Valid && d.Start.IsZero() || closing.Valid && d.End.IsZero() {
		ok = false
	}
	return d, ok
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
