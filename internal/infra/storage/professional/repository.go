package professional

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

const table = "professionals"

var columns = []string{
	"id",
	"name",
	"active",
	"working_hours",
	"start_hour",
	"end_hour",
	"closed_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий мастеров и их расписаний
type Repository struct {
	db     DBExecutor
	logger Logger
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db DBExecutor, log Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// GetByID получает мастера вместе с расписанием
// JSON-колонки разбираются здесь: наружу уходят только типы domain
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := r.scanProfessional(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan professional: %v", ErrScanRow, err)
	}

	return p, nil
}

// ListActive получает активных мастеров
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	professionals := make([]*domain.Professional, 0)
	for rows.Next() {
		p, err := r.scanProfessional(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}
		professionals = append(professionals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return professionals, nil
}

// UpdateWorkingHours сохраняет расписание по дням недели и очищает устаревшие поля
func (r *Repository) UpdateWorkingHours(ctx context.Context, id int64, hours domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	encoded, err := schedulejson.EncodeWorkingHours(hours)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours: %v", ErrEncode, err)
	}

	var value interface{}
	if encoded != nil {
		value = string(encoded)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("working_hours", value).
		Set("start_hour", nil).
		Set("end_hour", nil).
		Set("closed_days", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrProfessionalNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanProfessional(row rowScanner) (*domain.Professional, error) {
	var (
		p                    domain.Professional
		workingHours         []byte
		closedDays           []byte
		startHour, endHour   sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Active,
		&workingHours,
		&startHour,
		&endHour,
		&closedDays,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	hours, ok := schedulejson.DecodeWorkingHours(workingHours)
	if !ok {
		r.logger.Warn("professional id=%d: working_hours %q could not be parsed, affected days are closed", p.ID, workingHours)
	}
	p.WorkingHours = hours

	legacy, ok := decodeLegacy(startHour, endHour, closedDays)
	if !ok {
		r.logger.Warn("professional id=%d: legacy schedule start=%q end=%q closed_days=%q could not be parsed",
			p.ID, startHour.String, endHour.String, closedDays)
	}
	p.Legacy = legacy
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// decodeLegacy собирает устаревшее расписание. Если не задано ни начало, ни конец - его нет
// ok=false, если какое-то из полей не удалось разобрать
func decodeLegacy(startHour, endHour sql.NullString, closedDays []byte) (*domain.LegacySchedule, bool) {
	if !startHour.Valid && !endHour.Valid {
		return nil, true
	}

	closed, ok := schedulejson.DecodeClosedDays(closedDays)
	l := &domain.LegacySchedule{
		StartHour:  schedulejson.DecodeTime(nullStringPtr(startHour)),
		EndHour:    schedulejson.DecodeTime(nullStringPtr(endHour)),
		ClosedDays: closed,
	}
	if startHour.Valid && l.StartHour.IsZero() || endHour.Valid && l.EndHour.IsZero() {
		ok = false
	}
	return l, ok
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
