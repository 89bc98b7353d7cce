package appointment

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type failingExecutor struct{ err error }

func (e failingExecutor) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, e.err
}

func (e failingExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, e.err
}

func (e failingExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return &sql.Row{}
}

func TestListForProfessional_QueryErrors(t *testing.T) {
	day := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)
	filter := domain.ProfessionalAgendaFilter{ProfessionalID: 1, StartDate: &day, EndDate: &day}

	t.Run("serialization failure", func(t *testing.T) {
		repo := NewRepository(failingExecutor{err: &pq.Error{Code: "40001"}})

		_, err := repo.ListForProfessional(context.Background(), filter)
		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		assert.NotErrorIs(t, err, ErrExecQuery)
	})

	t.Run("other error", func(t *testing.T) {
		repo := NewRepository(failingExecutor{err: errors.New("connection reset")})

		_, err := repo.ListForProfessional(context.Background(), filter)
		assert.ErrorIs(t, err, ErrExecQuery)
		assert.NotErrorIs(t, err, ErrConcurrentUpdate)
	})
}
