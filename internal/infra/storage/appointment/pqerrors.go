package appointment

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
)

// isSerializationFailure проверяет, что Postgres прервал сериализуемую транзакцию
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqSerializationFailure
}

// isSlotConflict проверяет, что Postgres отклонил запись из-за пересечения интервалов
func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqExclusionViolation || pqErr.Code == pqSerializationFailure
}
