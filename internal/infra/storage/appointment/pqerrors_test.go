package appointment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSlotConflict(t *testing.T) {
	assert.True(t, isSlotConflict(&pq.Error{Code: "23P01"}))
	assert.True(t, isSlotConflict(fmt.Errorf("insert: %w", &pq.Error{Code: "40001"})))
	assert.False(t, isSlotConflict(&pq.Error{Code: "23505"}))
	assert.False(t, isSlotConflict(errors.New("connection reset")))
	assert.False(t, isSlotConflict(nil))
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(fmt.Errorf("select: %w", &pq.Error{Code: "40001"})))
	assert.False(t, isSerializationFailure(&pq.Error{Code: "23P01"}))
	assert.False(t, isSerializationFailure(errors.New("connection reset")))
}
