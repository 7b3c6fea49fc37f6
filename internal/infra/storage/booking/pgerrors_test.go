package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPqErrorMapping(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})

	assert.True(t, isExclusionViolation(wrapped))
	assert.False(t, isForeignKeyViolation(wrapped))
	assert.True(t, isForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isExclusionViolation(errors.New("connection reset")))
	assert.False(t, isExclusionViolation(nil))
}
