package booking

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqExclusionViolation  = "23P01"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isExclusionViolation(err error) bool {
	return pqCode(err) == pqExclusionViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}
