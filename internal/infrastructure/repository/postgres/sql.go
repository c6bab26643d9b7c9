package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
