package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL error codes for constraint violations
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to a named constraint. Constraint names let the
// repositories translate a storage conflict into the right domain error.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// isForeignKeyViolation reports whether err is a foreign-key violation,
// optionally restricted to a named constraint. Tables with more than one
// foreign key must name the constraint so only the right violation maps to
// a domain error.
func isForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != foreignKeyViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
