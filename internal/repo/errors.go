package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var errDuplicateUsername = errors.New("duplicate username")

// IsUniqueViolation reports whether err is a unique-constraint violation,
// from either Postgres (code 23505) or the in-memory repo.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, errDuplicateUsername) {
		return true
	}
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}
