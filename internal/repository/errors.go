package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup or mutation matched no rows.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable is returned by the placeholder repositories used when no
	// database is configured.
	ErrUnavailable = errors.New("catalog database not configured")
)

// invalidTextRepresentation is raised when a key is not a well-formed uuid.
const invalidTextRepresentation = "22P02"

// notFound reports whether err means no row can match: either the query
// returned nothing or the key could never exist.
func notFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
