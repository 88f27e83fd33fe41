package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the slice of *pgxpool.Pool the repositories use.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
