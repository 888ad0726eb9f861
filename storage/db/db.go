package db

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Source is the primary (relational) content source.
type Source struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}
