// Package store persists sites and report samples in Postgres.
//
// Samples are append-only: a sample and its points are created in a single
// transaction and never updated or deleted afterwards.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const CONN_ENV_VAR string = "REPORTING_CONN_STRING"

var ErrSiteNotFound = errors.New("site not found")

type Store struct {
	pool *pgxpool.Pool
}

// Creates the connection pool, meant to be called once at startup and shared
func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("could not create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}
