// Package postgres holds the authoritative stores: markets, trade
// records and trader profiles.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pump-launchpad/internal/observability"
	"pump-launchpad/internal/storage"
)

// Pool wraps pgxpool.Pool so stores depend on one local type.
type Pool struct {
	*pgxpool.Pool
}

// NewPool opens a connection pool and verifies it with a ping.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// unique_violation, the only PostgreSQL error code the stores
// translate into a sentinel.
const pgErrUniqueViolation = "23505"

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}

func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// observeQuery feeds the query duration and error metrics. Deferred
// with a pointer to the named return so the final error is seen; the
// not-found and duplicate-key sentinels are expected outcomes, not
// query failures.
func observeQuery(operation string, start time.Time, err *error) {
	e := *err
	if errors.Is(e, storage.ErrNotFound) || errors.Is(e, storage.ErrDuplicateKey) {
		e = nil
	}
	observability.RecordDBQuery("postgres", operation, time.Since(start).Seconds(), e)
}
