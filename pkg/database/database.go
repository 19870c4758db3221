// Package database wraps the PostgreSQL connection pools used by the project.
//
// Two handles are kept per process: a pgxpool.Pool for application queries and
// a database/sql handle (pgx stdlib driver) for libraries that require it
// (goose migrations, Watermill transactional publishing). Both draw from
// bounded pools so backpressure is queueing on acquisition, never unbounded
// connection growth.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jokebox/jokebox/pkg/logger"
)

const (
	maxConns          = 10
	minConns          = 2
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 30 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 10 * time.Second
)

// Database holds the shared connection pools.
type Database struct {
	pool  *pgxpool.Pool
	sqldb *sql.DB
	log   logger.Logger
}

// NewPool connects to PostgreSQL at databaseURL and verifies connectivity.
// Startup fails fast: an unreachable database is a fatal condition for the
// caller, never retried here.
func NewPool(ctx context.Context, databaseURL string, log logger.Logger) (*Database, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = minConns
	poolCfg.MaxConnLifetime = maxConnLifetime
	poolCfg.MaxConnIdleTime = maxConnIdleTime
	poolCfg.HealthCheckPeriod = healthCheckPeriod

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(pingCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	sqldb, err := sql.Open("pgx", databaseURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("open database/sql handle: %w", err)
	}
	sqldb.SetMaxOpenConns(maxConns)
	sqldb.SetMaxIdleConns(minConns)
	sqldb.SetConnMaxLifetime(maxConnLifetime)

	return &Database{pool: pool, sqldb: sqldb, log: log}, nil
}

// Pool returns the pgx connection pool for application queries.
func (d *Database) Pool() *pgxpool.Pool {
	return d.pool
}

// SQL returns the database/sql handle for libraries built on database/sql.
func (d *Database) SQL() *sql.DB {
	return d.sqldb
}

// WithTx runs fn inside a database/sql transaction. The transaction is rolled
// back on error or panic and committed otherwise. Use this for writes that
// must be atomic with event publishing.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			d.log.Error("tx rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks database connectivity on both handles.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgx pool ping: %w", err)
	}
	if err := d.sqldb.PingContext(ctx); err != nil {
		return fmt.Errorf("sql handle ping: %w", err)
	}
	return nil
}

// Close releases both pools. Safe to call once at shutdown.
func (d *Database) Close() {
	d.pool.Close()
	if err := d.sqldb.Close(); err != nil {
		d.log.Error("closing database/sql handle", "error", err)
	}
}
