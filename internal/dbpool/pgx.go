package dbpool

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool adapts a pgx connection pool to Pool.
type PgxPool struct {
	pool *pgxpool.Pool
}

// NewPgxPool creates a pgx connection pool and verifies connectivity.
func NewPgxPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*PgxPool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if maxConns > 0 {
		config.MaxConns = maxConns
	}
	if minConns > 0 {
		config.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PgxPool{pool: pool}, nil
}

// Acquire borrows a connection from the pool.
func (p *PgxPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxConn{conn: conn}, nil
}

// Ping checks database connectivity.
func (p *PgxPool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the connection pool.
func (p *PgxPool) Close() {
	p.pool.Close()
}

// Pool returns the underlying pgx pool.
// Use sparingly - prefer going through Acquire.
func (p *PgxPool) Pool() *pgxpool.Pool {
	return p.pool
}

type pgxConn struct {
	conn *pgxpool.Conn
}

func (c *pgxConn) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	// CollectRows closes rows and reports any deferred statement error.
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}

	result := make([]Row, len(maps))
	for i, m := range maps {
		result[i] = Row(m)
	}
	return result, nil
}

func (c *pgxConn) Release() {
	c.conn.Release()
}
