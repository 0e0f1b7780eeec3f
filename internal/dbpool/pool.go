// Package dbpool defines the pooled-connection contract consumed by the
// repository layer, plus adapters for pgx and database/sql pools.
package dbpool

import "context"

// Row is a single result record keyed by storage column name.
type Row map[string]any

// Conn is a connection borrowed from a Pool.
// A Conn is owned by one unit of work and must be released exactly once.
type Conn interface {
	// Query executes a parameterized statement and returns all result rows.
	// Statements that produce no rows return an empty slice.
	Query(ctx context.Context, sql string, args ...any) ([]Row, error)

	// Release returns the connection to its pool.
	Release()
}

// Pool hands out connections, blocking when exhausted.
type Pool interface {
	Acquire(ctx context.Context) (Conn, error)
}
