package dbpool

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"
)

// DriverPostgres is the database/sql driver name registered by lib/pq.
const DriverPostgres = "postgres"

// SQLPool adapts a database/sql handle to Pool.
type SQLPool struct {
	db *sql.DB
}

// OpenSQLPool opens a database/sql pool and verifies connectivity.
// database/sql has no minimum pool size; maxIdle caps how many idle
// connections are kept for reuse.
func OpenSQLPool(ctx context.Context, driver, dsn string, maxConns, maxIdle int) (*SQLPool, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLPool{db: db}, nil
}

// NewSQLPool wraps an already opened database handle.
func NewSQLPool(db *sql.DB) *SQLPool {
	return &SQLPool{db: db}
}

// Acquire reserves a single connection from the pool.
func (p *SQLPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{conn: conn}, nil
}

// Ping checks database connectivity.
func (p *SQLPool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database handle.
func (p *SQLPool) Close() {
	_ = p.db.Close()
}

type sqlConn struct {
	conn *sql.Conn
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, toRow(columns, values))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Release returns the connection to the database/sql pool.
func (c *sqlConn) Release() {
	_ = c.conn.Close()
}

// toRow keys scanned values by column name.
// Text columns arrive as []byte from some drivers and are copied to string.
func toRow(columns []string, values []any) Row {
	row := make(Row, len(columns))
	for i, col := range columns {
		if b, ok := values[i].([]byte); ok {
			row[col] = string(b)
			continue
		}
		row[col] = values[i]
	}
	return row
}
