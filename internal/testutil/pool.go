package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/keywatch/keywatch/internal/dbpool"
)

// ErrUnsupportedStatement is returned by MemoryPool for statements it cannot interpret.
var ErrUnsupportedStatement = errors.New("unsupported statement")

// Statement is a recorded query call.
type Statement struct {
	SQL  string
	Args []any
}

// poolRecorder tracks acquisitions, releases and statements.
type poolRecorder struct {
	mu         sync.Mutex
	acquired   int
	released   int
	statements []Statement
}

func (r *poolRecorder) recordStatement(sql string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, Statement{SQL: sql, Args: append([]any(nil), args...)})
}

// Acquired returns the number of successful acquisitions.
func (r *poolRecorder) Acquired() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acquired
}

// Released returns the number of release calls.
func (r *poolRecorder) Released() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// Statements returns a copy of every statement issued so far.
func (r *poolRecorder) Statements() []Statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Statement(nil), r.statements...)
}

// FakePool is a scripted dbpool.Pool.
// SELECT statements return SelectRows; every other statement returns no rows.
type FakePool struct {
	poolRecorder

	AcquireErr error
	QueryErr   error
	SelectRows []dbpool.Row
}

// Acquire implements dbpool.Pool.
func (p *FakePool) Acquire(ctx context.Context) (dbpool.Conn, error) {
	if p.AcquireErr != nil {
		return nil, p.AcquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return &fakeConn{recorder: &p.poolRecorder, query: p.query}, nil
}

func (p *FakePool) query(sql string, args []any) ([]dbpool.Row, error) {
	if p.QueryErr != nil {
		return nil, p.QueryErr
	}
	if strings.HasPrefix(strings.TrimSpace(sql), "SELECT") {
		return append([]dbpool.Row(nil), p.SelectRows...), nil
	}
	return []dbpool.Row{}, nil
}

// MemoryPool is a dbpool.Pool backed by an in-memory monitor table.
// It understands the monitor statements issued by the repository package.
type MemoryPool struct {
	poolRecorder

	tableMu sync.Mutex
	rows    []dbpool.Row
}

// NewMemoryPool returns an empty MemoryPool.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{}
}

// Insert adds a row directly, bypassing the recorder.
func (p *MemoryPool) Insert(id, keyword, userEmail string) {
	p.tableMu.Lock()
	defer p.tableMu.Unlock()
	p.rows = append(p.rows, dbpool.Row{"id": id, "keyword": keyword, "user_email": userEmail})
}

// Len returns the number of stored rows.
func (p *MemoryPool) Len() int {
	p.tableMu.Lock()
	defer p.tableMu.Unlock()
	return len(p.rows)
}

// Acquire implements dbpool.Pool.
func (p *MemoryPool) Acquire(ctx context.Context) (dbpool.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return &fakeConn{recorder: &p.poolRecorder, query: p.query}, nil
}

func (p *MemoryPool) query(sql string, args []any) ([]dbpool.Row, error) {
	stmt := strings.Join(strings.Fields(sql), " ")

	p.tableMu.Lock()
	defer p.tableMu.Unlock()

	switch {
	case strings.HasPrefix(stmt, "INSERT INTO monitor") && len(args) == 3:
		for _, row := range p.rows {
			if row["id"] == args[0] {
				return nil, errors.New("duplicate key value violates unique constraint \"monitor_pkey\"")
			}
		}
		p.rows = append(p.rows, dbpool.Row{"id": args[0], "keyword": args[1], "user_email": args[2]})
		return []dbpool.Row{}, nil
	case strings.HasPrefix(stmt, "SELECT") && strings.Contains(stmt, "WHERE id = $1"):
		return p.filter("id", args[0]), nil
	case strings.HasPrefix(stmt, "SELECT") && strings.Contains(stmt, "WHERE user_email = $1"):
		return p.filter("user_email", args[0]), nil
	case strings.HasPrefix(stmt, "DELETE FROM monitor WHERE id = $1"):
		kept := p.rows[:0]
		for _, row := range p.rows {
			if row["id"] != args[0] {
				kept = append(kept, row)
			}
		}
		p.rows = kept
		return []dbpool.Row{}, nil
	default:
		return nil, ErrUnsupportedStatement
	}
}

func (p *MemoryPool) filter(column string, value any) []dbpool.Row {
	result := []dbpool.Row{}
	for _, row := range p.rows {
		if row[column] == value {
			copied := make(dbpool.Row, len(row))
			for k, v := range row {
				copied[k] = v
			}
			result = append(result, copied)
		}
	}
	return result
}

type fakeConn struct {
	recorder *poolRecorder
	query    func(sql string, args []any) ([]dbpool.Row, error)
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) ([]dbpool.Row, error) {
	c.recorder.recordStatement(sql, args)
	return c.query(sql, args)
}

func (c *fakeConn) Release() {
	c.recorder.mu.Lock()
	defer c.recorder.mu.Unlock()
	c.recorder.released++
}
