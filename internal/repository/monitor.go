package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/keywatch/keywatch/internal/dbpool"
	"github.com/keywatch/keywatch/internal/idgen"
	"github.com/keywatch/keywatch/internal/model"
)

// Common errors for monitor repository operations.
var (
	ErrNilMonitor       = errors.New("monitor is nil")
	ErrDuplicateMonitor = errors.New("more than one monitor matches id")
	ErrMalformedRow     = errors.New("malformed monitor row")
)

// MonitorRepository issues monitor statements on a single borrowed connection.
// It is valid only inside the session that created it.
type MonitorRepository struct {
	conn   dbpool.Conn
	ids    idgen.Generator
	closed atomic.Bool
}

func newMonitorRepository(conn dbpool.Conn, ids idgen.Generator) *MonitorRepository {
	return &MonitorRepository{conn: conn, ids: ids}
}

// release returns the connection once; later calls are no-ops.
func (r *MonitorRepository) release() {
	if r.closed.CompareAndSwap(false, true) {
		r.conn.Release()
	}
}

func (r *MonitorRepository) query(ctx context.Context, sql string, args ...any) ([]dbpool.Row, error) {
	if r.closed.Load() {
		return nil, ErrSessionClosed
	}
	return r.conn.Query(ctx, sql, args...)
}

// SaveMonitor inserts a monitor. A monitor without an ID is assigned a new
// one in place before the insert, and the same pointer is returned.
func (r *MonitorRepository) SaveMonitor(ctx context.Context, monitor *model.Monitor) (*model.Monitor, error) {
	if monitor == nil {
		return nil, ErrNilMonitor
	}
	if r.closed.Load() {
		return nil, ErrSessionClosed
	}

	if monitor.ID == "" {
		monitor.ID = r.ids.NewID()
	}

	query := `
		INSERT INTO monitor (id, keyword, user_email)
		VALUES ($1, $2, $3)
	`

	row := monitor.ToRow()
	if _, err := r.query(ctx, query, row.ID, row.Keyword, row.UserEmail); err != nil {
		return nil, fmt.Errorf("failed to save monitor: %w", err)
	}

	return monitor, nil
}

// GetMonitor retrieves a monitor by its ID.
// A missing monitor yields (nil, nil).
func (r *MonitorRepository) GetMonitor(ctx context.Context, id string) (*model.Monitor, error) {
	query := `
		SELECT id, keyword, user_email
		FROM monitor
		WHERE id = $1
	`

	rows, err := r.query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get monitor by ID: %w", err)
	}

	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return scanMonitor(rows[0])
	default:
		return nil, fmt.Errorf("%w: %s (%d rows)", ErrDuplicateMonitor, id, len(rows))
	}
}

// GetAllMonitors retrieves every monitor owned by userEmail in storage order.
// The result is never nil.
func (r *MonitorRepository) GetAllMonitors(ctx context.Context, userEmail string) ([]*model.Monitor, error) {
	query := `
		SELECT id, keyword, user_email
		FROM monitor
		WHERE user_email = $1
	`

	rows, err := r.query(ctx, query, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitors: %w", err)
	}

	monitors := make([]*model.Monitor, 0, len(rows))
	for _, row := range rows {
		monitor, err := scanMonitor(row)
		if err != nil {
			return nil, err
		}
		monitors = append(monitors, monitor)
	}

	return monitors, nil
}

// DeleteMonitor removes a monitor by ID.
// Deleting an ID that does not exist is not an error.
func (r *MonitorRepository) DeleteMonitor(ctx context.Context, id string) error {
	query := `
		DELETE FROM monitor WHERE id = $1
	`

	if _, err := r.query(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete monitor: %w", err)
	}

	return nil
}

// scanMonitor maps a storage row into the domain monitor.
func scanMonitor(row dbpool.Row) (*model.Monitor, error) {
	var (
		mr  model.MonitorRow
		err error
	)

	if mr.ID, err = stringColumn(row, "id"); err != nil {
		return nil, err
	}
	if mr.Keyword, err = stringColumn(row, "keyword"); err != nil {
		return nil, err
	}
	if mr.UserEmail, err = stringColumn(row, "user_email"); err != nil {
		return nil, err
	}

	return model.MonitorFromRow(mr), nil
}

func stringColumn(row dbpool.Row, column string) (string, error) {
	value, ok := row[column]
	if !ok {
		return "", fmt.Errorf("%w: missing column %q", ErrMalformedRow, column)
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("%w: column %q is null", ErrMalformedRow, column)
	default:
		return "", fmt.Errorf("%w: column %q has type %T", ErrMalformedRow, column, value)
	}
}
