// Package repository provides the monitor data-access layer.
//
// Every unit of work runs inside a session that borrows exactly one pooled
// connection, binds a MonitorRepository to it and returns the connection to
// the pool once the work has finished, however it finished.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/keywatch/keywatch/internal/dbpool"
	"github.com/keywatch/keywatch/internal/idgen"
)

// ErrSessionClosed is returned when a MonitorRepository is used after its
// session has released the connection.
var ErrSessionClosed = errors.New("session closed")

// Session runs units of work against a connection pool.
// A Session holds no per-call state and is safe for concurrent use.
type Session struct {
	pool   dbpool.Pool
	ids    idgen.Generator
	logger *slog.Logger
}

// NewSession creates a Session. A nil generator defaults to ULIDs and a nil
// logger to slog.Default().
func NewSession(pool dbpool.Pool, ids idgen.Generator, logger *slog.Logger) *Session {
	if ids == nil {
		ids = idgen.ULID{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		pool:   pool,
		ids:    ids,
		logger: logger,
	}
}

// Run acquires a connection, passes a repository bound to it to work and
// releases the connection after work returns or panics.
// Whatever work returns is passed through unchanged.
func Run[T any](ctx context.Context, s *Session, work func(*MonitorRepository) (T, error)) (T, error) {
	var zero T

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to acquire connection", slog.String("error", err.Error()))
		return zero, fmt.Errorf("failed to acquire connection: %w", err)
	}

	repo := newMonitorRepository(conn, s.ids)
	defer func() {
		// release never consults ctx, so cancellation cannot skip it
		repo.release()
		s.logger.DebugContext(ctx, "connection released")
	}()

	return work(repo)
}

// Do runs work in its own session when no result value is needed.
func (s *Session) Do(ctx context.Context, work func(*MonitorRepository) error) error {
	_, err := Run(ctx, s, func(repo *MonitorRepository) (struct{}, error) {
		return struct{}{}, work(repo)
	})
	return err
}
