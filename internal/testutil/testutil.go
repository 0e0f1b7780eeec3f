// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/keywatch/keywatch/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// monitorTableDDL is the test fixture for the monitor table.
// The production schema is owned outside this repository.
const monitorTableDDL = `
	DROP TABLE IF EXISTS monitor;
	CREATE TABLE monitor (
		id         TEXT PRIMARY KEY,
		keyword    TEXT NOT NULL,
		user_email TEXT NOT NULL
	);
	CREATE INDEX monitor_user_email_idx ON monitor (user_email);
`

// ResetMonitorSchema drops and recreates the monitor table for tests.
func ResetMonitorSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, monitorTableDDL); err != nil {
		return fmt.Errorf("reset monitor table: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestMonitor creates an unsaved monitor (no ID) for the given owner.
func NewTestMonitor(t testing.TB, userEmail string) *model.Monitor {
	t.Helper()
	return &model.Monitor{
		Keyword:   UniqueID("kw"),
		UserEmail: userEmail,
	}
}

// UniqueEmail generates a unique owner email for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
