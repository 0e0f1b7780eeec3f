package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keywatch/keywatch/internal/model"
	"github.com/keywatch/keywatch/internal/testutil"
)

func TestMonitorKey(t *testing.T) {
	t.Parallel()

	if got := monitorKey("01HZX"); got != "monitor:01HZX" {
		t.Errorf("monitorKey() = %q, want %q", got, "monitor:01HZX")
	}
}

func TestNewWithClient_DefaultTTL(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := NewWithClient(client, 0)
	if c.ttl != DefaultMonitorTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultMonitorTTL)
	}
}

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	c, err := New(context.Background(), redisURL, ttl)
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(context.Background(), c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return c
}

func TestCache_MonitorRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, time.Minute)

	monitor := &model.Monitor{ID: testutil.UniqueID("mon"), Keyword: "golang", UserEmail: "a@b.com"}

	if _, err := c.GetMonitor(ctx, monitor.ID); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss before set, got %v", err)
	}

	if err := c.SetMonitor(ctx, monitor); err != nil {
		t.Fatalf("set monitor: %v", err)
	}

	got, err := c.GetMonitor(ctx, monitor.ID)
	if err != nil {
		t.Fatalf("get monitor: %v", err)
	}
	if *got != *monitor {
		t.Errorf("cached monitor = %+v, want %+v", got, monitor)
	}

	ttl, err := c.Client().TTL(ctx, monitorKey(monitor.ID)).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("unexpected ttl %v", ttl)
	}

	if err := c.DeleteMonitor(ctx, monitor.ID); err != nil {
		t.Fatalf("delete monitor: %v", err)
	}
	if _, err := c.GetMonitor(ctx, monitor.ID); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after delete, got %v", err)
	}
}
