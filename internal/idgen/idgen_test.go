package idgen

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		kind    string
		want    Generator
		wantErr error
	}{
		{"", ULID{}, nil},
		{"ulid", ULID{}, nil},
		{"ULID", ULID{}, nil},
		{"uuid", UUID{}, nil},
		{" uuid ", UUID{}, nil},
		{"snowflake", nil, ErrUnknownKind},
	}

	for _, tc := range testCases {
		t.Run(tc.kind, func(t *testing.T) {
			got, err := New(tc.kind)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("New(%q) error = %v, want %v", tc.kind, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("New(%q) = %T, want %T", tc.kind, got, tc.want)
			}
		})
	}
}

func TestULID_Format(t *testing.T) {
	id := ULID{}.NewID()
	if len(id) != ulid.EncodedSize {
		t.Fatalf("expected %d chars, got %d (%q)", ulid.EncodedSize, len(id), id)
	}
	if _, err := ulid.Parse(id); err != nil {
		t.Errorf("generated id does not parse as ULID: %v", err)
	}
}

func TestULID_Ordered(t *testing.T) {
	gen := ULID{}
	prev := gen.NewID()
	for i := 0; i < 1000; i++ {
		next := gen.NewID()
		if next <= prev {
			t.Fatalf("ids not increasing: %q then %q", prev, next)
		}
		prev = next
	}
}

func TestUUID_Format(t *testing.T) {
	id := UUID{}.NewID()
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("generated id does not parse as UUID: %v", err)
	}
	if parsed.Version() != 4 {
		t.Errorf("expected version 4, got %d", parsed.Version())
	}
}

func TestGenerators_UniqueUnderConcurrency(t *testing.T) {
	for _, gen := range []Generator{ULID{}, UUID{}} {
		const workers, perWorker = 8, 500

		var mu sync.Mutex
		seen := make(map[string]struct{}, workers*perWorker)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					id := gen.NewID()
					mu.Lock()
					seen[id] = struct{}{}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if len(seen) != workers*perWorker {
			t.Errorf("%T: expected %d unique ids, got %d", gen, workers*perWorker, len(seen))
		}
	}
}

func TestFunc(t *testing.T) {
	gen := Func(func() string { return "fixed" })
	if got := gen.NewID(); got != "fixed" {
		t.Errorf("NewID() = %q, want %q", got, "fixed")
	}
}
