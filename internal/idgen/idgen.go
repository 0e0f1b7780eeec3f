// Package idgen produces identifiers for newly created entities.
// Identifiers are generated locally; no storage round-trip is needed.
package idgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Supported generator kinds.
const (
	KindULID = "ulid"
	KindUUID = "uuid"
)

// ErrUnknownKind is returned by New for an unsupported generator name.
var ErrUnknownKind = errors.New("unknown id generator")

// Generator produces a new unique identifier on each call.
type Generator interface {
	NewID() string
}

// ULID generates time-sortable ULIDs.
// ulid.Make is monotonic within a process and safe for concurrent use.
type ULID struct{}

// NewID returns a new ULID string.
func (ULID) NewID() string {
	return ulid.Make().String()
}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// NewID returns a new UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}

// New returns the generator registered under kind.
func New(kind string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindULID:
		return ULID{}, nil
	case KindUUID:
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Func adapts a plain function to Generator.
type Func func() string

// NewID calls f.
func (f Func) NewID() string {
	return f()
}
