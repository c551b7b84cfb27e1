// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/awbwapp/replay/pkg/core"
)

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveReplay stores a decoded replay, replacing any stored replay with
	// the same id.
	SaveReplay(ctx context.Context, r *core.ReplayData) error
}

// Loader is an optional interface for backends that can read replays back.
type Loader interface {
	LoadReplay(ctx context.Context, id int) (*core.ReplayData, error)
}
