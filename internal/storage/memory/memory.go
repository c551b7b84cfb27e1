// internal/storage/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/awbwapp/replay/internal/config"
	"github.com/awbwapp/replay/pkg/core"
)

// Backend keeps decoded replays in memory and exports each to JSON
type Backend struct {
	cfg config.MemoryConfig

	replays map[int]*core.ReplayData // keyed by replay id
	exports map[int]string           // export path per replay id

	mu sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:     cfg,
		replays: make(map[int]*core.ReplayData),
		exports: make(map[int]string),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveReplay stores the replay, replacing any earlier one with the same id,
// and writes its export file when an output directory is configured.
func (b *Backend) SaveReplay(ctx context.Context, r *core.ReplayData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.replays[r.Info.ID] = r

	if b.cfg.OutputDir == "" {
		return nil
	}
	path, err := b.exportJSON(r)
	if err != nil {
		return fmt.Errorf("error exporting replay %d: %w", r.Info.ID, err)
	}
	b.exports[r.Info.ID] = path
	return nil
}

// LoadReplay returns a stored replay.
func (b *Backend) LoadReplay(ctx context.Context, id int) (*core.ReplayData, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, ok := b.replays[id]
	if !ok {
		return nil, fmt.Errorf("replay %d not stored", id)
	}
	return r, nil
}

// ExportedFilePath returns where a replay's export was written.
func (b *Backend) ExportedFilePath(id int) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	path, ok := b.exports[id]
	return path, ok
}

// Len returns the number of stored replays.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.replays)
}
