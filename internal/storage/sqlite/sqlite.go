// Package sqlitestorage implements the storage.Backend interface on a SQLite
// file. It wraps the GORM backend via composition; the only SQLite-specific
// concern is opening the database and closing it again.
package sqlitestorage

import (
	"fmt"

	"github.com/awbwapp/replay/internal/database"
	gormstorage "github.com/awbwapp/replay/internal/storage/gorm"
	"github.com/rs/zerolog"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path string // empty for an in-memory database
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	manager *database.Manager
}

// New opens the SQLite database and wraps it in a GORM backend.
func New(cfg Config, log zerolog.Logger, usernames gormstorage.UsernameFunc) (*Backend, error) {
	manager := database.NewManager(log)
	if err := manager.ConnectSQLite(cfg.Path); err != nil {
		return nil, fmt.Errorf("failed to create SQLite DB: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:        manager.DB,
			Logger:    log,
			Usernames: usernames,
		}),
		manager: manager,
	}, nil
}

// Init migrates the schema.
func (b *Backend) Init() error {
	return b.manager.Setup()
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.manager.Close()
}
