// Package postgres implements the storage.Backend interface on PostgreSQL
// with PostGIS, wrapping the GORM backend.
package postgres

import (
	"github.com/awbwapp/replay/internal/config"
	"github.com/awbwapp/replay/internal/database"
	gormstorage "github.com/awbwapp/replay/internal/storage/gorm"
	"github.com/rs/zerolog"
)

// Backend wraps the GORM backend for Postgres-specific behavior.
type Backend struct {
	*gormstorage.Backend
	manager *database.Manager
}

// New connects to Postgres and wraps the connection in a GORM backend.
func New(cfg config.DatabaseConfig, log zerolog.Logger, usernames gormstorage.UsernameFunc) (*Backend, error) {
	manager := database.NewManager(log)
	if err := manager.ConnectPostgres(cfg); err != nil {
		return nil, err
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

// Init installs PostGIS and migrates the schema.
func (b *Backend) Init() error {
	return b.manager.Setup()
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	return b.manager.Close()
}
