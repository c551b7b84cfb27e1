// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/awbwapp/replay/internal/config"
	gormstorage "github.com/awbwapp/replay/internal/storage/gorm"
	"github.com/awbwapp/replay/internal/storage/memory"
	"github.com/awbwapp/replay/internal/storage/postgres"
	sqlitestorage "github.com/awbwapp/replay/internal/storage/sqlite"
	"github.com/rs/zerolog"
)

// Options carries what the database backends need beyond StorageConfig.
type Options struct {
	Database  config.DatabaseConfig
	Logger    zerolog.Logger
	Usernames gormstorage.UsernameFunc
}

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, opts Options) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		b, err := postgres.New(opts.Database, opts.Logger, opts.Usernames)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "sqlite":
		b, err := sqlitestorage.New(sqlitestorage.Config{Path: cfg.SQLite.Path}, opts.Logger, opts.Usernames)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
