package postgres

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/common"
	"github.com/ternarybob/dernek/internal/interfaces"
)

// Manager implements the StorageManager interface for PostgreSQL
type Manager struct {
	db     *DB
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger
}

// NewManager connects, optionally migrates, and builds the storage adapters
func NewManager(logger arbor.ILogger, config *common.PostgresConfig) (interfaces.StorageManager, error) {
	db, err := NewDB(logger, config)
	if err != nil {
		return nil, err
	}

	if config.AutoMigrate {
		if err := db.Migrate(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
	}

	logger.Info().Msg("PostgreSQL storage manager initialized")

	return &Manager{
		db:     db,
		kv:     NewKVStorage(db, logger),
		logger: logger,
	}, nil
}

// KeyValueStorage returns the settings storage adapter
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Backend names the storage engine
func (m *Manager) Backend() string {
	return "postgres"
}

// Close closes the connection pool
func (m *Manager) Close() error {
	return m.db.Close()
}
