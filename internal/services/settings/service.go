// -----------------------------------------------------------------------
// Last Modified: Thursday, 14th November 2025 12:00:00 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/interfaces"
	"github.com/ternarybob/dernek/internal/models"
)

// Store is the settings boundary used by readers, the seeder and the editor.
// Read faults never propagate: Get reports absent and GetByPrefix reports empty,
// so resolution stays total when the backing store is unavailable.
type Store struct {
	storage interfaces.KeyValueStorage
	logger  arbor.ILogger
}

// NewStore creates a new settings store over a storage adapter
func NewStore(storage interfaces.KeyValueStorage, logger arbor.ILogger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
	}
}

// Get returns the value stored at key, or false when absent or unreadable
func (s *Store) Get(ctx context.Context, key string) (models.Document, bool) {
	setting, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrKeyNotFound) {
			s.logger.Warn().Err(err).Str("key", key).Msg("Settings read failed, treating key as absent")
		}
		return models.Null(), false
	}

	s.logger.Debug().Str("key", key).Msg("Retrieved setting")
	return setting.Value, true
}

// GetByPrefix returns every value under prefix + "." keyed by full key.
// A storage fault yields an empty map.
func (s *Store) GetByPrefix(ctx context.Context, prefix string) models.Values {
	settings, err := s.storage.ListByPrefix(ctx, prefix)
	if err != nil {
		s.logger.Warn().Err(err).Str("prefix", prefix).Msg("Settings prefix read failed, returning no values")
		return models.Values{}
	}

	values := make(models.Values, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}

	s.logger.Debug().Str("prefix", prefix).Int("count", len(values)).Msg("Retrieved settings by prefix")
	return values
}

// All returns every stored value. A storage fault yields an empty map.
func (s *Store) All(ctx context.Context) models.Values {
	settings, err := s.storage.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Settings list failed, returning no values")
		return models.Values{}
	}

	values := make(models.Values, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	return values
}

// Upsert creates or overwrites the value at key.
// Write faults are returned so commits and seed runs can report them.
func (s *Store) Upsert(ctx context.Context, key string, value models.Document, actor string) error {
	if key == "" {
		return interfaces.ErrEmptyKey
	}

	created, err := s.storage.Upsert(ctx, key, value, actor)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to store setting")
		return fmt.Errorf("upsert %s: %w", key, err)
	}

	if created {
		s.logger.Debug().Str("key", key).Str("actor", actor).Msg("Created setting")
	} else {
		s.logger.Debug().Str("key", key).Str("actor", actor).Msg("Updated setting")
	}
	return nil
}

// Setting returns the full record including modification metadata
func (s *Store) Setting(ctx context.Context, key string) (*models.Setting, error) {
	return s.storage.Get(ctx, key)
}

// Delete removes a setting
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete setting")
		return err
	}

	s.logger.Info().Str("key", key).Msg("Deleted setting")
	return nil
}
