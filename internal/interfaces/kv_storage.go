// -----------------------------------------------------------------------
// Last Modified: Thursday, 14th November 2025 12:00:00 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/dernek/internal/models"
)

// ErrKeyNotFound is returned when a key is not found in the key/value store
var ErrKeyNotFound = errors.New("key not found")

// ErrEmptyKey is returned when an operation is given a blank key
var ErrEmptyKey = errors.New("key cannot be empty")

// KeyValueStorage defines the storage adapter contract for settings.
// Adapters return errors; the settings service decides how faults degrade.
type KeyValueStorage interface {
	// Get retrieves a setting by exact key, returns ErrKeyNotFound if absent
	Get(ctx context.Context, key string) (*models.Setting, error)

	// ListByPrefix returns every setting whose key starts with prefix + ".", sorted by key ascending
	ListByPrefix(ctx context.Context, prefix string) ([]models.Setting, error)

	// Upsert creates the setting if absent, else overwrites its value and modification stamp.
	// Returns true if a new key was created, false if an existing key was updated
	Upsert(ctx context.Context, key string, value models.Document, actor string) (bool, error)

	// Delete removes a setting, returns ErrKeyNotFound if absent
	Delete(ctx context.Context, key string) error

	// List returns all settings sorted by key ascending
	List(ctx context.Context) ([]models.Setting, error)
}
