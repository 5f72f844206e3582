package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/interfaces"
	"github.com/ternarybob/dernek/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// settingRecord is the persisted form of a setting.
// The value is kept as JSON text so the gob encoder never sees the Document sum type.
type settingRecord struct {
	Key            string
	Value          string
	LastModifiedAt time.Time
	LastModifiedBy string
}

func (r settingRecord) toSetting() (models.Setting, error) {
	var value models.Document
	if err := json.Unmarshal([]byte(r.Value), &value); err != nil {
		return models.Setting{}, fmt.Errorf("failed to decode value for %s: %w", r.Key, err)
	}
	return models.Setting{
		Key:            r.Key,
		Value:          value,
		LastModifiedAt: r.LastModifiedAt,
		LastModifiedBy: models.ActorPtr(r.LastModifiedBy),
	}, nil
}

// KVStorage implements the KeyValueStorage interface for Badger
type KVStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewKVStorage creates a new KVStorage instance
func NewKVStorage(db *BadgerDB, logger arbor.ILogger) interfaces.KeyValueStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
	}
}

// normalizeKey trims surrounding whitespace. Keys are case-sensitive dotted paths.
func (s *KVStorage) normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", interfaces.ErrEmptyKey
	}
	return key, nil
}

// Get retrieves a setting by exact key
func (s *KVStorage) Get(ctx context.Context, key string) (*models.Setting, error) {
	normalizedKey, err := s.normalizeKey(key)
	if err != nil {
		return nil, err
	}

	var record settingRecord
	err = s.db.Store().Get(normalizedKey, &record)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	setting, err := record.toSetting()
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// ListByPrefix returns all settings under prefix + "." sorted by key
func (s *KVStorage) ListByPrefix(ctx context.Context, prefix string) ([]models.Setting, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return s.List(ctx)
	}

	var records []settingRecord
	err := s.db.Store().Find(&records, badgerhold.Where("Key").HasPrefix(prefix+".").SortBy("Key"))
	if err != nil {
		return nil, fmt.Errorf("failed to list settings by prefix: %w", err)
	}

	return s.toSettings(records), nil
}

// Upsert writes the setting inside one badger transaction so created/updated
// detection and the write cannot interleave with another writer
func (s *KVStorage) Upsert(ctx context.Context, key string, value models.Document, actor string) (bool, error) {
	normalizedKey, err := s.normalizeKey(key)
	if err != nil {
		return false, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to encode value for %s: %w", normalizedKey, err)
	}

	record := settingRecord{
		Key:            normalizedKey,
		Value:          string(encoded),
		LastModifiedAt: time.Now().UTC(),
		LastModifiedBy: actor,
	}

	isNewKey := false
	err = s.db.Update(func(txn *badgerdb.Txn) error {
		var existing settingRecord
		getErr := s.db.Store().TxGet(txn, normalizedKey, &existing)
		switch {
		case errors.Is(getErr, badgerhold.ErrNotFound):
			isNewKey = true
		case getErr != nil:
			return fmt.Errorf("failed to check key existence: %w", getErr)
		}
		return s.db.Store().TxUpsert(txn, normalizedKey, &record)
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert setting: %w", err)
	}

	return isNewKey, nil
}

// Delete removes a setting
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	normalizedKey, err := s.normalizeKey(key)
	if err != nil {
		return err
	}
	err = s.db.Store().Delete(normalizedKey, &settingRecord{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return interfaces.ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// List returns all settings sorted by key
func (s *KVStorage) List(ctx context.Context) ([]models.Setting, error) {
	var records []settingRecord
	err := s.db.Store().Find(&records, badgerhold.Where("Key").Ne("").SortBy("Key"))
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return s.toSettings(records), nil
}

// toSettings decodes records, skipping any whose stored JSON is unreadable
func (s *KVStorage) toSettings(records []settingRecord) []models.Setting {
	settings := make([]models.Setting, 0, len(records))
	for _, record := range records {
		setting, err := record.toSetting()
		if err != nil {
			s.logger.Warn().Err(err).Str("key", record.Key).Msg("Skipping unreadable setting")
			continue
		}
		settings = append(settings, setting)
	}
	return settings
}
