package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/interfaces"
	"github.com/ternarybob/dernek/internal/models"
)

// KVStorage implements the KeyValueStorage interface over a PostgreSQL table
type KVStorage struct {
	db     *DB
	logger arbor.ILogger
}

// NewKVStorage creates a new KVStorage instance
func NewKVStorage(db *DB, logger arbor.ILogger) interfaces.KeyValueStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
	}
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", interfaces.ErrEmptyKey
	}
	return key, nil
}

// escapeLike escapes LIKE wildcards so a prefix matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSetting(row rowScanner) (models.Setting, error) {
	var (
		key        string
		raw        []byte
		modifiedAt time.Time
		modifiedBy sql.NullString
	)
	if err := row.Scan(&key, &raw, &modifiedAt, &modifiedBy); err != nil {
		return models.Setting{}, err
	}

	var value models.Document
	if err := json.Unmarshal(raw, &value); err != nil {
		return models.Setting{}, fmt.Errorf("decode value for %s: %w", key, err)
	}

	setting := models.Setting{
		Key:            key,
		Value:          value,
		LastModifiedAt: modifiedAt,
	}
	if modifiedBy.Valid {
		setting.LastModifiedBy = models.ActorPtr(modifiedBy.String)
	}
	return setting, nil
}

// Get retrieves a setting by exact key
func (s *KVStorage) Get(ctx context.Context, key string) (*models.Setting, error) {
	normalizedKey, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT key, value, last_modified_at, last_modified_by
		FROM %s
		WHERE key = $1`, s.db.Table())

	setting, err := scanSetting(s.db.SQL().QueryRowContext(ctx, query, normalizedKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &setting, nil
}

// ListByPrefix returns all settings under prefix + "." sorted by key
func (s *KVStorage) ListByPrefix(ctx context.Context, prefix string) ([]models.Setting, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return s.List(ctx)
	}

	query := fmt.Sprintf(`
		SELECT key, value, last_modified_at, last_modified_by
		FROM %s
		WHERE key LIKE $1 ESCAPE '\'
		ORDER BY key ASC`, s.db.Table())

	return s.query(ctx, query, escapeLike(prefix+".")+"%")
}

// List returns all settings sorted by key
func (s *KVStorage) List(ctx context.Context) ([]models.Setting, error) {
	query := fmt.Sprintf(`
		SELECT key, value, last_modified_at, last_modified_by
		FROM %s
		ORDER BY key ASC`, s.db.Table())

	return s.query(ctx, query)
}

func (s *KVStorage) query(ctx context.Context, query string, args ...any) ([]models.Setting, error) {
	rows, err := s.db.SQL().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := []models.Setting{}
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Skipping unreadable setting row")
			continue
		}
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return settings, nil
}

// Upsert inserts or overwrites a setting in one statement.
// xmax is zero only for a freshly inserted row, which tells created from updated.
func (s *KVStorage) Upsert(ctx context.Context, key string, value models.Document, actor string) (bool, error) {
	normalizedKey, err := normalizeKey(key)
	if err != nil {
		return false, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode value for %s: %w", normalizedKey, err)
	}

	modifiedBy := sql.NullString{String: actor, Valid: actor != ""}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, last_modified_at, last_modified_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			last_modified_at = EXCLUDED.last_modified_at,
			last_modified_by = EXCLUDED.last_modified_by
		RETURNING (xmax = 0) AS inserted`, s.db.Table())

	var inserted bool
	err = s.db.SQL().QueryRowContext(ctx, query,
		normalizedKey,
		string(encoded),
		time.Now().UTC(),
		modifiedBy,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert setting: %w", err)
	}

	return inserted, nil
}

// Delete removes a setting
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	normalizedKey, err := normalizeKey(key)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.db.Table())

	result, err := s.db.SQL().ExecContext(ctx, query, normalizedKey)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	if affected == 0 {
		return interfaces.ErrKeyNotFound
	}
	return nil
}
