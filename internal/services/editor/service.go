package editor

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/models"
	"github.com/ternarybob/dernek/internal/services/schema"
)

// Store is the settings access an editing surface needs
type Store interface {
	Get(ctx context.Context, key string) (models.Document, bool)
	Upsert(ctx context.Context, key string, value models.Document, actor string) error
}

// Service opens edit sessions for registered fields
type Service struct {
	registry *schema.Registry
	store    Store
	defaults Options
	logger   arbor.ILogger
}

// NewService creates an editor service. Format, HiddenFields, NewID and
// Actor in defaults apply to every session it opens.
func NewService(registry *schema.Registry, store Store, defaults Options, logger arbor.ILogger) *Service {
	defaults.Validator = registry.Validator()
	defaults.Committer = store
	return &Service{
		registry: registry,
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
}

// Open starts a session on a page field. The current value is the stored
// value, or the field default when nothing is stored yet.
func (s *Service) Open(ctx context.Context, pageID, fieldKey string) (*Session, error) {
	field, err := s.registry.Field(pageID, fieldKey)
	if err != nil {
		return nil, err
	}
	key, err := s.registry.SettingKey(pageID, fieldKey)
	if err != nil {
		return nil, err
	}

	current, found := s.store.Get(ctx, key)
	if !found {
		current = field.Default.Clone()
		s.logger.Debug().Str("key", key).Msg("No stored value, editing field default")
	}

	return NewSession(key, field, current, s.defaults)
}

// Apply opens a session, applies one edit and commits it when valid.
// With dryRun the merged value is reported but never stored.
func (s *Service) Apply(ctx context.Context, pageID, fieldKey, text string, dryRun bool) (Result, error) {
	session, err := s.Open(ctx, pageID, fieldKey)
	if err != nil {
		return Result{}, err
	}

	result := session.Edit(text)
	if !result.Valid || dryRun {
		return result, nil
	}

	if _, err := session.Commit(ctx); err != nil {
		return session.Result(), err
	}

	s.logger.Info().Str("key", session.Key()).Str("actor", s.defaults.Actor).Msg("Committed structured value")
	return session.Result(), nil
}

// ResetToDefault opens a session, resets it to the field default and commits it
func (s *Service) ResetToDefault(ctx context.Context, pageID, fieldKey string, dryRun bool) (Result, error) {
	session, err := s.Open(ctx, pageID, fieldKey)
	if err != nil {
		return Result{}, err
	}

	result := session.Reset()
	if !result.Valid || dryRun {
		return result, nil
	}

	if _, err := session.Commit(ctx); err != nil {
		return session.Result(), err
	}

	s.logger.Info().Str("key", session.Key()).Msg("Reset structured value to default")
	return session.Result(), nil
}
