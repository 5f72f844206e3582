package settings

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/interfaces"
	"github.com/ternarybob/dernek/internal/models"
)

// mockKVStorage is an in-memory KeyValueStorage that can be switched into a failing state
type mockKVStorage struct {
	data map[string]models.Setting
	err  error
}

func newMockKVStorage() *mockKVStorage {
	return &mockKVStorage{data: make(map[string]models.Setting)}
}

func (m *mockKVStorage) Get(ctx context.Context, key string) (*models.Setting, error) {
	if m.err != nil {
		return nil, m.err
	}
	setting, ok := m.data[key]
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}
	return &setting, nil
}

func (m *mockKVStorage) ListByPrefix(ctx context.Context, prefix string) ([]models.Setting, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Setting
	for key, setting := range m.data {
		if strings.HasPrefix(key, prefix+".") {
			out = append(out, setting)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *mockKVStorage) Upsert(ctx context.Context, key string, value models.Document, actor string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, exists := m.data[key]
	m.data[key] = models.Setting{Key: key, Value: value, LastModifiedBy: models.ActorPtr(actor)}
	return !exists, nil
}

func (m *mockKVStorage) Delete(ctx context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.data[key]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(m.data, key)
	return nil
}

func (m *mockKVStorage) List(ctx context.Context) ([]models.Setting, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Setting, 0, len(m.data))
	for _, setting := range m.data {
		out = append(out, setting)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func TestStore_GetAndUpsert(t *testing.T) {
	storage := newMockKVStorage()
	store := NewStore(storage, arbor.NewLogger())
	ctx := context.Background()

	_, ok := store.Get(ctx, "site.name")
	assert.False(t, ok)

	require.NoError(t, store.Upsert(ctx, "site.name", models.String("Dernek"), "admin-1"))

	value, ok := store.Get(ctx, "site.name")
	require.True(t, ok)
	assert.Equal(t, `"Dernek"`, value.String())
	assert.Equal(t, "admin-1", storage.data["site.name"].Actor())
}

func TestStore_GetByPrefixReturnsFullKeys(t *testing.T) {
	storage := newMockKVStorage()
	store := NewStore(storage, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "contact.email", models.String("info@example.org"), ""))
	require.NoError(t, store.Upsert(ctx, "contact.phone", models.String("+90 212 000 00 00"), ""))
	require.NoError(t, store.Upsert(ctx, "contactForm.enabled", models.Bool(true), ""))

	values := store.GetByPrefix(ctx, "contact")
	assert.Equal(t, []string{"contact.email", "contact.phone"}, values.Keys())
}

func TestStore_ReadFaultsDegradeToEmpty(t *testing.T) {
	storage := newMockKVStorage()
	store := NewStore(storage, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "site.name", models.String("Dernek"), ""))
	storage.err = errors.New("connection refused")

	_, ok := store.Get(ctx, "site.name")
	assert.False(t, ok, "a storage fault must read as absent")

	values := store.GetByPrefix(ctx, "site")
	assert.NotNil(t, values)
	assert.Empty(t, values)

	assert.Empty(t, store.All(ctx))
}

func TestStore_UpsertFaultIsReported(t *testing.T) {
	storage := newMockKVStorage()
	storage.err = errors.New("disk full")
	store := NewStore(storage, arbor.NewLogger())

	err := store.Upsert(context.Background(), "site.name", models.String("Dernek"), "")
	assert.Error(t, err)

	assert.ErrorIs(t, store.Upsert(context.Background(), "", models.Null(), ""), interfaces.ErrEmptyKey)
}

func TestStore_Match(t *testing.T) {
	storage := newMockKVStorage()
	store := NewStore(storage, arbor.NewLogger())
	ctx := context.Background()

	for _, key := range []string{"content.home.heroTitle", "content.about.heroTitle", "content.home.features", "site.name"} {
		require.NoError(t, store.Upsert(ctx, key, models.String(key), ""))
	}

	values, err := store.Match(ctx, "content.*.heroTitle")
	require.NoError(t, err)
	assert.Equal(t, []string{"content.about.heroTitle", "content.home.heroTitle"}, values.Keys())

	values, err = store.Match(ctx, "content.**")
	require.NoError(t, err)
	assert.Len(t, values, 3)

	_, err = store.Match(ctx, "content.[")
	assert.Error(t, err)
}
