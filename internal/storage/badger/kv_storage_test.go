package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/interfaces"
	"github.com/ternarybob/dernek/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

func setupKVStorage(t *testing.T) interfaces.KeyValueStorage {
	t.Helper()

	tmpDir := t.TempDir()
	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	db := &BadgerDB{store: store}
	return NewKVStorage(db, arbor.NewLogger())
}

func TestKVStorage_UpsertAndGet(t *testing.T) {
	storage := setupKVStorage(t)
	ctx := context.Background()

	created, err := storage.Upsert(ctx, "content.home.heroTitle", models.String("Hoş geldiniz"), "")
	require.NoError(t, err)
	assert.True(t, created, "first write should create the key")

	setting, err := storage.Get(ctx, "content.home.heroTitle")
	require.NoError(t, err)
	assert.Equal(t, "content.home.heroTitle", setting.Key)
	assert.Equal(t, `"Hoş geldiniz"`, setting.Value.String())
	assert.Nil(t, setting.LastModifiedBy)
	assert.False(t, setting.LastModifiedAt.IsZero())

	created, err = storage.Upsert(ctx, "content.home.heroTitle", models.String("Merhaba"), "admin-1")
	require.NoError(t, err)
	assert.False(t, created, "second write should update in place")

	setting, err = storage.Get(ctx, "content.home.heroTitle")
	require.NoError(t, err)
	assert.Equal(t, `"Merhaba"`, setting.Value.String())
	require.NotNil(t, setting.LastModifiedBy)
	assert.Equal(t, "admin-1", *setting.LastModifiedBy)
}

func TestKVStorage_StructuredValues(t *testing.T) {
	storage := setupKVStorage(t)
	ctx := context.Background()

	value := models.List(
		models.Object("id", "x1", "icon", "star", "title", "Burs"),
		models.Object("id", "x2", "title", "Üyelik", "order", 2),
	)
	_, err := storage.Upsert(ctx, "content.home.features", value, "")
	require.NoError(t, err)

	setting, err := storage.Get(ctx, "content.home.features")
	require.NoError(t, err)
	assert.True(t, value.Equal(setting.Value), "got %s", setting.Value)
}

func TestKVStorage_GetMissing(t *testing.T) {
	storage := setupKVStorage(t)

	_, err := storage.Get(context.Background(), "site.missing")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	_, err = storage.Get(context.Background(), "   ")
	assert.ErrorIs(t, err, interfaces.ErrEmptyKey)
}

func TestKVStorage_ListByPrefix(t *testing.T) {
	storage := setupKVStorage(t)
	ctx := context.Background()

	for _, key := range []string{
		"content.home.title",
		"content.home.features",
		"content.homepage.title",
		"content.about.title",
		"content.home",
	} {
		_, err := storage.Upsert(ctx, key, models.String(key), "")
		require.NoError(t, err)
	}

	settings, err := storage.ListByPrefix(ctx, "content.home")
	require.NoError(t, err)

	keys := make([]string, 0, len(settings))
	for _, s := range settings {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"content.home.features", "content.home.title"}, keys)
}

func TestKVStorage_ListByPrefixMatchesLiterally(t *testing.T) {
	storage := setupKVStorage(t)
	ctx := context.Background()

	_, err := storage.Upsert(ctx, "a+b.c", models.Int(1), "")
	require.NoError(t, err)
	_, err = storage.Upsert(ctx, "aab.c", models.Int(2), "")
	require.NoError(t, err)

	settings, err := storage.ListByPrefix(ctx, "a+b")
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "a+b.c", settings[0].Key)
}

func TestKVStorage_DeleteAndList(t *testing.T) {
	storage := setupKVStorage(t)
	ctx := context.Background()

	_, err := storage.Upsert(ctx, "site.name", models.String("Dernek"), "")
	require.NoError(t, err)
	_, err = storage.Upsert(ctx, "contact.email", models.String("info@example.org"), "")
	require.NoError(t, err)

	require.NoError(t, storage.Delete(ctx, "site.name"))
	assert.ErrorIs(t, storage.Delete(ctx, "site.name"), interfaces.ErrKeyNotFound)

	settings, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "contact.email", settings[0].Key)
}
