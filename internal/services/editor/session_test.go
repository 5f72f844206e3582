package editor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/models"
	"github.com/ternarybob/dernek/internal/services/schema"
)

type recordingStore struct {
	values map[string]models.Document
	actors map[string]string
	writes int
	err    error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		values: map[string]models.Document{},
		actors: map[string]string{},
	}
}

func (s *recordingStore) Get(ctx context.Context, key string) (models.Document, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *recordingStore) Upsert(ctx context.Context, key string, value models.Document, actor string) error {
	if s.err != nil {
		return s.err
	}
	s.writes++
	s.values[key] = value
	s.actors[key] = actor
	return nil
}

func featuresField() models.FieldSchema {
	return models.FieldSchema{
		Key:      "features",
		Label:    "Öne çıkanlar",
		Type:     models.TypeObjectList,
		Required: true,
		Structure: &models.StructuralSchema{
			RequiredSubFields: []string{"title", "description"},
		},
		IDField: "id",
		Default: models.List(
			models.Object("id", "d1", "icon", "book", "title", "Burs", "description", "Destek"),
		),
	}
}

func storedFeatures() models.Document {
	return models.List(
		models.Object("id", "x1", "icon", "star", "title", "Burs", "description", "Başarılı öğrenciler"),
		models.Object("id", "x2", "color", "red", "title", "Üyelik", "description", "Aramıza katılın"),
	)
}

func sequentialIDs() IDGenerator {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("new-%d", counter)
	}
}

func TestSession_OpensInViewingWithFilteredText(t *testing.T) {
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{})
	require.NoError(t, err)

	result := session.Result()
	assert.Equal(t, StateViewing, result.State)
	assert.False(t, result.Valid)
	assert.NotContains(t, result.DisplayText, "x1")
	assert.NotContains(t, result.DisplayText, "star")
	assert.Contains(t, result.DisplayText, "Başarılı öğrenciler")
}

func TestSession_ValidEditMergesHiddenFields(t *testing.T) {
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{})
	require.NoError(t, err)

	result := session.Edit(`[
		{"title": "Burs Programı", "description": "Başarılı öğrenciler"},
		{"title": "Üyelik", "description": "Aramıza katılın"}
	]`)

	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, StateValid, result.State)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Committed)

	expected := models.List(
		models.Object("id", "x1", "icon", "star", "title", "Burs Programı", "description", "Başarılı öğrenciler"),
		models.Object("id", "x2", "color", "red", "title", "Üyelik", "description", "Aramıza katılın"),
	)
	assertDocument(t, expected, *result.Committed)
}

func TestSession_ParseFailureKeepsCommittedValue(t *testing.T) {
	store := newRecordingStore()
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{Committer: store})
	require.NoError(t, err)

	result := session.Edit(`[{"title": "Burs"`)

	assert.Equal(t, StateInvalid, result.State)
	assert.False(t, result.Valid)
	assert.Nil(t, result.Committed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, `[{"title": "Burs"`, result.DisplayText, "operator text is kept for correction")
	assertDocument(t, storedFeatures(), session.CommittedValue())

	_, err = session.Commit(context.Background())
	assert.ErrorIs(t, err, ErrNotValid)
	assert.Zero(t, store.writes)
}

func TestSession_ValidationFailureReportsSubFields(t *testing.T) {
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{})
	require.NoError(t, err)

	result := session.Edit(`[{"title": "Burs"}]`)

	assert.Equal(t, StateInvalid, result.State)
	assert.Equal(t, []string{`Öne çıkanlar - 1. öğe: "description" alanı zorunludur`}, result.Errors)
	assert.Nil(t, result.Committed)
}

func TestSession_EmptyRequiredValue(t *testing.T) {
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{})
	require.NoError(t, err)

	result := session.Edit("   ")

	assert.Equal(t, StateInvalid, result.State)
	assert.Equal(t, []string{"Öne çıkanlar zorunludur"}, result.Errors)
}

func TestSession_NumericKeyObjectIsNormalized(t *testing.T) {
	field := models.FieldSchema{Key: "criteria", Label: "Koşullar", Type: models.TypeStringList}
	session, err := NewSession("content.scholarship.criteria", field, models.Strings("x"), Options{})
	require.NoError(t, err)

	result := session.Edit(`{"1": "b", "0": "a", "2": "c"}`)

	require.True(t, result.Valid, "errors: %v", result.Errors)
	assertDocument(t, models.Strings("a", "b", "c"), *result.Committed)
}

func TestSession_YAMLFormat(t *testing.T) {
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{Format: FormatYAML})
	require.NoError(t, err)
	assert.Contains(t, session.Result().DisplayText, "title: Burs")

	result := session.Edit("- title: Burs\n  description: Yeni\n")
	require.True(t, result.Valid, "errors: %v", result.Errors)

	item, _ := result.Committed.Index(0)
	id, _ := item.Get("id")
	assertDocument(t, models.String("x1"), id)
}

func TestSession_CommitAssignsIDsAndStores(t *testing.T) {
	store := newRecordingStore()
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{
		Committer: store,
		NewID:     sequentialIDs(),
		Actor:     "admin-1",
	})
	require.NoError(t, err)

	result := session.Edit(`[
		{"title": "Burs", "description": "Başarılı öğrenciler"},
		{"title": "Üyelik", "description": "Aramıza katılın"},
		{"title": "Etkinlik", "description": "Yeni etkinlikler"}
	]`)
	require.True(t, result.Valid, "errors: %v", result.Errors)

	committed, err := session.Commit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCommitted, session.State())
	assert.Equal(t, 1, store.writes)
	assert.Equal(t, "admin-1", store.actors["content.home.features"])
	assertDocument(t, committed, store.values["content.home.features"])

	third, _ := committed.Index(2)
	id, _ := third.Get("id")
	assertDocument(t, models.String("new-1"), id)

	first, _ := committed.Index(0)
	id, _ = first.Get("id")
	assertDocument(t, models.String("x1"), id)

	assertDocument(t, committed, session.CommittedValue())
	assert.True(t, session.Result().Valid)
}

func TestSession_CommitFailureStaysValid(t *testing.T) {
	store := newRecordingStore()
	store.err = errors.New("disk full")
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{Committer: store})
	require.NoError(t, err)

	session.Edit(`[{"title": "Burs", "description": "Yeni"}]`)
	_, err = session.Commit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, StateValid, session.State())
	assertDocument(t, storedFeatures(), session.CommittedValue())
}

func TestSession_ResetUsesDefaultVerbatim(t *testing.T) {
	store := newRecordingStore()
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{Committer: store})
	require.NoError(t, err)

	session.Edit(`not json`)
	result := session.Reset()

	assert.Equal(t, StateValid, result.State)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.NotContains(t, result.DisplayText, "d1")
	assert.Contains(t, result.DisplayText, "Destek")
	assertDocument(t, featuresField().Default, *result.Committed)
	assertDocument(t, featuresField().Default, result.Original)

	committed, err := session.Commit(context.Background())
	require.NoError(t, err)
	assertDocument(t, featuresField().Default, committed)
}

func TestSession_EditAfterResetMergesAgainstDefault(t *testing.T) {
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{})
	require.NoError(t, err)

	session.Reset()
	result := session.Edit(`[{"title": "Burs", "description": "Güncel"}]`)
	require.True(t, result.Valid, "errors: %v", result.Errors)

	expected := models.List(models.Object("id", "d1", "icon", "book", "title", "Burs", "description", "Güncel"))
	assertDocument(t, expected, *result.Committed)
}

func TestSession_CommitRequiresValidState(t *testing.T) {
	session, err := NewSession("content.home.features", featuresField(), storedFeatures(), Options{})
	require.NoError(t, err)

	_, err = session.Commit(context.Background())
	assert.ErrorIs(t, err, ErrNotValid)
}

func TestReconcile(t *testing.T) {
	result, err := Reconcile(featuresField(), storedFeatures(), `[{"title": "A", "description": "B"}]`, Options{})
	require.NoError(t, err)
	require.True(t, result.Valid)

	expected := models.List(models.Object("id", "x1", "icon", "star", "title", "A", "description", "B"))
	assertDocument(t, expected, *result.Committed)
}

func TestService_OpenAndApply(t *testing.T) {
	registry, err := schema.NewRegistry([]schema.Page{{
		ID:     "home",
		Title:  "Ana Sayfa",
		Prefix: "content.home",
		Fields: []models.FieldSchema{featuresField()},
	}}, nil)
	require.NoError(t, err)

	store := newRecordingStore()
	service := NewService(registry, store, Options{NewID: sequentialIDs(), Actor: "editor"}, arbor.NewLogger())
	ctx := context.Background()

	t.Run("falls back to the field default", func(t *testing.T) {
		session, err := service.Open(ctx, "home", "features")
		require.NoError(t, err)
		assertDocument(t, featuresField().Default, session.CommittedValue())
		assert.Equal(t, "content.home.features", session.Key())
	})

	t.Run("dry run does not store", func(t *testing.T) {
		result, err := service.Apply(ctx, "home", "features", `[{"title": "Burs", "description": "Yeni"}]`, true)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Zero(t, store.writes)
	})

	t.Run("apply commits merged value", func(t *testing.T) {
		result, err := service.Apply(ctx, "home", "features", `[{"title": "Burs", "description": "Yeni"}]`, false)
		require.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
		assert.Equal(t, 1, store.writes)
		assert.Equal(t, "editor", store.actors["content.home.features"])

		expected := models.List(models.Object("id", "d1", "icon", "book", "title", "Burs", "description", "Yeni"))
		assertDocument(t, expected, store.values["content.home.features"])
	})

	t.Run("invalid edit is not stored", func(t *testing.T) {
		result, err := service.Apply(ctx, "home", "features", `[{}]`, false)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Len(t, result.Errors, 2)
		assert.Equal(t, 1, store.writes)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := service.Open(ctx, "home", "missing")
		assert.ErrorIs(t, err, schema.ErrUnknownField)
	})

	t.Run("reset to default", func(t *testing.T) {
		result, err := service.ResetToDefault(ctx, "home", "features", false)
		require.NoError(t, err)
		assert.Equal(t, StateCommitted, result.State)
		assertDocument(t, featuresField().Default, store.values["content.home.features"])
	})
}

func TestSession_NonFiniteNumbersAreInvalid(t *testing.T) {
	year := models.FieldSchema{
		Key:      "year",
		Label:    "Kuruluş yılı",
		Type:     models.TypeNumber,
		Required: true,
		Default:  models.Int(1998),
	}

	for _, text := range []string{".inf", "-.inf", ".nan"} {
		t.Run(text, func(t *testing.T) {
			store := newRecordingStore()
			session, err := NewSession("site.year", year, models.Int(1998), Options{
				Format:    FormatYAML,
				Committer: store,
			})
			require.NoError(t, err)

			result := session.Edit(text)
			assert.False(t, result.Valid)
			assert.Equal(t, StateInvalid, result.State)
			assert.NotEmpty(t, result.Errors)

			_, err = session.Commit(context.Background())
			assert.ErrorIs(t, err, ErrNotValid)
			assert.Zero(t, store.writes)
		})
	}
}
