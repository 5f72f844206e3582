package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/dernek/internal/models"
)

func TestNewRegistry_DefaultPages(t *testing.T) {
	defaults := models.Values{
		"content.home.heroTitle": models.String("Geleceğe birlikte"),
		"site.name":              models.String("Dernek"),
	}

	registry, err := NewRegistry(DefaultPages(), defaults)
	require.NoError(t, err)

	field, err := registry.Field("home", "heroTitle")
	require.NoError(t, err)
	assert.Equal(t, `"Geleceğe birlikte"`, field.Default.String())

	key, err := registry.SettingKey("home", "features")
	require.NoError(t, err)
	assert.Equal(t, "content.home.features", key)

	page, field, ok := registry.Lookup("content.about.missionVision")
	require.True(t, ok)
	assert.Equal(t, "about", page.ID)
	assert.Equal(t, models.TypeOpaqueObject, field.Type)

	_, _, ok = registry.Lookup("content.about.unknown")
	assert.False(t, ok)

	assert.Contains(t, registry.Defaults(), "site.name")
}

func TestNewRegistry_Errors(t *testing.T) {
	field := models.FieldSchema{Key: "title", Label: "Başlık", Type: models.TypeShortText}

	tests := []struct {
		name  string
		pages []Page
	}{
		{"empty id", []Page{{Prefix: "site"}}},
		{"duplicate page", []Page{{ID: "a", Prefix: "a"}, {ID: "a", Prefix: "b"}}},
		{"bad prefix", []Page{{ID: "a", Prefix: "a."}}},
		{"duplicate field", []Page{{ID: "a", Prefix: "a", Fields: []models.FieldSchema{field, field}}}},
		{"unknown type", []Page{{ID: "a", Prefix: "a", Fields: []models.FieldSchema{{Key: "x", Type: "rich-text"}}}}},
		{"bad rule", []Page{{ID: "a", Prefix: "a", Fields: []models.FieldSchema{{Key: "x", Type: models.TypeShortText, Rules: []models.Rule{models.Pattern("(", "")}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.pages, nil)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_UnknownLookups(t *testing.T) {
	registry, err := NewRegistry(DefaultPages(), nil)
	require.NoError(t, err)

	_, err = registry.Page("blog")
	assert.ErrorIs(t, err, ErrUnknownPage)

	_, err = registry.Field("home", "missing")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = registry.Validate("blog", "title", models.Null())
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestRegistry_IsImmutable(t *testing.T) {
	registry, err := NewRegistry(DefaultPages(), nil)
	require.NoError(t, err)

	page, err := registry.Page("home")
	require.NoError(t, err)
	page.Fields[0].Label = "changed"
	page.Fields[0].Rules = nil

	field, err := registry.Field("home", page.Fields[0].Key)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", field.Label)
	assert.NotEmpty(t, field.Rules)
}

func TestRegistry_ValidateDefaultPageRules(t *testing.T) {
	registry, err := NewRegistry(DefaultPages(), nil)
	require.NoError(t, err)

	result, err := registry.Validate("about", "missionVision", models.Object("mission", "m"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Misyon ve vizyon birlikte girilmelidir"}, result.Errors)

	result, err = registry.Validate("contact", "phone", models.String("+90 (212) 555-0000"))
	require.NoError(t, err)
	assert.True(t, result.OK, "%v", result.Errors)

	result, err = registry.Validate("scholarship", "criteria", models.List())
	require.NoError(t, err)
	assert.Equal(t, []string{"En az bir başvuru koşulu girilmelidir"}, result.Errors)
}
