package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/dernek/internal/models"
)

func TestFlatten(t *testing.T) {
	doc := models.Object(
		"site", models.Object("name", "Dernek", "foundedYear", 1998, "logo", nil),
		"content", models.Object(
			"home", models.Object(
				"heroTitle", "Merhaba",
				"features", models.List(models.Object("id", "f1", "title", "Burs")),
				"empty", models.List(),
			),
			"about", models.Object(
				"missionVision", models.Object("mission", "m", "vision", "v"),
			),
		),
	)

	flat := Flatten(doc, "")

	assert.Equal(t, []string{
		"content.about.missionVision",
		"content.home.empty",
		"content.home.features",
		"content.home.heroTitle",
		"site.foundedYear",
		"site.name",
	}, flat.Keys())

	assert.True(t, flat["content.about.missionVision"].Equal(models.Object("mission", "m", "vision", "v")))
	assert.Equal(t, models.KindList, flat["content.home.features"].Kind())
	assert.Equal(t, 0, flat["content.home.empty"].Len())
}

func TestFlatten_WithPrefix(t *testing.T) {
	flat := Flatten(models.Object("heroTitle", "Merhaba", "hero", models.Object("button", "Başvur")), "content.home")

	assert.Equal(t, []string{"content.home.hero.button", "content.home.heroTitle"}, flat.Keys())
}

func TestFlatten_ListsAreLeavesAtAnyDepth(t *testing.T) {
	list := models.List(
		models.Object("title", "a", "tags", models.Strings("x", "y")),
		models.Strings("nested"),
	)
	doc := models.Object("a", models.Object("b", models.Object("c", list)))

	flat := Flatten(doc, "")

	require.Len(t, flat, 1)
	assert.True(t, flat["a.b.c"].Equal(list), "list must be stored untouched")
	for key := range flat {
		assert.NotContains(t, key, ".0")
	}
}

func TestFlatten_NullNeverProducesKey(t *testing.T) {
	doc := models.Object("a", nil, "b", models.Object("c", nil), "missionVision", nil)

	assert.Empty(t, Flatten(doc, ""))
}

func TestFlatten_OpaqueKeyOnlyForMaps(t *testing.T) {
	doc := models.Object("missionVision", "plain text")

	flat := Flatten(doc, "content.about")
	assert.Equal(t, `"plain text"`, flat["content.about.missionVision"].String())
}

func TestFlatten_NonMapDocument(t *testing.T) {
	assert.Empty(t, Flatten(models.Strings("a"), ""))
	assert.Empty(t, Flatten(models.Null(), ""))
}

func TestFlattenUnflatten_RoundTrip(t *testing.T) {
	doc := models.Object(
		"site", models.Object("name", "Dernek", "active", true, "year", 1998),
		"content", models.Object(
			"home", models.Object("heroTitle", "Merhaba", "hero", models.Object("subtitle", "Alt")),
		),
		"seo", models.Object("metaTitle", "Başlık"),
	)

	rebuilt, err := Unflatten(Flatten(doc, ""))
	require.NoError(t, err)
	assert.True(t, doc.Equal(rebuilt), "want %s, got %s", doc, rebuilt)
}

func TestUnflatten_Conflict(t *testing.T) {
	_, err := Unflatten(models.Values{
		"a":   models.Int(1),
		"a.b": models.Int(2),
	})
	assert.Error(t, err)
}
