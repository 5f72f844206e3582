package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/dernek/internal/models"
)

func TestDefaultDocument(t *testing.T) {
	doc, err := DefaultDocument()
	require.NoError(t, err)

	flat := Flatten(doc, "")
	assert.Equal(t, `"Eğitim ve Dayanışma Derneği"`, flat["site.name"].String())
	assert.Equal(t, models.KindMap, flat["content.about.missionVision"].Kind())

	features := flat["content.home.features"]
	require.Equal(t, models.KindList, features.Kind())
	assert.Equal(t, 3, features.Len())
	first, _ := features.Index(0)
	id, _ := first.Get("id")
	assert.Equal(t, `"feature-scholarship"`, id.String())

	year, ok := flat["site.foundedYear"].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 1998.0, year)
}

func TestLoadDocument_Formats(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"content.toml": "[site]\nname = \"Dernek\"\ntags = [\"a\", \"b\"]\n",
		"content.yaml": "site:\n  name: Dernek\n  tags: [a, b]\n",
		"content.json": `{"site": {"name": "Dernek", "tags": ["a", "b"]}}`,
	}

	want := models.Object("site", models.Object("name", "Dernek", "tags", models.Strings("a", "b")))

	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			doc, err := LoadDocument(path)
			require.NoError(t, err)
			assert.True(t, want.Equal(doc), "got %s", doc)
		})
	}
}

func TestLoadDocument_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDocument(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "content.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0644))
	_, err = LoadDocument(path)
	assert.Error(t, err)
}

func TestEncode_TOMLDropsNulls(t *testing.T) {
	doc := models.Object("site", models.Object("name", "Dernek", "logo", nil))

	data, err := Encode(doc, FormatTOML)
	require.NoError(t, err)

	decoded, err := Decode(data, FormatTOML)
	require.NoError(t, err)
	assert.True(t, models.Object("site", models.Object("name", "Dernek")).Equal(decoded), "got %s", decoded)
}

func TestExport(t *testing.T) {
	store := newMockStore()
	store.data["content.home.heroTitle"] = models.String("Merhaba")
	store.data["content.home.features"] = models.List(models.Object("title", "Burs"))
	store.data["site.name"] = models.String("Dernek")

	doc, err := Export(context.Background(), store, "content.home")
	require.NoError(t, err)

	want := models.Object("content", models.Object("home", models.Object(
		"heroTitle", "Merhaba",
		"features", models.List(models.Object("title", "Burs")),
	)))
	assert.True(t, want.Equal(doc), "got %s", doc)

	all, err := Export(context.Background(), store, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"content", "site"}, all.Keys())
}
