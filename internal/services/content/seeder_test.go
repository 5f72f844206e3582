package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/models"
)

// mockStore is an in-memory settings store recording every write
type mockStore struct {
	data     map[string]models.Document
	actors   map[string]string
	writes   int
	failKeys map[string]bool
}

func newMockStore() *mockStore {
	return &mockStore{
		data:     make(map[string]models.Document),
		actors:   make(map[string]string),
		failKeys: make(map[string]bool),
	}
}

func (m *mockStore) Get(ctx context.Context, key string) (models.Document, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockStore) Upsert(ctx context.Context, key string, value models.Document, actor string) error {
	if m.failKeys[key] {
		return errors.New("write failed")
	}
	m.writes++
	m.data[key] = value
	m.actors[key] = actor
	return nil
}

func (m *mockStore) GetByPrefix(ctx context.Context, prefix string) models.Values {
	out := models.Values{}
	for k, v := range m.data {
		if len(k) > len(prefix) && k[:len(prefix)+1] == prefix+"." {
			out[k] = v
		}
	}
	return out
}

func (m *mockStore) All(ctx context.Context) models.Values {
	out := models.Values{}
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

func sampleFlat() models.Values {
	return models.Values{
		"site.name":              models.String("Dernek"),
		"site.tagline":           models.String("Birlikte"),
		"content.home.heroTitle": models.String("Merhaba"),
	}
}

func TestSeed_CreatesAbsentKeys(t *testing.T) {
	store := newMockStore()
	seeder := NewSeeder(store, models.Object(), "", arbor.NewLogger())

	result := seeder.Seed(context.Background(), sampleFlat(), false, "seed-bot")

	assert.Equal(t, SeedResult{Created: 3}, result)
	assert.Equal(t, "seed-bot", store.actors["site.name"])
}

func TestSeed_IdempotentWithoutOverwrite(t *testing.T) {
	store := newMockStore()
	seeder := NewSeeder(store, models.Object(), "", arbor.NewLogger())
	ctx := context.Background()
	data := sampleFlat()

	seeder.Seed(ctx, data, false, "")
	writes := store.writes

	second := seeder.Seed(ctx, data, false, "")
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, len(data), second.Skipped)
	assert.Equal(t, writes, store.writes, "second run must not write")
}

func TestSeed_OverwriteReplacesEverything(t *testing.T) {
	store := newMockStore()
	seeder := NewSeeder(store, models.Object(), "", arbor.NewLogger())
	ctx := context.Background()
	data := sampleFlat()

	seeder.Seed(ctx, data, false, "")
	store.data["site.name"] = models.String("Değiştirilmiş")

	result := seeder.Seed(ctx, data, true, "")
	assert.Equal(t, SeedResult{Updated: len(data)}, result)
	assert.Equal(t, `"Dernek"`, store.data["site.name"].String())
}

func TestSeed_GapFillLeavesEditsAlone(t *testing.T) {
	store := newMockStore()
	store.data["site.name"] = models.String("Operatör düzenlemesi")
	seeder := NewSeeder(store, models.Object(), "", arbor.NewLogger())

	result := seeder.Seed(context.Background(), sampleFlat(), false, "")

	assert.Equal(t, SeedResult{Created: 2, Skipped: 1}, result)
	assert.Equal(t, `"Operatör düzenlemesi"`, store.data["site.name"].String())
}

func TestSeed_CountsWriteFailures(t *testing.T) {
	store := newMockStore()
	store.failKeys["site.tagline"] = true
	seeder := NewSeeder(store, models.Object(), "", arbor.NewLogger())

	result := seeder.Seed(context.Background(), sampleFlat(), false, "")
	assert.Equal(t, SeedResult{Created: 2, Failed: 1}, result)
}

func TestGroupOf(t *testing.T) {
	assert.Equal(t, "site", GroupOf("site.name"))
	assert.Equal(t, "content.home", GroupOf("content.home.heroTitle"))
	assert.Equal(t, "content.about", GroupOf("content.about.missionVision"))
	assert.Equal(t, "seo", GroupOf("seo"))
}

func TestSortGroups(t *testing.T) {
	got := SortGroups([]string{"content.home", "seo", "content.about", "site", "social", "contact"})
	assert.Equal(t, []string{"site", "contact", "social", "seo", "content.about", "content.home"}, got)
}

func TestSeedAll_DefaultDocument(t *testing.T) {
	doc, err := DefaultDocument()
	require.NoError(t, err)

	store := newMockStore()
	seeder := NewSeeder(store, doc, "", arbor.NewLogger())
	ctx := context.Background()

	flat := Flatten(doc, "")

	report, err := seeder.SeedAll(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, len(flat), report.Total.Created)
	assert.Equal(t, []string{"site", "contact", "social", "seo"}, groupNames(report)[:4])

	sum := SeedResult{}
	for _, group := range report.Groups {
		sum.Add(group.SeedResult)
	}
	assert.Equal(t, report.Total, sum)

	again, err := seeder.SeedAll(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Skipped: len(flat)}, again.Total)

	overwrite, err := seeder.SeedAll(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Updated: len(flat)}, overwrite.Total)
}

func TestSeedGroup(t *testing.T) {
	doc, err := DefaultDocument()
	require.NoError(t, err)

	store := newMockStore()
	seeder := NewSeeder(store, doc, "admin", arbor.NewLogger())

	result, err := seeder.SeedGroup(context.Background(), "content.about", false)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Created)
	assert.Contains(t, store.data, "content.about.missionVision")
	assert.Equal(t, "admin", store.actors["content.about.heroTitle"])

	_, err = seeder.SeedGroup(context.Background(), "content.blog", false)
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestSeeder_SetDocument(t *testing.T) {
	store := newMockStore()
	seeder := NewSeeder(store, models.Object("site", models.Object("name", "A")), "", arbor.NewLogger())
	assert.Equal(t, []string{"site"}, seeder.Groups())

	seeder.SetDocument(models.Object("seo", models.Object("metaTitle", "B")))
	assert.Equal(t, []string{"seo"}, seeder.Groups())
}

func groupNames(report Report) []string {
	names := make([]string, len(report.Groups))
	for i, g := range report.Groups {
		names[i] = g.Group
	}
	return names
}
