package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/models"
)

// ErrUnknownGroup is returned when a seed group has no keys in the content document
var ErrUnknownGroup = errors.New("unknown seed group")

// Store is the part of the settings boundary the seeder writes through
type Store interface {
	Get(ctx context.Context, key string) (models.Document, bool)
	Upsert(ctx context.Context, key string, value models.Document, actor string) error
}

// SeedResult counts what one seed run did
type SeedResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Add accumulates another result
func (r *SeedResult) Add(other SeedResult) {
	r.Created += other.Created
	r.Updated += other.Updated
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// GroupResult is the outcome for one seed group
type GroupResult struct {
	Group string `json:"group"`
	SeedResult
}

// Report aggregates the per-group results of a full seed
type Report struct {
	Groups []GroupResult `json:"groups"`
	Total  SeedResult    `json:"total"`
}

// groupOrder fixes the order of the well-known groups; page groups follow sorted
var groupOrder = []string{"site", "contact", "social", "seo"}

// GroupOf returns the seed group of a key: its first segment, or the first
// two segments for keys under "content"
func GroupOf(key string) string {
	segments := strings.SplitN(key, ".", 3)
	if segments[0] == "content" && len(segments) > 2 {
		return segments[0] + "." + segments[1]
	}
	return segments[0]
}

// GroupValues splits flattened content into seed groups
func GroupValues(flat models.Values) map[string]models.Values {
	groups := make(map[string]models.Values)
	for key, value := range flat {
		group := GroupOf(key)
		if groups[group] == nil {
			groups[group] = models.Values{}
		}
		groups[group][key] = value
	}
	return groups
}

// SortGroups orders group ids: well-known groups first, then the rest sorted
func SortGroups(groups []string) []string {
	rank := make(map[string]int, len(groupOrder))
	for i, g := range groupOrder {
		rank[g] = i
	}
	out := append([]string(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iKnown := rank[out[i]]
		rj, jKnown := rank[out[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return out[i] < out[j]
		}
	})
	return out
}

// Seeder writes the canonical default content into the settings store
type Seeder struct {
	store  Store
	logger arbor.ILogger
	actor  string

	mu     sync.Mutex // serialises seed runs and guards groups
	groups map[string]models.Values
}

// NewSeeder creates a seeder for a content document
func NewSeeder(store Store, document models.Document, actor string, logger arbor.ILogger) *Seeder {
	s := &Seeder{
		store:  store,
		logger: logger,
		actor:  actor,
	}
	s.groups = GroupValues(Flatten(document, ""))
	return s
}

// SetDocument replaces the content document used by later runs
func (s *Seeder) SetDocument(document models.Document) {
	groups := GroupValues(Flatten(document, ""))

	s.mu.Lock()
	s.groups = groups
	s.mu.Unlock()

	s.logger.Info().Int("groups", len(groups)).Msg("Seed content document replaced")
}

// Groups returns the seed group ids in seeding order
func (s *Seeder) Groups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	return SortGroups(ids)
}

// Seed walks flattened content against the store.
// Absent keys are created. Present keys are overwritten when overwrite is
// set and skipped otherwise. Write faults are counted, not returned.
func (s *Seeder) Seed(ctx context.Context, flat models.Values, overwrite bool, actor string) SeedResult {
	var result SeedResult

	for _, key := range flat.Keys() {
		value := flat[key]

		_, exists := s.store.Get(ctx, key)
		if exists && !overwrite {
			result.Skipped++
			continue
		}

		if err := s.store.Upsert(ctx, key, value, actor); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to seed key")
			result.Failed++
			continue
		}

		if exists {
			result.Updated++
		} else {
			result.Created++
		}
	}

	return result
}

// SeedGroup seeds one group of the current content document
func (s *Seeder) SeedGroup(ctx context.Context, group string, overwrite bool) (SeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.seedGroupLocked(ctx, group, overwrite)
}

func (s *Seeder) seedGroupLocked(ctx context.Context, group string, overwrite bool) (SeedResult, error) {
	flat, ok := s.groups[group]
	if !ok {
		return SeedResult{}, fmt.Errorf("%w: %s", ErrUnknownGroup, group)
	}

	result := s.Seed(ctx, flat, overwrite, s.actor)

	s.logger.Debug().
		Str("group", group).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Seeded group")

	return result, nil
}

// SeedAll seeds the listed groups, or every group when none are listed,
// and sums the per-group counts into a total
func (s *Seeder) SeedAll(ctx context.Context, overwrite bool, groups ...string) (Report, error) {
	if len(groups) == 0 {
		groups = s.Groups()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report := Report{Groups: make([]GroupResult, 0, len(groups))}
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := s.seedGroupLocked(ctx, group, overwrite)
		if err != nil {
			return report, err
		}
		report.Groups = append(report.Groups, GroupResult{Group: group, SeedResult: result})
		report.Total.Add(result)
	}

	s.logger.Info().
		Bool("overwrite", overwrite).
		Int("groups", len(report.Groups)).
		Int("created", report.Total.Created).
		Int("updated", report.Total.Updated).
		Int("skipped", report.Total.Skipped).
		Int("failed", report.Total.Failed).
		Msg("Finished seeding default content")

	return report, nil
}
