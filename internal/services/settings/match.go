package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ternarybob/dernek/internal/models"
)

// keyPath maps a dotted key onto the slash-separated form doublestar matches against
func keyPath(key string) string {
	return strings.ReplaceAll(key, ".", "/")
}

// Match returns every stored value whose key matches a glob over dotted
// segments, e.g. "content.*.title" or "content.home.**".
// This is an operator convenience outside the prefix read contract.
func (s *Store) Match(ctx context.Context, pattern string) (models.Values, error) {
	globPattern := keyPath(pattern)
	if !doublestar.ValidatePattern(globPattern) {
		return nil, fmt.Errorf("invalid key pattern %q", pattern)
	}

	values := models.Values{}
	for key, value := range s.All(ctx) {
		matched, err := doublestar.Match(globPattern, keyPath(key))
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", pattern, err)
		}
		if matched {
			values[key] = value
		}
	}
	return values, nil
}
