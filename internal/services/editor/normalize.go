package editor

import (
	"sort"
	"strings"

	"github.com/ternarybob/dernek/internal/models"
)

// NormalizeNumericKeys turns an object whose keys are all decimal digits back
// into the list it was meant to be, ordered by numeric key value.
// Empty objects and anything that is not an object are returned unchanged.
func NormalizeNumericKeys(value models.Document) models.Document {
	if value.Kind() != models.KindMap || value.Len() == 0 {
		return value
	}

	keys := value.Keys()
	for _, key := range keys {
		if !isDigits(key) {
			return value
		}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return lessNumeric(keys[i], keys[j])
	})

	items := make([]models.Document, len(keys))
	for i, key := range keys {
		items[i], _ = value.Get(key)
	}
	return models.List(items...)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// lessNumeric compares digit strings by value without overflowing on long keys
func lessNumeric(a, b string) bool {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) < len(tb)
	}
	if ta != tb {
		return ta < tb
	}
	return a < b
}
