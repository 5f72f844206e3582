package editor

import (
	"github.com/ternarybob/dernek/internal/models"
)

// FilterForDisplay removes machine-owned sub-fields from a value before it is
// shown for editing. A list starting with a string is returned unchanged.
// Other lists are filtered element by element and maps drop every excluded
// key, recursing into nested lists and maps.
func FilterForDisplay(value models.Document, excluded []string) models.Document {
	switch value.Kind() {
	case models.KindList:
		items, _ := value.AsList()
		if len(items) > 0 && items[0].Kind() == models.KindString {
			return value
		}
		filtered := make([]models.Document, len(items))
		for i, item := range items {
			filtered[i] = FilterForDisplay(item, excluded)
		}
		return models.List(filtered...)

	case models.KindMap:
		skip := make(map[string]bool, len(excluded))
		for _, key := range excluded {
			skip[key] = true
		}
		fields, _ := value.AsMap()
		kept := make(map[string]models.Document, len(fields))
		for key, field := range fields {
			if skip[key] {
				continue
			}
			kept[key] = FilterForDisplay(field, excluded)
		}
		return models.Map(kept)

	default:
		return value
	}
}
