package editor

import (
	"github.com/ternarybob/dernek/internal/models"
)

// MergeWithOriginal recombines an edited value with the last-known original so
// that sub-fields hidden from the editor are restored.
//
//   - list/list: a string list or a change of element category returns edited;
//     object elements are shallow-combined index by index and elements beyond
//     the original's length pass through unchanged
//   - map/map: shallow combine, edited wins on collisions
//   - anything else: edited wins
func MergeWithOriginal(original, edited models.Document) models.Document {
	switch {
	case original.Kind() == models.KindList && edited.Kind() == models.KindList:
		return mergeLists(original, edited)
	case original.Kind() == models.KindMap && edited.Kind() == models.KindMap:
		return shallowCombine(original, edited)
	default:
		return edited
	}
}

func mergeLists(original, edited models.Document) models.Document {
	originalItems, _ := original.AsList()
	editedItems, _ := edited.AsList()
	if len(originalItems) == 0 || len(editedItems) == 0 {
		return edited
	}

	originalCategory := originalItems[0].Category()
	editedCategory := editedItems[0].Category()
	if originalCategory != editedCategory {
		return edited
	}
	if editedCategory != models.CategoryObject {
		// plain string (or other primitive) lists carry no hidden fields
		return edited
	}

	merged := make([]models.Document, len(editedItems))
	for i, item := range editedItems {
		if i < len(originalItems) && originalItems[i].Kind() == models.KindMap && item.Kind() == models.KindMap {
			merged[i] = shallowCombine(originalItems[i], item)
			continue
		}
		merged[i] = item
	}
	return models.List(merged...)
}

// shallowCombine copies original's fields, then edited's on top
func shallowCombine(original, edited models.Document) models.Document {
	fields, _ := original.AsMap()
	editedFields, _ := edited.AsMap()
	for key, value := range editedFields {
		fields[key] = value
	}
	return models.Map(fields)
}
