package content

import (
	"fmt"
	"strings"

	"github.com/ternarybob/dernek/internal/models"
)

// OpaqueKey names the nested structure that is consumed as a whole and
// therefore stored as one leaf instead of being flattened
const OpaqueKey = "missionVision"

// Flatten converts a nested content document into dotted keys.
//
// Null values produce no key. Lists are leaves and are never split into
// indexed keys. A map under OpaqueKey is a leaf. Other maps are recursed.
func Flatten(document models.Document, prefix string) models.Values {
	out := models.Values{}
	flattenInto(out, document, prefix)
	return out
}

func flattenInto(out models.Values, document models.Document, prefix string) {
	fields, ok := document.AsMap()
	if !ok {
		return
	}

	for key, value := range fields {
		if value.IsNull() {
			continue
		}

		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch value.Kind() {
		case models.KindList:
			out[fullKey] = value
		case models.KindMap:
			if key == OpaqueKey {
				out[fullKey] = value
				continue
			}
			flattenInto(out, value, fullKey)
		default:
			out[fullKey] = value
		}
	}
}

// Unflatten rebuilds the nested document from dotted keys.
// It fails when one key is both a leaf and the parent of another key.
func Unflatten(values models.Values) (models.Document, error) {
	root := map[string]any{}

	for _, key := range values.Keys() {
		segments := strings.Split(key, ".")
		node := root
		for i, segment := range segments[:len(segments)-1] {
			next, exists := node[segment]
			if !exists {
				child := map[string]any{}
				node[segment] = child
				node = child
				continue
			}
			child, isBranch := next.(map[string]any)
			if !isBranch {
				return models.Null(), fmt.Errorf("key %s conflicts with leaf %s", key, strings.Join(segments[:i+1], "."))
			}
			node = child
		}

		leaf := segments[len(segments)-1]
		if _, exists := node[leaf]; exists {
			return models.Null(), fmt.Errorf("key %s conflicts with nested keys below it", key)
		}
		node[leaf] = values[key]
	}

	return models.FromAny(root)
}
