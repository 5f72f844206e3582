package editor

import (
	"github.com/ternarybob/dernek/internal/models"
)

// IDGenerator returns a fresh identifier for a list item
type IDGenerator func() string

// AssignIDs gives every map item of a list that lacks idField (or has it
// empty) a generated identifier. Other values are returned unchanged.
func AssignIDs(value models.Document, idField string, next IDGenerator) (models.Document, int) {
	items, ok := value.AsList()
	if !ok || idField == "" || next == nil {
		return value, 0
	}

	assigned := 0
	for i, item := range items {
		if item.Kind() != models.KindMap {
			continue
		}
		if id, present := item.Get(idField); present && !id.IsFalsy() {
			continue
		}
		fields, _ := item.AsMap()
		fields[idField] = models.String(next())
		items[i] = models.Map(fields)
		assigned++
	}
	if assigned == 0 {
		return value, 0
	}
	return models.List(items...), assigned
}
