package content

import (
	"context"

	"github.com/ternarybob/dernek/internal/models"
)

// Reader is the part of the settings boundary export reads from
type Reader interface {
	GetByPrefix(ctx context.Context, prefix string) models.Values
	All(ctx context.Context) models.Values
}

// Export rebuilds the nested content document from stored keys.
// An empty prefix exports every key.
func Export(ctx context.Context, reader Reader, prefix string) (models.Document, error) {
	var values models.Values
	if prefix == "" {
		values = reader.All(ctx)
	} else {
		values = reader.GetByPrefix(ctx, prefix)
	}
	return Unflatten(values)
}
