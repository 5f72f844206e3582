package settings

import (
	"github.com/ternarybob/dernek/internal/models"
)

// Resolve looks key up in values and guards the result against type drift.
//
// An absent or null stored value yields fallback. A null fallback means the
// caller has no type preference and the stored value is returned as is.
// Otherwise the stored value is returned only when its category matches the
// fallback's; lists and maps both count as objects.
func Resolve(values models.Values, key string, fallback models.Document) models.Document {
	stored, ok := values[key]
	if !ok || stored.IsNull() {
		return fallback
	}
	if fallback.IsNull() {
		return stored
	}
	if stored.Category() != fallback.Category() {
		return fallback
	}
	return stored
}

// ResolveAny returns the stored value of any type, or null when absent
func ResolveAny(values models.Values, key string) models.Document {
	return Resolve(values, key, models.Null())
}

func ResolveString(values models.Values, key, fallback string) string {
	s, _ := Resolve(values, key, models.String(fallback)).AsString()
	return s
}

func ResolveNumber(values models.Values, key string, fallback float64) float64 {
	n, _ := Resolve(values, key, models.Number(fallback)).AsNumber()
	return n
}

func ResolveBool(values models.Values, key string, fallback bool) bool {
	b, _ := Resolve(values, key, models.Bool(fallback)).AsBool()
	return b
}

// ResolveStrings resolves a string list. A stored map or a list holding
// anything other than strings falls back.
func ResolveStrings(values models.Values, key string, fallback []string) []string {
	resolved := Resolve(values, key, models.Strings(fallback...))
	items, ok := resolved.AsList()
	if !ok {
		return fallback
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.AsString()
		if !ok {
			return fallback
		}
		out = append(out, s)
	}
	return out
}
