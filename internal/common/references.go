// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 11:05:00 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package common

import (
	"regexp"

	"github.com/ternarybob/arbor"
)

// referencePattern matches {dotted.key} references in content text.
// Segments allow letters, digits, hyphens and underscores.
var referencePattern = regexp.MustCompile(`\{([A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)*)\}`)

// ExpandReferences replaces every {dotted.key} reference in input with its
// value from values. Unknown references are left unchanged and logged.
//
// Example:
//
//	ExpandReferences("© {site.name}", map[string]string{"site.name": "Dernek"}, logger)
//	Returns: "© Dernek"
func ExpandReferences(input string, values map[string]string, logger arbor.ILogger) string {
	if input == "" {
		return input
	}

	return referencePattern.ReplaceAllStringFunc(input, func(match string) string {
		key := match[1 : len(match)-1]
		if value, exists := values[key]; exists {
			return value
		}

		logger.Warn().
			Str("reference", match).
			Str("key", key).
			Msg("Unresolved content reference - key not set")
		return match
	})
}

// ReferencedKeys returns the keys referenced in input, in order of appearance
// and without duplicates
func ReferencedKeys(input string) []string {
	matches := referencePattern.FindAllStringSubmatch(input, -1)
	keys := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, match := range matches {
		if !seen[match[1]] {
			seen[match[1]] = true
			keys = append(keys, match[1])
		}
	}
	return keys
}
