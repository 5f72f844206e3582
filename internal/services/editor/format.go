package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/dernek/internal/models"
	"gopkg.in/yaml.v3"
)

// Format is the structured-text syntax values are edited in
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a config or flag value onto a Format; empty selects JSON
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported edit format %q", name)
	}
}

// Parse reads operator-edited text. Blank text is the null document.
func Parse(text string, format Format) (models.Document, error) {
	if strings.TrimSpace(text) == "" {
		return models.Null(), nil
	}

	var value models.Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal([]byte(text), &value); err != nil {
			return models.Null(), err
		}
	default:
		if err := json.Unmarshal([]byte(text), &value); err != nil {
			return models.Null(), err
		}
	}
	return value, nil
}

// Render produces the editable text of a value
func Render(value models.Document, format Format) (string, error) {
	var buf bytes.Buffer

	switch format {
	case FormatYAML:
		if value.IsNull() {
			return "", nil
		}
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(value.ToAny()); err != nil {
			return "", err
		}
		if err := enc.Close(); err != nil {
			return "", err
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(value.ToAny()); err != nil {
			return "", err
		}
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}
