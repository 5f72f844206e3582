package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/dernek/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.toml
var defaultContent []byte

// Format names a document encoding
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name or a file extension
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json", "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q", name)
	}
}

// DefaultDocument returns the embedded canonical content document
func DefaultDocument() (models.Document, error) {
	return Decode(defaultContent, FormatTOML)
}

// LoadDocument reads a content document; an empty path yields the embedded default
func LoadDocument(path string) (models.Document, error) {
	if path == "" {
		return DefaultDocument()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Null(), fmt.Errorf("failed to read content file %s: %w", path, err)
	}

	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return models.Null(), fmt.Errorf("content file %s: %w", path, err)
	}

	doc, err := Decode(data, format)
	if err != nil {
		return models.Null(), fmt.Errorf("failed to parse content file %s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a document whose top level must be a table/object
func Decode(data []byte, format Format) (models.Document, error) {
	var raw map[string]any

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return models.Null(), err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return models.Null(), err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return models.Null(), err
		}
	default:
		return models.Null(), fmt.Errorf("unsupported format %q", format)
	}

	if raw == nil {
		raw = map[string]any{}
	}
	return models.FromAny(raw)
}

// Encode renders a document. TOML has no null, so null fields are dropped for it.
func Encode(doc models.Document, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(withoutNulls(doc).ToAny())
	case FormatYAML:
		return yaml.Marshal(doc.ToAny())
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func withoutNulls(doc models.Document) models.Document {
	switch doc.Kind() {
	case models.KindMap:
		fields, _ := doc.AsMap()
		out := make(map[string]models.Document, len(fields))
		for k, v := range fields {
			if v.IsNull() {
				continue
			}
			out[k] = withoutNulls(v)
		}
		return models.Map(out)
	case models.KindList:
		items, _ := doc.AsList()
		out := make([]models.Document, 0, len(items))
		for _, item := range items {
			if item.IsNull() {
				continue
			}
			out = append(out, withoutNulls(item))
		}
		return models.List(out...)
	default:
		return doc
	}
}
