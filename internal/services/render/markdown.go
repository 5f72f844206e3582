package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/common"
	"github.com/ternarybob/dernek/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrNotRenderable is returned for values that have no text form
var ErrNotRenderable = errors.New("value is not text")

// Renderer turns long-text content values into HTML fragments
type Renderer struct {
	md     goldmark.Markdown
	logger arbor.ILogger
}

// NewRenderer creates a renderer with GitHub Flavored Markdown enabled
func NewRenderer(logger arbor.ILogger) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	return &Renderer{md: md, logger: logger}
}

// Markdown converts markdown text to HTML. Raw HTML in the input is omitted.
func (r *Renderer) Markdown(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		r.logger.Error().Err(err).Int("input_len", len(text)).Msg("Failed to convert markdown to HTML")
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	r.logger.Debug().Int("markdown_len", len(text)).Int("html_len", buf.Len()).Msg("Markdown converted to HTML")
	return strings.TrimSpace(buf.String()), nil
}

// Value renders a content value: text as markdown, a string list as a bullet
// list, null as the empty fragment
func (r *Renderer) Value(value models.Document) (string, error) {
	switch value.Kind() {
	case models.KindNull:
		return "", nil
	case models.KindString:
		text, _ := value.AsString()
		return r.Markdown(text)
	case models.KindList:
		items, _ := value.AsList()
		var b strings.Builder
		for _, item := range items {
			text, ok := item.AsString()
			if !ok {
				return "", fmt.Errorf("%w: list holds %s items", ErrNotRenderable, item.Kind())
			}
			b.WriteString("- ")
			b.WriteString(strings.ReplaceAll(text, "\n", " "))
			b.WriteString("\n")
		}
		return r.Markdown(b.String())
	default:
		return "", fmt.Errorf("%w: %s", ErrNotRenderable, value.Kind())
	}
}

// ValueWithReferences renders value after expanding {dotted.key} references
// in its text against refs
func (r *Renderer) ValueWithReferences(value models.Document, refs map[string]string) (string, error) {
	switch value.Kind() {
	case models.KindString:
		text, _ := value.AsString()
		value = models.String(common.ExpandReferences(text, refs, r.logger))
	case models.KindList:
		items, _ := value.AsList()
		for i, item := range items {
			if text, ok := item.AsString(); ok {
				items[i] = models.String(common.ExpandReferences(text, refs, r.logger))
			}
		}
		value = models.List(items...)
	}
	return r.Value(value)
}

// TextValues returns the scalar entries of values as text, for use as
// reference values
func TextValues(values models.Values) map[string]string {
	refs := make(map[string]string, len(values))
	for key, value := range values {
		switch value.Category() {
		case models.CategoryString:
			text, _ := value.AsString()
			refs[key] = text
		case models.CategoryNumber, models.CategoryBoolean:
			refs[key] = value.String()
		}
	}
	return refs
}
