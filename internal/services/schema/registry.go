package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/dernek/internal/models"
)

var (
	// ErrUnknownPage is returned when a page id is not registered
	ErrUnknownPage = errors.New("unknown page")
	// ErrUnknownField is returned when a field key is not declared on a page
	ErrUnknownField = errors.New("unknown field")
)

// Page is one editable namespace of fields stored under a common key prefix
type Page struct {
	ID     string               `json:"id"`
	Title  string               `json:"title"`
	Prefix string               `json:"prefix"`
	Fields []models.FieldSchema `json:"fields"`
}

// SettingKey returns the store key of a field on this page
func (p Page) SettingKey(fieldKey string) string {
	return p.Prefix + "." + fieldKey
}

// Registry is the immutable table of page and field schemas.
// It is built once at startup; all accessors return copies.
type Registry struct {
	pages     []Page
	pageIndex map[string]int
	fields    map[string]map[string]int
	validator *Validator
}

// NewRegistry validates the page table, fills missing defaults from the
// flattened default content and compiles every rule
func NewRegistry(pages []Page, defaults models.Values) (*Registry, error) {
	r := &Registry{
		pages:     make([]Page, 0, len(pages)),
		pageIndex: make(map[string]int, len(pages)),
		fields:    make(map[string]map[string]int, len(pages)),
		validator: NewValidator(),
	}

	for _, page := range pages {
		if page.ID == "" {
			return nil, fmt.Errorf("page with empty id")
		}
		if _, exists := r.pageIndex[page.ID]; exists {
			return nil, fmt.Errorf("duplicate page id %q", page.ID)
		}
		if page.Prefix == "" || strings.HasSuffix(page.Prefix, ".") {
			return nil, fmt.Errorf("page %s: invalid prefix %q", page.ID, page.Prefix)
		}

		copied := Page{ID: page.ID, Title: page.Title, Prefix: page.Prefix}
		index := make(map[string]int, len(page.Fields))
		for _, field := range page.Fields {
			if field.Key == "" {
				return nil, fmt.Errorf("page %s: field with empty key", page.ID)
			}
			if _, exists := index[field.Key]; exists {
				return nil, fmt.Errorf("page %s: duplicate field key %q", page.ID, field.Key)
			}
			if !field.Type.Valid() {
				return nil, fmt.Errorf("page %s: field %s has unknown type %q", page.ID, field.Key, field.Type)
			}
			if err := r.validator.Prepare(field); err != nil {
				return nil, fmt.Errorf("page %s: %w", page.ID, err)
			}

			field = cloneField(field)
			if field.Default.IsNull() {
				if value, ok := defaults[page.SettingKey(field.Key)]; ok {
					field.Default = value.Clone()
				}
			}

			index[field.Key] = len(copied.Fields)
			copied.Fields = append(copied.Fields, field)
		}

		r.pageIndex[page.ID] = len(r.pages)
		r.fields[page.ID] = index
		r.pages = append(r.pages, copied)
	}

	return r, nil
}

func cloneField(field models.FieldSchema) models.FieldSchema {
	field.Default = field.Default.Clone()
	field.Rules = append([]models.Rule(nil), field.Rules...)
	if field.HiddenFields != nil {
		// nil selects the default hidden set, so only non-nil slices are copied
		field.HiddenFields = append([]string{}, field.HiddenFields...)
	}
	if field.Structure != nil {
		structure := *field.Structure
		structure.RequiredSubFields = append([]string(nil), structure.RequiredSubFields...)
		structure.ExampleItem = structure.ExampleItem.Clone()
		field.Structure = &structure
	}
	return field
}

func clonePage(page Page) Page {
	out := Page{ID: page.ID, Title: page.Title, Prefix: page.Prefix, Fields: make([]models.FieldSchema, len(page.Fields))}
	for i, field := range page.Fields {
		out.Fields[i] = cloneField(field)
	}
	return out
}

// Pages returns every page in declaration order
func (r *Registry) Pages() []Page {
	out := make([]Page, len(r.pages))
	for i, page := range r.pages {
		out[i] = clonePage(page)
	}
	return out
}

// Page returns one page by id
func (r *Registry) Page(id string) (Page, error) {
	i, ok := r.pageIndex[id]
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrUnknownPage, id)
	}
	return clonePage(r.pages[i]), nil
}

// Field returns the schema of one field on a page
func (r *Registry) Field(pageID, key string) (models.FieldSchema, error) {
	pi, ok := r.pageIndex[pageID]
	if !ok {
		return models.FieldSchema{}, fmt.Errorf("%w: %s", ErrUnknownPage, pageID)
	}
	fi, ok := r.fields[pageID][key]
	if !ok {
		return models.FieldSchema{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, pageID, key)
	}
	return cloneField(r.pages[pi].Fields[fi]), nil
}

// SettingKey returns the store key of a field
func (r *Registry) SettingKey(pageID, key string) (string, error) {
	if _, err := r.Field(pageID, key); err != nil {
		return "", err
	}
	return r.pages[r.pageIndex[pageID]].SettingKey(key), nil
}

// Lookup finds the page and field a store key belongs to
func (r *Registry) Lookup(settingKey string) (Page, models.FieldSchema, bool) {
	for _, page := range r.pages {
		fieldKey, found := strings.CutPrefix(settingKey, page.Prefix+".")
		if !found {
			continue
		}
		if fi, ok := r.fields[page.ID][fieldKey]; ok {
			return clonePage(page), cloneField(page.Fields[fi]), true
		}
	}
	return Page{}, models.FieldSchema{}, false
}

// Validator returns the validator holding the registry's compiled rules
func (r *Registry) Validator() *Validator {
	return r.validator
}

// Validate checks a value against a registered field
func (r *Registry) Validate(pageID, key string, value models.Document) (Result, error) {
	field, err := r.Field(pageID, key)
	if err != nil {
		return Result{}, err
	}
	return r.validator.Validate(field, value), nil
}

// Defaults returns the flattened default value of every field that has one
func (r *Registry) Defaults() models.Values {
	values := models.Values{}
	for _, page := range r.pages {
		for _, field := range page.Fields {
			if !field.Default.IsNull() {
				values[page.SettingKey(field.Key)] = field.Default.Clone()
			}
		}
	}
	return values
}
