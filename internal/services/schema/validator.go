package schema

import (
	"fmt"
	"math"

	"github.com/ternarybob/dernek/internal/models"
)

// Result is the outcome of validating one value against one field
type Result struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors,omitempty"`
}

// Validator checks values against field schemas
type Validator struct {
	rules *ruleSet
}

// NewValidator creates a validator with empty rule caches
func NewValidator() *Validator {
	return &Validator{rules: newRuleSet()}
}

// Prepare compiles the patterns and expressions a field's rules use
func (v *Validator) Prepare(field models.FieldSchema) error {
	for i, rule := range field.Rules {
		if err := v.rules.prepare(rule); err != nil {
			return fmt.Errorf("field %s rule %d: %w", field.Key, i+1, err)
		}
	}
	return nil
}

// Validate checks value against field.
//
// A required field with a null or empty-string value yields exactly one
// error and nothing else runs. An optional empty value is accepted as is.
// Otherwise every rule runs and all failures are reported together,
// followed by the structural checks of the field's semantic type.
func (v *Validator) Validate(field models.FieldSchema, value models.Document) Result {
	if value.IsEmpty() {
		if field.Required {
			return Result{OK: false, Errors: []string{RequiredMessage(field.Label)}}
		}
		return Result{OK: true}
	}

	errs := []string{}
	for _, rule := range field.Rules {
		if !v.rules.passes(rule, value) {
			errs = append(errs, ruleMessage(field, rule))
		}
	}

	errs = append(errs, structuralErrors(field, value)...)

	if len(errs) == 0 {
		return Result{OK: true}
	}
	return Result{OK: false, Errors: errs}
}

// structuralErrors checks the shape implied by the semantic type
func structuralErrors(field models.FieldSchema, value models.Document) []string {
	switch field.Type {
	case models.TypeObjectList:
		items, ok := value.AsList()
		if !ok {
			return []string{NotListMessage(field.Label)}
		}
		var errs []string
		required := field.RequiredSubFields()
		for i, item := range items {
			for _, name := range required {
				sub, present := item.Get(name)
				if !present || sub.IsFalsy() {
					errs = append(errs, MissingSubFieldMessage(field.Label, i+1, name))
				}
			}
		}
		return errs

	case models.TypeStringList:
		items, ok := value.AsList()
		if !ok {
			return []string{NotListMessage(field.Label)}
		}
		for _, item := range items {
			if item.Kind() != models.KindString {
				return []string{NotStringListMessage(field.Label)}
			}
		}
		return nil

	case models.TypeOpaqueObject:
		if value.Kind() != models.KindMap {
			return []string{NotObjectMessage(field.Label)}
		}
		return nil

	case models.TypeNumber:
		n, ok := value.AsNumber()
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return []string{NotNumberMessage(field.Label)}
		}
		return nil

	case models.TypeBoolean:
		if value.Kind() != models.KindBool {
			return []string{NotBooleanMessage(field.Label)}
		}
		return nil

	case models.TypeShortText, models.TypeLongText:
		if value.Kind() != models.KindString {
			return []string{NotTextMessage(field.Label)}
		}
		return nil
	}
	return nil
}
