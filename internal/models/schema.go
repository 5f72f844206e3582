package models

// SemanticType is the closed set of field kinds a page can declare
type SemanticType string

const (
	TypeShortText    SemanticType = "short-text"
	TypeLongText     SemanticType = "long-text"
	TypeNumber       SemanticType = "number"
	TypeBoolean      SemanticType = "boolean"
	TypeStringList   SemanticType = "string-list"
	TypeObjectList   SemanticType = "object-list"
	TypeOpaqueObject SemanticType = "opaque-object"
)

// Valid reports whether t is one of the declared semantic types
func (t SemanticType) Valid() bool {
	switch t {
	case TypeShortText, TypeLongText, TypeNumber, TypeBoolean,
		TypeStringList, TypeObjectList, TypeOpaqueObject:
		return true
	}
	return false
}

// Structured reports whether values of this type are edited as structured text
func (t SemanticType) Structured() bool {
	return t == TypeStringList || t == TypeObjectList || t == TypeOpaqueObject
}

// RuleKind names a validation predicate
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RuleMinLength RuleKind = "min-length"
	RuleMaxLength RuleKind = "max-length"
	RulePattern   RuleKind = "pattern"
	RuleCustom    RuleKind = "custom"
	RuleEmail     RuleKind = "email"
	RuleURL       RuleKind = "url"
)

// Rule is one stateless validation predicate with its failure message.
// Custom rules carry either an expression over `value` or a Go predicate.
type Rule struct {
	Kind    RuleKind              `json:"kind"`
	Length  int                   `json:"length,omitempty"`
	Pattern string                `json:"pattern,omitempty"`
	Expr    string                `json:"expr,omitempty"`
	Check   func(v Document) bool `json:"-"`
	Message string                `json:"message"`
}

func RequiredRule(message string) Rule {
	return Rule{Kind: RuleRequired, Message: message}
}

func MinLength(n int, message string) Rule {
	return Rule{Kind: RuleMinLength, Length: n, Message: message}
}

func MaxLength(n int, message string) Rule {
	return Rule{Kind: RuleMaxLength, Length: n, Message: message}
}

func Pattern(pattern, message string) Rule {
	return Rule{Kind: RulePattern, Pattern: pattern, Message: message}
}

// CustomExpr builds a custom rule from a boolean expression, e.g. `value > 0`
func CustomExpr(expression, message string) Rule {
	return Rule{Kind: RuleCustom, Expr: expression, Message: message}
}

// CustomFunc builds a custom rule from a Go predicate
func CustomFunc(check func(v Document) bool, message string) Rule {
	return Rule{Kind: RuleCustom, Check: check, Message: message}
}

func EmailRule(message string) Rule {
	return Rule{Kind: RuleEmail, Message: message}
}

func URLRule(message string) Rule {
	return Rule{Kind: RuleURL, Message: message}
}

// StructuralSchema describes the per-item shape of list and object fields
type StructuralSchema struct {
	RequiredSubFields []string `json:"required_sub_fields,omitempty"`
	ExampleItem       Document `json:"example_item"`
}

// DefaultHiddenFields are the machine-owned sub-fields never shown for manual editing
var DefaultHiddenFields = []string{"id", "icon", "color"}

// FieldSchema describes one addressable content field within a page
type FieldSchema struct {
	Key           string            `json:"key"`
	Label         string            `json:"label"`
	Type          SemanticType      `json:"type"`
	Required      bool              `json:"required"`
	Rules         []Rule            `json:"rules,omitempty"`
	Default       Document          `json:"default"`
	ExampleFormat string            `json:"example_format,omitempty"`
	Structure     *StructuralSchema `json:"structure,omitempty"`
	HiddenFields  []string          `json:"hidden_fields,omitempty"` // nil means DefaultHiddenFields
	IDField       string            `json:"id_field,omitempty"`      // sub-field assigned an identifier on commit
}

// Hidden returns a copy of the machine-owned sub-fields filtered from display
func (f FieldSchema) Hidden() []string {
	if f.HiddenFields == nil {
		return append([]string(nil), DefaultHiddenFields...)
	}
	return append([]string{}, f.HiddenFields...)
}

// RequiredSubFields returns the structural required sub-fields, if any
func (f FieldSchema) RequiredSubFields() []string {
	if f.Structure == nil {
		return nil
	}
	return f.Structure.RequiredSubFields
}
