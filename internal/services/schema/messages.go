package schema

import (
	"fmt"

	"github.com/ternarybob/dernek/internal/models"
)

// RequiredMessage is reported when a required field is empty
func RequiredMessage(label string) string {
	return label + " zorunludur"
}

// MissingSubFieldMessage is reported per list item and missing required sub-field.
// index is 1-based.
func MissingSubFieldMessage(label string, index int, field string) string {
	return fmt.Sprintf("%s - %d. öğe: %q alanı zorunludur", label, index, field)
}

func NotListMessage(label string) string {
	return label + " bir liste olmalıdır"
}

func NotStringListMessage(label string) string {
	return label + " yalnızca metin öğeleri içermelidir"
}

func NotObjectMessage(label string) string {
	return label + " bir nesne olmalıdır"
}

func NotNumberMessage(label string) string {
	return label + " bir sayı olmalıdır"
}

func NotBooleanMessage(label string) string {
	return label + " evet/hayır değeri olmalıdır"
}

func NotTextMessage(label string) string {
	return label + " metin olmalıdır"
}

// ruleMessage returns the rule's own message or a generated one
func ruleMessage(field models.FieldSchema, rule models.Rule) string {
	if rule.Message != "" {
		return rule.Message
	}
	switch rule.Kind {
	case models.RuleRequired:
		return RequiredMessage(field.Label)
	case models.RuleMinLength:
		return fmt.Sprintf("%s en az %d karakter olmalıdır", field.Label, rule.Length)
	case models.RuleMaxLength:
		return fmt.Sprintf("%s en fazla %d karakter olmalıdır", field.Label, rule.Length)
	case models.RuleEmail:
		return field.Label + " geçerli bir e-posta adresi olmalıdır"
	case models.RuleURL:
		return field.Label + " geçerli bir bağlantı olmalıdır"
	default:
		return field.Label + " geçersiz"
	}
}
