package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/dernek/internal/models"
	"github.com/ternarybob/dernek/internal/services/schema"
)

// ErrNotValid is returned when committing a session that holds no valid value
var ErrNotValid = errors.New("no valid value to commit")

// State is the position of an edit session in its lifecycle
type State int

const (
	StateViewing State = iota
	StateEditing
	StateValid
	StateInvalid
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	case StateCommitted:
		return "committed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Committer persists a committed value
type Committer interface {
	Upsert(ctx context.Context, key string, value models.Document, actor string) error
}

// Options configure a session
type Options struct {
	Format       Format
	Validator    *schema.Validator
	HiddenFields []string    // overrides the field's hidden sub-fields when non-nil
	NewID        IDGenerator // assigns identifiers to new object-list items on commit; nil disables
	Committer    Committer   // nil keeps commits in memory
	Actor        string
}

// Result is what an editing surface renders after each interaction
type Result struct {
	DisplayText string           `json:"display_text"`
	Valid       bool             `json:"valid"`
	Errors      []string         `json:"errors,omitempty"`
	Committed   *models.Document `json:"committed,omitempty"` // value a commit would store, or has stored
	Original    models.Document  `json:"original"`
	State       State            `json:"state"`
}

// Session reconciles operator edits of one structured field.
//
// Parse and validation failures leave the last committed value untouched.
// A valid edit is merged with the last-known original so hidden sub-fields
// survive, and only the merged value is ever committed.
// A Session is not safe for concurrent use.
type Session struct {
	key     string
	field   models.FieldSchema
	options Options
	hidden  []string

	original    models.Document
	committed   models.Document
	displayText string
	lastValid   *models.Document
	errors      []string
	state       State
}

// NewSession opens a session in the viewing state for the given current value
func NewSession(key string, field models.FieldSchema, current models.Document, options Options) (*Session, error) {
	if options.Validator == nil {
		options.Validator = schema.NewValidator()
		if err := options.Validator.Prepare(field); err != nil {
			return nil, err
		}
	}
	if options.Format == "" {
		options.Format = FormatJSON
	}

	hidden := options.HiddenFields
	if hidden == nil {
		hidden = field.Hidden()
	}

	s := &Session{
		key:       key,
		field:     field,
		options:   options,
		hidden:    hidden,
		original:  current,
		committed: current,
		state:     StateViewing,
	}

	text, err := s.render(current)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", key, err)
	}
	s.displayText = text
	return s, nil
}

func (s *Session) render(value models.Document) (string, error) {
	return Render(FilterForDisplay(value, s.hidden), s.options.Format)
}

// Key returns the settings key the session edits
func (s *Session) Key() string { return s.key }

// Field returns the schema of the edited field
func (s *Session) Field() models.FieldSchema { return s.field }

// State returns the current lifecycle state
func (s *Session) State() State { return s.state }

// Edit applies operator-edited text: parse, normalize, validate, then merge
func (s *Session) Edit(text string) Result {
	s.state = StateEditing
	s.displayText = text
	s.errors = nil
	s.lastValid = nil

	parsed, err := Parse(text, s.options.Format)
	if err != nil {
		s.state = StateInvalid
		s.errors = []string{err.Error()}
		return s.Result()
	}

	normalized := NormalizeNumericKeys(parsed)

	validation := s.options.Validator.Validate(s.field, normalized)
	if !validation.OK {
		s.state = StateInvalid
		s.errors = validation.Errors
		return s.Result()
	}

	merged := MergeWithOriginal(s.original, normalized)
	s.lastValid = &merged
	s.state = StateValid
	return s.Result()
}

// Reset replaces the pending value with the field default verbatim.
// The default also becomes the original later edits merge against.
func (s *Session) Reset() Result {
	value := s.field.Default.Clone()

	text, err := s.render(value)
	if err != nil {
		s.state = StateInvalid
		s.errors = []string{err.Error()}
		return s.Result()
	}

	s.displayText = text
	s.original = value
	s.lastValid = &value
	s.errors = nil
	s.state = StateValid
	return s.Result()
}

// Commit stores the merged value. Only a valid session can commit; on a
// store failure the session stays valid so the commit can be retried.
func (s *Session) Commit(ctx context.Context) (models.Document, error) {
	if s.state != StateValid || s.lastValid == nil {
		return models.Null(), fmt.Errorf("%w: session is %s", ErrNotValid, s.state)
	}

	value := *s.lastValid
	if s.options.NewID != nil && s.field.Type == models.TypeObjectList && s.field.IDField != "" {
		value, _ = AssignIDs(value, s.field.IDField, s.options.NewID)
	}

	if s.options.Committer != nil {
		if err := s.options.Committer.Upsert(ctx, s.key, value, s.options.Actor); err != nil {
			return models.Null(), fmt.Errorf("commit %s: %w", s.key, err)
		}
	}

	text, err := s.render(value)
	if err != nil {
		text = s.displayText
	}

	s.committed = value
	s.original = value
	s.lastValid = &value
	s.displayText = text
	s.errors = nil
	s.state = StateCommitted
	return value, nil
}

// Result snapshots the session for an editing surface
func (s *Session) Result() Result {
	result := Result{
		DisplayText: s.displayText,
		Valid:       s.state == StateValid || s.state == StateCommitted,
		Original:    s.original,
		State:       s.state,
	}
	if len(s.errors) > 0 {
		result.Errors = append([]string(nil), s.errors...)
	}
	if result.Valid && s.lastValid != nil {
		value := *s.lastValid
		result.Committed = &value
	}
	return result
}

// CommittedValue returns the last value the session committed or opened with
func (s *Session) CommittedValue() models.Document {
	return s.committed
}

// Reconcile runs one edit against a field without keeping a session.
// The result carries the merged value when the edit is valid.
func Reconcile(field models.FieldSchema, current models.Document, raw string, options Options) (Result, error) {
	options.Committer = nil
	session, err := NewSession("", field, current, options)
	if err != nil {
		return Result{}, err
	}
	return session.Edit(raw), nil
}
