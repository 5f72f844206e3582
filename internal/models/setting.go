package models

import (
	"sort"
	"time"
)

// Setting is one stored record in the flat dotted-key space.
// Key is globally unique; the record is created on first write and
// mutated in place afterwards.
type Setting struct {
	Key            string    `json:"key"`
	Value          Document  `json:"value"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	LastModifiedBy *string   `json:"last_modified_by,omitempty"` // nil when written by the system
}

// Actor returns the last modifier or an empty string
func (s Setting) Actor() string {
	if s.LastModifiedBy == nil {
		return ""
	}
	return *s.LastModifiedBy
}

// ActorPtr converts an actor id into the nullable form stored on a Setting
func ActorPtr(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}

// Values is a flat key to value mapping as returned by prefix queries
type Values map[string]Document

// Keys returns the keys sorted ascending
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored at key
func (v Values) Get(key string) (Document, bool) {
	d, ok := v[key]
	return d, ok
}
