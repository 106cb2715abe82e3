package types

import (
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// FieldID is the identity field present on every addressable resource.
const FieldID = "id"

// Record is the raw field/value snapshot of one remote resource as decoded
// from JSON: strings, float64 numbers, bools, nil, nested maps and slices.
type Record map[string]any

// Clone returns a deep copy of the record. Nested maps and slices are copied
// so that mutations of the clone never reach the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Record:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

// ID returns the record's identity normalized to a string. Planka sends ids
// as strings, but numeric ids decoded from JSON arrive as float64.
// Returns ErrInvalidRecord if the field is missing or not scalar.
func (r Record) ID() (string, error) {
	raw, ok := r[FieldID]
	if !ok || raw == nil {
		return "", ErrInvalidRecord
	}
	id, err := cast.ToStringE(raw)
	if err != nil || id == "" {
		return "", ErrInvalidRecord
	}
	return id, nil
}

// Fields returns the record's field names in sorted order.
func (r Record) Fields() []string {
	return slices.Sorted(maps.Keys(r))
}
