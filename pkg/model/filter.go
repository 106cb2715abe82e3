package model

import (
	"cmp"
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

// Predicate selects entities by arbitrary logic.
type Predicate func(e *Entity) bool

// FieldPredicate tests a single field value inside a SchemaFilter.
type FieldPredicate func(value any) bool

// SchemaFilter maps field names to field tests. A test is either a
// FieldPredicate (or a plain func(any) bool) or a literal compared for
// equality. An entity matches when every test passes; a field the entity
// does not have fails its test.
type SchemaFilter map[string]any

// Match reports whether e passes every field test.
func (f SchemaFilter) Match(e *Entity) bool {
	for field, test := range f {
		v, ok := e.Get(field)
		if !ok {
			return false
		}
		switch t := test.(type) {
		case FieldPredicate:
			if !t(v) {
				return false
			}
		case func(any) bool:
			if !t(v) {
				return false
			}
		default:
			if !valuesEqual(v, test) {
				return false
			}
		}
	}
	return true
}

// valuesEqual compares record values. Numbers compare by value regardless of
// their Go type since JSON decoding yields float64.
func valuesEqual(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		return cast.ToFloat64(a) == cast.ToFloat64(b)
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// compareValues orders record values for OrderBy: nil first, then bools,
// numbers and strings. Values of other kinds compare by their formatted text.
func compareValues(a, b any) int {
	if ra, rb := rank(a), rank(b); ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch av := a.(type) {
	case nil:
		return 0
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case string:
		return cmp.Compare(av, b.(string))
	}
	if isNumber(a) {
		return cmp.Compare(cast.ToFloat64(a), cast.ToFloat64(b))
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case string:
		return 3
	}
	if isNumber(v) {
		return 2
	}
	return 4
}
