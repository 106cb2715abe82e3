package model

import (
	"iter"
	"slices"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// Collection is an ordered sequence of entities of one resource type.
// Lookups that return sub-collections never modify the receiver; only the
// pop family removes items.
type Collection struct {
	kind  string
	items []*Entity
}

// NewCollection returns a collection holding items in the given order.
func NewCollection(resourceType string, items ...*Entity) *Collection {
	return &Collection{kind: resourceType, items: slices.Clone(items)}
}

// Type returns the resource type of the collection's entities.
func (c *Collection) Type() string {
	return c.kind
}

// Len returns the number of entities.
func (c *Collection) Len() int {
	return len(c.items)
}

// Entities returns a copy of the underlying slice.
func (c *Collection) Entities() []*Entity {
	return slices.Clone(c.items)
}

// All iterates over position/entity pairs.
func (c *Collection) All() iter.Seq2[int, *Entity] {
	items := slices.Clone(c.items)
	return func(yield func(int, *Entity) bool) {
		for i, e := range items {
			if !yield(i, e) {
				return
			}
		}
	}
}

// At returns the entity at position i. Negative positions count from the
// end.
func (c *Collection) At(i int) (*Entity, error) {
	pos, ok := c.position(i)
	if !ok {
		return nil, &types.IndexError{Op: "at", Size: len(c.items), Index: i, Err: types.ErrIndexOutOfRange}
	}
	return c.items[pos], nil
}

// Slice returns the entities in [start, end) as a new collection. Negative
// bounds count from the end and out-of-range bounds are clamped.
func (c *Collection) Slice(start, end int) *Collection {
	lo, hi := clampBound(start, len(c.items)), clampBound(end, len(c.items))
	if lo > hi {
		lo = hi
	}
	return c.derive(c.items[lo:hi])
}

// PopID removes and returns the last entity whose id equals id.
// Returns ErrEmptyCollection when no entity matches.
func (c *Collection) PopID(id string) (*Entity, error) {
	for i := len(c.items) - 1; i >= 0; i-- {
		if c.items[i].ID() == id {
			e := c.items[i]
			c.items = slices.Delete(c.items, i, i+1)
			return e, nil
		}
	}
	return nil, &types.IndexError{Op: "pop", Size: len(c.items), ID: id, Err: types.ErrEmptyCollection}
}

// Where returns the entities passing every test in filter, in order.
func (c *Collection) Where(filter SchemaFilter) *Collection {
	return c.Select(filter.Match)
}

// Select returns the entities for which pred is true, in order.
func (c *Collection) Select(pred Predicate) *Collection {
	var out []*Entity
	for _, e := range c.items {
		if pred(e) {
			out = append(out, e)
		}
	}
	return c.derive(out)
}

// Matching returns the entities that denote the same resource as e.
func (c *Collection) Matching(e *Entity) *Collection {
	return c.Select(e.Equal)
}

// First returns the first entity passing filter without removing it.
func (c *Collection) First(filter SchemaFilter) (*Entity, bool) {
	for _, e := range c.items {
		if filter.Match(e) {
			return e, true
		}
	}
	return nil, false
}

// Pop removes and returns the entity at position index. Negative positions
// count from the end.
func (c *Collection) Pop(index int) (*Entity, error) {
	if len(c.items) == 0 {
		return nil, &types.IndexError{Op: "pop", Index: index, Err: types.ErrEmptyCollection}
	}
	pos, ok := c.position(index)
	if !ok {
		return nil, &types.IndexError{Op: "pop", Size: len(c.items), Index: index, Err: types.ErrIndexOutOfRange}
	}
	e := c.items[pos]
	c.items = slices.Delete(c.items, pos, pos+1)
	return e, nil
}

// DPop pops like Pop but returns def instead of failing when the collection
// is empty or index is out of range.
func (c *Collection) DPop(index int, def *Entity) *Entity {
	e, err := c.Pop(index)
	if err != nil {
		return def
	}
	return e
}

// Extract yields the value of field for each entity, in order. Entities
// without the field yield nil. The sequence reflects the collection as of
// the call and may be iterated more than once.
func (c *Collection) Extract(field string) iter.Seq[any] {
	items := slices.Clone(c.items)
	return func(yield func(any) bool) {
		for _, e := range items {
			if !yield(e.Value(field)) {
				return
			}
		}
	}
}

// ExtractFields yields one tuple per entity holding the values of fields in
// the order given.
func (c *Collection) ExtractFields(fields ...string) iter.Seq[[]any] {
	items := slices.Clone(c.items)
	fields = slices.Clone(fields)
	return func(yield func([]any) bool) {
		for _, e := range items {
			tuple := make([]any, len(fields))
			for i, f := range fields {
				tuple[i] = e.Value(f)
			}
			if !yield(tuple) {
				return
			}
		}
	}
}

// IDs returns the entity ids in order.
func (c *Collection) IDs() []string {
	ids := make([]string, len(c.items))
	for i, e := range c.items {
		ids[i] = e.ID()
	}
	return ids
}

// Format renders each entity with fn.
func (c *Collection) Format(fn func(*Entity) string) []string {
	out := make([]string, len(c.items))
	for i, e := range c.items {
		out[i] = fn(e)
	}
	return out
}

// OrderBy returns a new collection stably sorted by field.
func (c *Collection) OrderBy(field string, desc bool) *Collection {
	out := slices.Clone(c.items)
	slices.SortStableFunc(out, func(a, b *Entity) int {
		n := compareValues(a.Value(field), b.Value(field))
		if desc {
			return -n
		}
		return n
	})
	return c.derive(out)
}

// Take returns at most the first n entities.
func (c *Collection) Take(n int) *Collection {
	return c.Slice(0, max(n, 0))
}

func (c *Collection) derive(items []*Entity) *Collection {
	return &Collection{kind: c.kind, items: slices.Clone(items)}
}

func (c *Collection) position(i int) (int, bool) {
	if i < 0 {
		i += len(c.items)
	}
	return i, i >= 0 && i < len(c.items)
}

func clampBound(i, n int) int {
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n)
}
