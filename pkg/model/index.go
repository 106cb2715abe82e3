package model

// Index is one of the collection addressing modes. The set is closed: use
// the By* constructors.
type Index interface {
	lookup(c *Collection) (Result, error)
}

// Result holds the outcome of Collection.Lookup. Position and id lookups set
// Entity; every other mode sets Collection.
type Result struct {
	Entity     *Entity
	Collection *Collection
}

// Lookup resolves ix against the collection. An id lookup removes the
// matched entity, like PopID.
func (c *Collection) Lookup(ix Index) (Result, error) {
	return ix.lookup(c)
}

type positionIndex int

func (ix positionIndex) lookup(c *Collection) (Result, error) {
	e, err := c.At(int(ix))
	return Result{Entity: e}, err
}

type sliceIndex struct{ start, end int }

func (ix sliceIndex) lookup(c *Collection) (Result, error) {
	return Result{Collection: c.Slice(ix.start, ix.end)}, nil
}

type idIndex string

func (ix idIndex) lookup(c *Collection) (Result, error) {
	e, err := c.PopID(string(ix))
	return Result{Entity: e}, err
}

type filterIndex SchemaFilter

func (ix filterIndex) lookup(c *Collection) (Result, error) {
	return Result{Collection: c.Where(SchemaFilter(ix))}, nil
}

type predicateIndex Predicate

func (ix predicateIndex) lookup(c *Collection) (Result, error) {
	return Result{Collection: c.Select(Predicate(ix))}, nil
}

type entityIndex struct{ e *Entity }

func (ix entityIndex) lookup(c *Collection) (Result, error) {
	return Result{Collection: c.Matching(ix.e)}, nil
}

// ByPosition addresses one entity by position.
func ByPosition(i int) Index { return positionIndex(i) }

// BySlice addresses the sub-collection [start, end).
func BySlice(start, end int) Index { return sliceIndex{start: start, end: end} }

// ByID pops the last entity with the given id.
func ByID(id string) Index { return idIndex(id) }

// ByFilter selects entities matching a SchemaFilter.
func ByFilter(f SchemaFilter) Index { return filterIndex(f) }

// ByPredicate selects entities for which p is true.
func ByPredicate(p Predicate) Index { return predicateIndex(p) }

// ByEntity selects entities equal by identity to e.
func ByEntity(e *Entity) Index { return entityIndex{e: e} }
