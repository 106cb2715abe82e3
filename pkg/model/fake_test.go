package model

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/planka/pkg/types"
)

type updateCall struct {
	resourceType string
	id           string
	changed      types.Record
}

// fakeFetcher serves records from memory and records every call.
type fakeFetcher struct {
	mu        sync.Mutex
	records   map[string]map[string]types.Record
	related   map[string][]types.Record
	fetches   int
	relations int
	updates   []updateCall

	fetchErr  error
	updateErr error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		records: map[string]map[string]types.Record{},
		related: map[string][]types.Record{},
	}
}

func (f *fakeFetcher) put(resourceType string, rec types.Record) {
	id, _ := rec.ID()
	if f.records[resourceType] == nil {
		f.records[resourceType] = map[string]types.Record{}
	}
	f.records[resourceType][id] = rec.Clone()
}

func (f *fakeFetcher) relate(resourceType, id, relation string, recs ...types.Record) {
	f.related[resourceType+"/"+id+"/"+relation] = recs
}

func (f *fakeFetcher) Fetch(_ context.Context, resourceType, id string) (types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	rec, ok := f.records[resourceType][id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return rec.Clone(), nil
}

func (f *fakeFetcher) FetchRelated(_ context.Context, resourceType, id, relation string) ([]types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.relations++
	recs := f.related[resourceType+"/"+id+"/"+relation]
	out := make([]types.Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out, nil
}

func (f *fakeFetcher) Update(_ context.Context, resourceType, id string, changed types.Record) (types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{resourceType: resourceType, id: id, changed: changed.Clone()})
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	rec, ok := f.records[resourceType][id]
	if !ok {
		return nil, types.ErrNotFound
	}
	for k, v := range changed {
		rec[k] = v
	}
	return rec.Clone(), nil
}

func (f *fakeFetcher) FetchAll(_ context.Context, resourceType string) ([]types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Record
	for _, rec := range f.records[resourceType] {
		out = append(out, rec.Clone())
	}
	return out, nil
}

// cards builds a collection of card entities from (id, name) pairs.
func cards(c *Client, pairs ...string) *Collection {
	var items []*Entity
	for i := 0; i+1 < len(pairs); i += 2 {
		e, err := c.NewEntity(types.ResourceCard, types.Record{"id": pairs[i], "name": pairs[i+1]})
		if err != nil {
			panic(err)
		}
		items = append(items, e)
	}
	return NewCollection(types.ResourceCard, items...)
}
