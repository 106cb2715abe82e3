package model

import (
	"context"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// Resolver turns a relation name on an Entity into a Collection using the
// relation table in package types.
type Resolver struct {
	client *Client
}

func newResolver(c *Client) *Resolver {
	return &Resolver{client: c}
}

// Resolve fetches relation name of e. Nothing is cached between calls.
func (r *Resolver) Resolve(ctx context.Context, e *Entity, name string) (*Collection, error) {
	rel, err := types.LookupRelation(e.kind, name)
	if err != nil {
		return nil, &types.ResourceError{Op: "relation", Type: e.kind, ID: e.id, Relation: name, Err: err}
	}
	recs, err := r.client.fetcher.FetchRelated(ctx, e.kind, e.id, name)
	if err != nil {
		return nil, resourceErr("relation", e.kind, e.id, name, err)
	}
	items := make([]*Entity, 0, len(recs))
	for _, rec := range recs {
		id, err := rec.ID()
		if err != nil {
			return nil, &types.ResourceError{Op: "relation", Type: e.kind, ID: e.id, Relation: name, Err: err}
		}
		items = append(items, &Entity{client: r.client, kind: rel.Target, id: id, record: rec})
	}
	r.client.logger.Trace("resolved relation", "type", e.kind, "id", e.id, "relation", name, "count", len(items))
	return NewCollection(rel.Target, items...), nil
}
