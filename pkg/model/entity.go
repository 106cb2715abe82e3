package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// Entity is the local proxy of one remote resource. Its Record is a cached
// snapshot: reads never touch the network and Set changes only the local
// copy until an Editor commits it.
//
// An Entity is not safe for concurrent mutation.
type Entity struct {
	client *Client
	kind   string
	id     string
	record types.Record
}

// ID returns the resource identity.
func (e *Entity) ID() string {
	return e.id
}

// Type returns the resource type, for example "card".
func (e *Entity) Type() string {
	return e.kind
}

// Get returns the cached value of field and whether the field is present.
func (e *Entity) Get(field string) (any, bool) {
	v, ok := e.record[field]
	return v, ok
}

// Value returns the cached value of field, or nil if the field is absent.
func (e *Entity) Value(field string) any {
	return e.record[field]
}

// Set writes value into the local snapshot only.
func (e *Entity) Set(field string, value any) {
	if e.record == nil {
		e.record = types.Record{}
	}
	e.record[field] = value
}

// Fields returns the names of the cached fields in sorted order.
func (e *Entity) Fields() []string {
	return e.record.Fields()
}

// Snapshot returns a deep copy of the cached record.
func (e *Entity) Snapshot() types.Record {
	return e.record.Clone()
}

// Equal reports whether e and other denote the same remote resource.
// Field values are not compared.
func (e *Entity) Equal(other *Entity) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.kind == other.kind && e.id == other.id
}

// Refresh replaces the cached record with the fetcher's current state.
// On failure the cached record is left untouched.
func (e *Entity) Refresh(ctx context.Context) error {
	rec, err := e.client.fetcher.Fetch(ctx, e.kind, e.id)
	if err != nil {
		return resourceErr("refresh", e.kind, e.id, "", err)
	}
	if rec == nil {
		return &types.ResourceError{Op: "refresh", Type: e.kind, ID: e.id, Err: types.ErrInvalidRecord}
	}
	e.record = rec
	e.client.logger.Trace("refreshed resource", "type", e.kind, "id", e.id)
	return nil
}

// Relation fetches the named related collection, for example a board's
// "lists". Every call goes to the fetcher.
func (e *Entity) Relation(ctx context.Context, name string) (*Collection, error) {
	return e.client.resolver.Resolve(ctx, e, name)
}

// Editor returns a new idle editor bound to e.
func (e *Entity) Editor() *Editor {
	return &Editor{entity: e, logger: e.client.logger}
}

// Edit runs fn inside an editor scope. On a nil return the changes made by
// fn are committed in one update. If fn fails the scope is aborted, nothing
// is sent and fn's error is returned unchanged. A panic in fn aborts the
// scope and is re-raised.
func (e *Entity) Edit(ctx context.Context, fn func(*Entity) error) error {
	ed := e.Editor()
	if err := ed.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			ed.abort()
			panic(r)
		}
	}()
	if err := fn(e); err != nil {
		return ed.Abort(err)
	}
	_, err := ed.Commit(ctx)
	return err
}

// Decode fills out, a pointer to one of the typed views in package types,
// from the cached record.
func (e *Entity) Decode(out any) error {
	return types.Decode(e.record, out)
}

// JSON returns the cached record encoded as JSON.
func (e *Entity) JSON() ([]byte, error) {
	return json.Marshal(e.record)
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s(%s)", e.kind, e.id)
}
