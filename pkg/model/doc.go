// Package model presents remote Planka resources as local objects.
//
// An Entity wraps the cached field snapshot (types.Record) of one remote
// resource. Reads are served from the snapshot; Set writes only the local
// snapshot and is never propagated on its own. Refresh replaces the snapshot
// wholesale from the Fetcher.
//
// A Collection is an ordered set of Entities of one resource type. It is
// addressed through a closed set of index kinds (position, slice, id,
// SchemaFilter, Predicate, Entity) available both as methods and as Index
// values passed to Collection.Lookup.
//
// An Editor batches local mutations into one remote update. Begin refreshes
// the Entity and captures the "before" snapshot; Commit diffs it against the
// live snapshot and sends only changed fields. Entity.Edit wraps the protocol
// around a callback and aborts without any network call when the callback
// fails.
//
// Relations (a board's lists, a list's cards) are fetched on every call.
// Callers that want to avoid repeated requests keep the returned Collection.
package model
