package model

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// EditorState is the lifecycle position of an Editor.
type EditorState int

// Editor states. Committed and Aborted are terminal.
const (
	EditorIdle EditorState = iota
	EditorActive
	EditorCommitted
	EditorAborted
)

func (s EditorState) String() string {
	switch s {
	case EditorIdle:
		return "idle"
	case EditorActive:
		return "active"
	case EditorCommitted:
		return "committed"
	case EditorAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Editor batches local changes to one Entity into a single remote update.
// An Editor is used once: Begin, then exactly one of Commit or Abort.
type Editor struct {
	entity *Entity
	state  EditorState
	before types.Record
	logger hclog.Logger
}

// State returns the current state.
func (ed *Editor) State() EditorState {
	return ed.state
}

// Begin refreshes the entity and records its state as the baseline for the
// diff. A failed refresh aborts the editor.
func (ed *Editor) Begin(ctx context.Context) error {
	if ed.state != EditorIdle {
		return &types.StateError{Op: "begin", State: ed.state.String()}
	}
	if err := ed.entity.Refresh(ctx); err != nil {
		ed.state = EditorAborted
		return err
	}
	ed.before = ed.entity.record.Clone()
	ed.state = EditorActive
	return nil
}

// Commit sends the fields changed since Begin in one update and adopts the
// record returned by the fetcher. When nothing changed no request is made.
// If the update fails the local record is kept as is and the editor is
// aborted. Commit returns the fields it sent.
func (ed *Editor) Commit(ctx context.Context) (types.Record, error) {
	if ed.state != EditorActive {
		return nil, &types.StateError{Op: "commit", State: ed.state.String()}
	}
	e := ed.entity
	changed, skipped, err := diffRecords(ed.before, e.record)
	if err != nil {
		ed.state = EditorAborted
		return nil, &types.ResourceError{Op: "update", Type: e.kind, ID: e.id, Err: err}
	}
	if len(skipped) > 0 {
		ed.logger.Debug("fields added or removed during edit are not sent", "type", e.kind, "id", e.id, "fields", skipped)
	}
	if len(changed) == 0 {
		ed.state = EditorCommitted
		ed.logger.Debug("nothing to commit", "type", e.kind, "id", e.id)
		return changed, nil
	}
	rec, err := e.client.fetcher.Update(ctx, e.kind, e.id, changed)
	if err != nil {
		ed.state = EditorAborted
		return changed, resourceErr("update", e.kind, e.id, "", err)
	}
	if rec != nil {
		e.record = rec
	}
	ed.state = EditorCommitted
	ed.logger.Debug("committed", "type", e.kind, "id", e.id, "fields", changed.Fields())
	return changed, nil
}

// Abort ends the edit without sending anything, restores the entity to the
// state captured by Begin and returns cause unchanged.
func (ed *Editor) Abort(cause error) error {
	if ed.state != EditorActive {
		return &types.StateError{Op: "abort", State: ed.state.String()}
	}
	ed.abort()
	return cause
}

func (ed *Editor) abort() {
	if ed.state != EditorActive {
		return
	}
	ed.entity.record = ed.before
	ed.before = nil
	ed.state = EditorAborted
	ed.logger.Debug("edit aborted", "type", ed.entity.kind, "id", ed.entity.id)
}
