package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/planka/pkg/types"
)

func editableCard(t *testing.T) (*fakeFetcher, *Entity) {
	t.Helper()
	f := newFakeFetcher()
	f.put(types.ResourceCard, types.Record{
		"id":          "c1",
		"name":        "Card 1",
		"description": "details",
		"position":    65536.0,
		"listId":      "l1",
	})
	e, err := NewClient(f).Get(context.Background(), types.ResourceCard, "c1")
	require.NoError(t, err)
	return f, e
}

func TestEditSendsOnlyChangedFields(t *testing.T) {
	f, e := editableCard(t)

	err := e.Edit(context.Background(), func(card *Entity) error {
		_ = card.Value("description")
		_ = card.Value("position")
		card.Set(types.FieldName, "Card 1 Updated")
		card.Set("position", 65536)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, f.updates, 1)
	assert.Equal(t, types.Record{"name": "Card 1 Updated"}, f.updates[0].changed)
	assert.Equal(t, "c1", f.updates[0].id)
	assert.Equal(t, "Card 1 Updated", e.Value(types.FieldName))
}

func TestEditAbortOnError(t *testing.T) {
	f, e := editableCard(t)
	boom := errors.New("boom")

	err := e.Edit(context.Background(), func(card *Entity) error {
		card.Set(types.FieldName, "never sent")
		return boom
	})
	assert.Same(t, boom, err)
	assert.Empty(t, f.updates)
	assert.Equal(t, "Card 1", e.Value(types.FieldName), "abort restores the snapshot taken at begin")
}

func TestEditAbortOnPanic(t *testing.T) {
	f, e := editableCard(t)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = e.Edit(context.Background(), func(card *Entity) error {
			card.Set(types.FieldName, "never sent")
			panic("kaboom")
		})
	})
	assert.Empty(t, f.updates)
	assert.Equal(t, "Card 1", e.Value(types.FieldName))
}

func TestEditNoChangesMakesNoUpdate(t *testing.T) {
	f, e := editableCard(t)
	fetchesBefore := f.fetches

	require.NoError(t, e.Edit(context.Background(), func(card *Entity) error {
		card.Set(types.FieldName, "Card 1")
		return nil
	}))
	assert.Empty(t, f.updates)
	assert.Equal(t, fetchesBefore+1, f.fetches, "begin refreshes once")
}

func TestEditBeginRefreshes(t *testing.T) {
	f, e := editableCard(t)
	e.Set(types.FieldName, "stale local value")
	f.records[types.ResourceCard]["c1"]["description"] = "changed remotely"

	require.NoError(t, e.Edit(context.Background(), func(card *Entity) error {
		assert.Equal(t, "Card 1", card.Value(types.FieldName))
		assert.Equal(t, "changed remotely", card.Value("description"))
		return nil
	}))
	assert.Empty(t, f.updates)
}

func TestEditBeginFailure(t *testing.T) {
	f, e := editableCard(t)
	f.fetchErr = types.ErrNotFound
	called := false

	err := e.Edit(context.Background(), func(*Entity) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.False(t, called)
	assert.Empty(t, f.updates)
}

func TestEditorUpdateFailure(t *testing.T) {
	f, e := editableCard(t)
	f.updateErr = errors.New("502 bad gateway")

	ed := e.Editor()
	require.NoError(t, ed.Begin(context.Background()))
	e.Set(types.FieldName, "Updated")

	changed, err := ed.Commit(context.Background())
	assert.ErrorIs(t, err, types.ErrTransport)
	var re *types.ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "update", re.Op)
	assert.Equal(t, types.Record{"name": "Updated"}, changed)
	assert.Equal(t, EditorAborted, ed.State())
	assert.Equal(t, "Updated", e.Value(types.FieldName), "local state is kept after a failed update")
	assert.Len(t, f.updates, 1)
}

func TestEditorAdoptsServerRecord(t *testing.T) {
	f, e := editableCard(t)
	ed := e.Editor()
	require.NoError(t, ed.Begin(context.Background()))
	f.records[types.ResourceCard]["c1"]["updatedAt"] = "2026-01-01T00:00:00Z"
	e.Set(types.FieldName, "Updated")

	_, err := ed.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EditorCommitted, ed.State())
	assert.Equal(t, "2026-01-01T00:00:00Z", e.Value("updatedAt"))
}

func TestEditorStateMachine(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		steps func(ed *Editor) error
		want  EditorState
	}{
		{
			name:  "commit from idle",
			steps: func(ed *Editor) error { _, err := ed.Commit(ctx); return err },
			want:  EditorIdle,
		},
		{
			name:  "abort from idle",
			steps: func(ed *Editor) error { return ed.Abort(errors.New("x")) },
			want:  EditorIdle,
		},
		{
			name: "begin twice",
			steps: func(ed *Editor) error {
				if err := ed.Begin(ctx); err != nil {
					return err
				}
				return ed.Begin(ctx)
			},
			want: EditorActive,
		},
		{
			name: "commit after commit",
			steps: func(ed *Editor) error {
				if err := ed.Begin(ctx); err != nil {
					return err
				}
				if _, err := ed.Commit(ctx); err != nil {
					return err
				}
				_, err := ed.Commit(ctx)
				return err
			},
			want: EditorCommitted,
		},
		{
			name: "begin after abort",
			steps: func(ed *Editor) error {
				if err := ed.Begin(ctx); err != nil {
					return err
				}
				_ = ed.Abort(nil)
				return ed.Begin(ctx)
			},
			want: EditorAborted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, e := editableCard(t)
			ed := e.Editor()
			err := tt.steps(ed)
			assert.ErrorIs(t, err, types.ErrInvalidState)
			var se *types.StateError
			assert.ErrorAs(t, err, &se)
			assert.Equal(t, tt.want, ed.State())
		})
	}
}

func TestEditorStateString(t *testing.T) {
	assert.Equal(t, "idle", EditorIdle.String())
	assert.Equal(t, "active", EditorActive.String())
	assert.Equal(t, "committed", EditorCommitted.String())
	assert.Equal(t, "aborted", EditorAborted.String())
	assert.Equal(t, "unknown", EditorState(9).String())
}
