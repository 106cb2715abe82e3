package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/planka/pkg/types"
)

func TestClientGet(t *testing.T) {
	f := newFakeFetcher()
	f.put(types.ResourceCard, types.Record{"id": "c1", "name": "Card 1", "position": 65536.0})
	c := NewClient(f)

	e, err := c.Get(context.Background(), types.ResourceCard, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", e.ID())
	assert.Equal(t, types.ResourceCard, e.Type())
	assert.Equal(t, "Card 1", e.Value(types.FieldName))
	assert.Equal(t, []string{"id", "name", "position"}, e.Fields())
	assert.Equal(t, "card(c1)", e.String())

	_, err = c.Get(context.Background(), types.ResourceCard, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	var re *types.ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "missing", re.ID)

	_, err = c.Get(context.Background(), "widget", "w1")
	assert.ErrorIs(t, err, types.ErrUnknownResource)
}

func TestEntityGetSetIsLocal(t *testing.T) {
	f := newFakeFetcher()
	f.put(types.ResourceCard, types.Record{"id": "c1", "name": "Card 1"})
	c := NewClient(f)
	e, err := c.Get(context.Background(), types.ResourceCard, "c1")
	require.NoError(t, err)

	e.Set(types.FieldName, "Local")
	v, ok := e.Get(types.FieldName)
	assert.True(t, ok)
	assert.Equal(t, "Local", v)
	assert.Empty(t, f.updates)
	assert.Equal(t, "Card 1", f.records[types.ResourceCard]["c1"]["name"])

	_, ok = e.Get("absent")
	assert.False(t, ok)
	assert.Nil(t, e.Value("absent"))
}

func TestEntityRefreshReturnsServerState(t *testing.T) {
	f := newFakeFetcher()
	f.put(types.ResourceCard, types.Record{"id": "c1", "name": "Card 1"})
	c := NewClient(f)
	e, err := c.Get(context.Background(), types.ResourceCard, "c1")
	require.NoError(t, err)

	f.records[types.ResourceCard]["c1"]["name"] = "Renamed elsewhere"
	e.Set(types.FieldName, "Local edit")
	e.Set("scratch", true)

	require.NoError(t, e.Refresh(context.Background()))
	assert.Equal(t, "Renamed elsewhere", e.Value(types.FieldName))
	_, ok := e.Get("scratch")
	assert.False(t, ok, "refresh replaces the record wholesale")
}

func TestEntityRefreshErrors(t *testing.T) {
	tests := []struct {
		name     string
		fetchErr error
		wantErr  error
	}{
		{name: "not found", fetchErr: types.ErrNotFound, wantErr: types.ErrNotFound},
		{name: "transport", fetchErr: types.ErrTransport, wantErr: types.ErrTransport},
		{name: "unclassified becomes transport", fetchErr: errors.New("connection reset"), wantErr: types.ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFetcher()
			c := NewClient(f)
			e, err := c.NewEntity(types.ResourceCard, types.Record{"id": "c1", "name": "kept"})
			require.NoError(t, err)

			f.fetchErr = tt.fetchErr
			err = e.Refresh(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			var re *types.ResourceError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, "refresh", re.Op)
			assert.Equal(t, types.ResourceCard, re.Type)
			assert.Equal(t, "kept", e.Value(types.FieldName))
		})
	}
}

func TestEntityEqual(t *testing.T) {
	c := NewClient(newFakeFetcher())
	a, _ := c.NewEntity(types.ResourceCard, types.Record{"id": "1", "name": "x"})
	b, _ := c.NewEntity(types.ResourceCard, types.Record{"id": "1", "name": "y"})
	l, _ := c.NewEntity(types.ResourceList, types.Record{"id": "1"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(l))
	assert.False(t, a.Equal(nil))
}

func TestNewEntityRequiresID(t *testing.T) {
	c := NewClient(newFakeFetcher())

	e, err := c.NewEntity(types.ResourceCard, types.Record{"id": 42.0})
	require.NoError(t, err)
	assert.Equal(t, "42", e.ID())

	_, err = c.NewEntity(types.ResourceCard, types.Record{"name": "no id"})
	assert.ErrorIs(t, err, types.ErrInvalidRecord)
}

func TestEntitySnapshotIsDeepCopy(t *testing.T) {
	c := NewClient(newFakeFetcher())
	e, _ := c.NewEntity(types.ResourceCard, types.Record{"id": "1", "stopwatch": map[string]any{"total": 10.0}})

	snap := e.Snapshot()
	snap["stopwatch"].(map[string]any)["total"] = 99.0
	assert.Equal(t, 10.0, e.Value("stopwatch").(map[string]any)["total"])
}

func TestEntityDecode(t *testing.T) {
	c := NewClient(newFakeFetcher())
	e, _ := c.NewEntity(types.ResourceCard, types.Record{
		"id":       "c1",
		"name":     "Card 1",
		"listId":   "l1",
		"position": 65536.0,
		"dueDate":  "2026-03-01T12:00:00Z",
	})

	var card types.Card
	require.NoError(t, e.Decode(&card))
	assert.Equal(t, "c1", card.ID)
	assert.Equal(t, "l1", card.ListID)
	require.NotNil(t, card.DueDate)
	assert.Equal(t, 2026, card.DueDate.Year())

	data, err := e.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"Card 1"`)
}

func TestClientAll(t *testing.T) {
	f := newFakeFetcher()
	f.put(types.ResourceProject, types.Record{"id": "p1", "name": "One"})
	c := NewClient(f)

	projects, err := c.All(context.Background(), types.ResourceProject)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, projects.IDs())
	assert.Equal(t, types.ResourceProject, projects.Type())
}
