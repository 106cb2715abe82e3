package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/planka/pkg/types"
)

func TestRelation(t *testing.T) {
	f := newFakeFetcher()
	f.put(types.ResourceBoard, types.Record{"id": "b1", "name": "Board"})
	f.relate(types.ResourceBoard, "b1", "lists",
		types.Record{"id": "l1", "name": "Todo", "boardId": "b1"},
		types.Record{"id": "l2", "name": "Done", "boardId": "b1"},
	)
	c := NewClient(f)
	board, err := c.Get(context.Background(), types.ResourceBoard, "b1")
	require.NoError(t, err)

	lists, err := board.Relation(context.Background(), "lists")
	require.NoError(t, err)
	assert.Equal(t, types.ResourceList, lists.Type())
	assert.Equal(t, []string{"l1", "l2"}, lists.IDs())
	first, err := lists.At(0)
	require.NoError(t, err)
	assert.Equal(t, types.ResourceList, first.Type())

	_, err = board.Relation(context.Background(), "lists")
	require.NoError(t, err)
	assert.Equal(t, 2, f.relations, "relations are fetched on every call")
}

func TestRelationUnknown(t *testing.T) {
	f := newFakeFetcher()
	c := NewClient(f)
	card, _ := c.NewEntity(types.ResourceCard, types.Record{"id": "c1"})

	_, err := card.Relation(context.Background(), "widgets")
	assert.ErrorIs(t, err, types.ErrUnknownRelation)
	var re *types.ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "widgets", re.Relation)
	assert.Zero(t, f.relations)
}

func TestRelationInvalidRecord(t *testing.T) {
	f := newFakeFetcher()
	f.relate(types.ResourceList, "l1", "cards", types.Record{"name": "no id"})
	c := NewClient(f)
	list, _ := c.NewEntity(types.ResourceList, types.Record{"id": "l1"})

	_, err := list.Relation(context.Background(), "cards")
	assert.ErrorIs(t, err, types.ErrInvalidRecord)
}
