package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/planka/pkg/model"
	"github.com/mesh-intelligence/planka/pkg/types"
)

// fakePlanka serves a small fixed board over the Planka routes.
type fakePlanka struct {
	mu         sync.Mutex
	cards      map[string]map[string]any
	patches    []map[string]any
	requestIDs []string
	failures   int
	token      string
}

func newFakePlanka() *fakePlanka {
	return &fakePlanka{
		token: "secret",
		cards: map[string]map[string]any{
			"c1": {"id": "c1", "listId": "l1", "name": "Card 1", "description": "d", "position": 65536},
			"c2": {"id": "c2", "listId": "l1", "name": "Card 2", "position": 131072},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakePlanka) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requestIDs = append(f.requestIDs, r.Header.Get("X-Request-ID"))
	if r.Header.Get("Authorization") != "Bearer "+f.token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": CodeUnauthorized, "message": "Access token is missing"})
		return
	}
	if f.failures > 0 {
		f.failures--
		writeJSON(w, http.StatusBadGateway, map[string]any{"message": "upstream"})
		return
	}

	notFound := func() {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": CodeNotFound, "message": "Not found"})
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/")
	switch {
	case r.Method == http.MethodGet && path == "projects":
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{map[string]any{"id": "p1", "name": "Project"}}})
	case r.Method == http.MethodGet && path == "boards/b1":
		writeJSON(w, http.StatusOK, map[string]any{
			"item": map[string]any{"id": "b1", "name": "Board"},
			"included": map[string]any{
				"lists":    []any{map[string]any{"id": "l1", "boardId": "b1", "name": "Todo"}},
				"cards":    []any{f.cards["c1"], f.cards["c2"]},
				"projects": []any{map[string]any{"id": "p1"}},
			},
		})
	case r.Method == http.MethodGet && path == "lists/l1/cards":
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{f.cards["c1"], f.cards["c2"]}})
	case r.Method == http.MethodGet && strings.HasPrefix(path, "cards/"):
		card, ok := f.cards[strings.TrimPrefix(path, "cards/")]
		if !ok {
			notFound()
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"item": card, "included": map[string]any{}})
	case r.Method == http.MethodPatch && strings.HasPrefix(path, "cards/"):
		card, ok := f.cards[strings.TrimPrefix(path, "cards/")]
		if !ok {
			notFound()
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": CodeInvalidInput, "message": "bad body", "problems": []string{err.Error()}})
			return
		}
		f.patches = append(f.patches, body)
		for k, v := range body {
			card[k] = v
		}
		writeJSON(w, http.StatusOK, map[string]any{"item": card})
	default:
		notFound()
	}
}

func newTestProvider(t *testing.T, f *fakePlanka) *Provider {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	p, err := NewProvider(types.RESTConfig{
		BaseURL:    srv.URL + "/",
		Token:      "secret",
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return p
}

func TestNewProviderInvalidConfig(t *testing.T) {
	_, err := NewProvider(types.RESTConfig{BaseURL: "ftp://planka"})
	assert.ErrorIs(t, err, types.ErrBaseURLInvalid)
}

func TestProviderFetch(t *testing.T) {
	f := newFakePlanka()
	p := newTestProvider(t, f)

	rec, err := p.Fetch(context.Background(), types.ResourceCard, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Card 1", rec["name"])
	require.Len(t, f.requestIDs, 1)
	assert.NotEmpty(t, f.requestIDs[0])

	_, err = p.Fetch(context.Background(), types.ResourceCard, "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeNotFound, apiErr.Code)

	_, err = p.Fetch(context.Background(), "sprint", "s1")
	assert.ErrorIs(t, err, types.ErrUnknownResource)
}

func TestProviderUnauthorized(t *testing.T) {
	f := newFakePlanka()
	f.token = "other"
	p := newTestProvider(t, f)

	_, err := p.Fetch(context.Background(), types.ResourceCard, "c1")
	assert.ErrorIs(t, err, types.ErrTransport)
	assert.False(t, types.IsNotFound(err))
	assert.Len(t, f.requestIDs, 1, "4xx responses are not retried")
	assert.Contains(t, err.Error(), CodeUnauthorized)
}

func TestProviderRetries(t *testing.T) {
	f := newFakePlanka()
	f.failures = 2
	p := newTestProvider(t, f)

	rec, err := p.Fetch(context.Background(), types.ResourceCard, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", rec["id"])
	require.Len(t, f.requestIDs, 3)
	assert.Equal(t, f.requestIDs[0], f.requestIDs[2], "attempts share a request id")
}

func TestProviderRetriesExhausted(t *testing.T) {
	f := newFakePlanka()
	f.failures = 10
	p := newTestProvider(t, f)

	_, err := p.Fetch(context.Background(), types.ResourceCard, "c1")
	assert.ErrorIs(t, err, types.ErrTransport)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Len(t, f.requestIDs, 3)
}

func TestProviderCanceledContext(t *testing.T) {
	p := newTestProvider(t, newFakePlanka())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Fetch(ctx, types.ResourceCard, "c1")
	assert.ErrorIs(t, err, types.ErrTransport)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProviderFetchRelated(t *testing.T) {
	p := newTestProvider(t, newFakePlanka())
	ctx := context.Background()

	lists, err := p.FetchRelated(ctx, types.ResourceBoard, "b1", "lists")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Todo", lists[0]["name"])

	labels, err := p.FetchRelated(ctx, types.ResourceBoard, "b1", "labels")
	require.NoError(t, err)
	assert.Empty(t, labels)
	assert.NotNil(t, labels)

	cards, err := p.FetchRelated(ctx, types.ResourceList, "l1", "cards")
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	_, err = p.FetchRelated(ctx, types.ResourceList, "l1", "boards")
	assert.ErrorIs(t, err, types.ErrUnknownRelation)
}

func TestProviderFetchAll(t *testing.T) {
	p := newTestProvider(t, newFakePlanka())

	projects, err := p.FetchAll(context.Background(), types.ResourceProject)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	_, err = p.FetchAll(context.Background(), types.ResourceCard)
	assert.ErrorIs(t, err, types.ErrUnknownResource)
}

func TestProviderUpdate(t *testing.T) {
	f := newFakePlanka()
	p := newTestProvider(t, f)

	rec, err := p.Update(context.Background(), types.ResourceCard, "c1", types.Record{"name": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", rec["name"])
	require.Len(t, f.patches, 1)
	assert.Equal(t, map[string]any{"name": "Renamed"}, f.patches[0])
}

func TestEditOverREST(t *testing.T) {
	f := newFakePlanka()
	client := model.NewClient(newTestProvider(t, f))
	ctx := context.Background()

	board, err := client.Get(ctx, types.ResourceBoard, "b1")
	require.NoError(t, err)
	cards, err := board.Relation(ctx, "cards")
	require.NoError(t, err)
	card, err := cards.PopID("c1")
	require.NoError(t, err)

	err = card.Edit(ctx, func(c *model.Entity) error {
		_ = c.Value("description")
		c.Set(types.FieldName, "Card 1 Updated")
		return nil
	})
	require.NoError(t, err)
	require.Len(t, f.patches, 1)
	assert.Equal(t, map[string]any{"name": "Card 1 Updated"}, f.patches[0])
	assert.Equal(t, "Card 1 Updated", card.Value(types.FieldName))
}

func TestAPIError(t *testing.T) {
	e := newAPIError(http.StatusUnprocessableEntity, []byte(`{"code":"E_UNPROCESSABLE_ENTITY","message":"Invalid","problems":["name is required"]}`))
	assert.Equal(t, "planka returned status 422 (E_UNPROCESSABLE_ENTITY): Invalid [name is required]", e.Error())
	assert.ErrorIs(t, e, types.ErrTransport)
	assert.False(t, e.Retryable())

	e = newAPIError(http.StatusServiceUnavailable, []byte("maintenance\n"))
	assert.Equal(t, "maintenance", e.Message)
	assert.True(t, e.Retryable())

	e = newAPIError(http.StatusBadRequest, []byte(`{"code":"E_NOT_FOUND"}`))
	assert.ErrorIs(t, e, types.ErrNotFound)
}
