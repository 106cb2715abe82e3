package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// Client binds a Fetcher to the model layer. Every Entity created through a
// Client uses it for refreshes, relations and commits.
type Client struct {
	fetcher  types.Fetcher
	resolver *Resolver
	logger   hclog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client and its entities.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client over fetcher.
func NewClient(fetcher types.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher: fetcher,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.resolver = newResolver(c)
	return c
}

// Fetcher returns the underlying fetcher.
func (c *Client) Fetcher() types.Fetcher {
	return c.fetcher
}

// Logger returns the client's logger.
func (c *Client) Logger() hclog.Logger {
	return c.logger
}

// Get fetches one resource and wraps it as an Entity.
func (c *Client) Get(ctx context.Context, resourceType, id string) (*Entity, error) {
	if !types.IsResourceType(resourceType) {
		return nil, &types.ResourceError{Op: "get", Type: resourceType, ID: id, Err: types.ErrUnknownResource}
	}
	rec, err := c.fetcher.Fetch(ctx, resourceType, id)
	if err != nil {
		return nil, resourceErr("get", resourceType, id, "", err)
	}
	c.logger.Debug("fetched resource", "type", resourceType, "id", id, "fields", len(rec))
	return c.NewEntity(resourceType, rec)
}

// All returns every top-level resource of the given type. The fetcher must
// implement types.Lister.
func (c *Client) All(ctx context.Context, resourceType string) (*Collection, error) {
	lister, ok := c.fetcher.(types.Lister)
	if !ok {
		return nil, &types.ResourceError{Op: "list", Type: resourceType, Err: fmt.Errorf("%w: fetcher cannot list", types.ErrUnknownResource)}
	}
	recs, err := lister.FetchAll(ctx, resourceType)
	if err != nil {
		return nil, resourceErr("list", resourceType, "", "", err)
	}
	return c.collect(resourceType, recs)
}

// NewEntity wraps an already fetched record. The record is owned by the
// returned Entity from then on.
func (c *Client) NewEntity(resourceType string, rec types.Record) (*Entity, error) {
	id, err := rec.ID()
	if err != nil {
		return nil, &types.ResourceError{Op: "wrap", Type: resourceType, Err: err}
	}
	return &Entity{client: c, kind: resourceType, id: id, record: rec}, nil
}

func (c *Client) collect(resourceType string, recs []types.Record) (*Collection, error) {
	items := make([]*Entity, 0, len(recs))
	for _, rec := range recs {
		e, err := c.NewEntity(resourceType, rec)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return NewCollection(resourceType, items...), nil
}

// resourceErr attaches resource context to a fetcher failure. Errors that
// already carry context pass through; errors the fetcher did not classify
// are reported as transport failures.
func resourceErr(op, resourceType, id, relation string, err error) error {
	var re *types.ResourceError
	if errors.As(err, &re) {
		return err
	}
	if !errors.Is(err, types.ErrNotFound) && !errors.Is(err, types.ErrTransport) {
		err = fmt.Errorf("%w: %w", types.ErrTransport, err)
	}
	return &types.ResourceError{Op: op, Type: resourceType, ID: id, Relation: relation, Err: err}
}
