// Package rest implements the Fetcher over the Planka HTTP API.
package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/planka/pkg/types"
)

// Compile-time checks.
var (
	_ types.Fetcher = (*Provider)(nil)
	_ types.Lister  = (*Provider)(nil)
)

// Provider fetches and updates Planka resources over REST. Network failures
// and 5xx responses are retried with exponential backoff; everything else
// is returned to the caller at once.
type Provider struct {
	config types.RESTConfig
	client *http.Client
	logger hclog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the request logger.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client built from the config.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// NewProvider creates a Provider. Zero-valued settings take the defaults
// from package types.
func NewProvider(cfg types.RESTConfig, opts ...Option) (*Provider, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid REST fetcher config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	p := &Provider{
		config: cfg,
		client: newHTTPClient(cfg),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

func newHTTPClient(cfg types.RESTConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.Verify() {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed servers
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: transport}
}

type itemResponse struct {
	Item     types.Record               `json:"item"`
	Included map[string]json.RawMessage `json:"included"`
}

type itemsResponse struct {
	Items []types.Record `json:"items"`
}

// Fetch implements types.Fetcher.
func (p *Provider) Fetch(ctx context.Context, resourceType, id string) (types.Record, error) {
	path, err := itemPath(resourceType, id)
	if err != nil {
		return nil, opErr("fetch", resourceType, id, "", err)
	}
	var resp itemResponse
	if err := p.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, opErr("fetch", resourceType, id, "", err)
	}
	if resp.Item == nil {
		return nil, opErr("fetch", resourceType, id, "", fmt.Errorf("%w: response has no item", types.ErrTransport))
	}
	return resp.Item, nil
}

// FetchRelated implements types.Fetcher. Depending on the relation the
// records come from the parent's included block or a sub-collection
// endpoint.
func (p *Provider) FetchRelated(ctx context.Context, resourceType, id, relation string) ([]types.Record, error) {
	route, err := lookupRelationRoute(resourceType, relation)
	if err != nil {
		return nil, opErr("relation", resourceType, id, relation, err)
	}
	path, err := itemPath(resourceType, id)
	if err != nil {
		return nil, opErr("relation", resourceType, id, relation, err)
	}

	if route.Subpath != "" {
		var resp itemsResponse
		if err := p.doRequest(ctx, http.MethodGet, path+"/"+route.Subpath, nil, &resp); err != nil {
			return nil, opErr("relation", resourceType, id, relation, err)
		}
		return nonNil(resp.Items), nil
	}

	var resp itemResponse
	if err := p.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, opErr("relation", resourceType, id, relation, err)
	}
	raw, ok := resp.Included[route.Included]
	if !ok {
		return []types.Record{}, nil
	}
	var recs []types.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, opErr("relation", resourceType, id, relation, fmt.Errorf("%w: decoding included %s: %v", types.ErrTransport, route.Included, err))
	}
	return nonNil(recs), nil
}

// FetchAll implements types.Lister for projects and users.
func (p *Provider) FetchAll(ctx context.Context, resourceType string) ([]types.Record, error) {
	path, err := listPath(resourceType)
	if err != nil {
		return nil, opErr("list", resourceType, "", "", err)
	}
	var resp itemsResponse
	if err := p.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, opErr("list", resourceType, "", "", err)
	}
	return nonNil(resp.Items), nil
}

// Update implements types.Fetcher. The changed fields are sent as the
// PATCH body and the server's record is returned.
func (p *Provider) Update(ctx context.Context, resourceType, id string, changed types.Record) (types.Record, error) {
	path, err := itemPath(resourceType, id)
	if err != nil {
		return nil, opErr("update", resourceType, id, "", err)
	}
	var resp itemResponse
	if err := p.doRequest(ctx, http.MethodPatch, path, changed, &resp); err != nil {
		return nil, opErr("update", resourceType, id, "", err)
	}
	return resp.Item, nil
}

// doRequest executes an HTTP request with retry logic and error handling.
// All attempts of one call share a request id.
func (p *Provider) doRequest(ctx context.Context, method, path string, body, result any) error {
	endpoint := p.config.BaseURL + "/" + path

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%w: encoding request body: %v", types.ErrTransport, err)
		}
	}

	requestID := newRequestID()
	attempt := 0
	operation := func() error {
		attempt++
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: creating request: %v", types.ErrTransport, err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if p.config.Token != "" {
			req.Header.Set("Authorization", "Bearer "+p.config.Token)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := p.client.Do(req)
		if err != nil {
			p.logger.Debug("request failed", "method", method, "path", path, "attempt", attempt, "request_id", requestID, "error", err)
			if ctx.Err() != nil {
				return backoff.Permanent(fmt.Errorf("%w: %w", types.ErrTransport, ctx.Err()))
			}
			return fmt.Errorf("%w: %v", types.ErrTransport, err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: reading response: %v", types.ErrTransport, err)
		}
		p.logger.Trace("request", "method", method, "path", path, "status", resp.StatusCode,
			"attempt", attempt, "request_id", requestID, "duration", time.Since(start))

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := newAPIError(resp.StatusCode, respBody)
			if apiErr.Retryable() {
				p.logger.Debug("retryable response", "method", method, "path", path, "status", resp.StatusCode, "attempt", attempt)
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return backoff.Permanent(fmt.Errorf("%w: decoding response: %v", types.ErrTransport, err))
			}
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(p.newBackOff(), ctx))
	if err != nil && !errors.Is(err, types.ErrTransport) && !errors.Is(err, types.ErrNotFound) {
		err = fmt.Errorf("%w: %w", types.ErrTransport, err)
	}
	return err
}

func (p *Provider) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.RetryDelay
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, uint64(p.config.MaxRetries))
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func nonNil(recs []types.Record) []types.Record {
	if recs == nil {
		return []types.Record{}
	}
	return recs
}

func opErr(op, resourceType, id, relation string, err error) error {
	return &types.ResourceError{Op: op, Type: resourceType, ID: id, Relation: relation, Err: err}
}
