package types

import "context"

// Fetcher performs the remote reads and writes behind every Entity.
// Implementations own transport concerns: authentication headers, timeouts,
// cancellation, and retries. Callers block until the response arrives.
type Fetcher interface {
	// Fetch returns the current representation of one resource.
	// Returns an error wrapping ErrNotFound if the resource does not exist
	// and ErrTransport on network or protocol failure.
	Fetch(ctx context.Context, resourceType, id string) (Record, error)

	// FetchRelated returns the records related to a resource through the
	// named relation, in server order. An empty result is not an error.
	FetchRelated(ctx context.Context, resourceType, id, relation string) ([]Record, error)

	// Update sends only the changed fields (partial update) and returns the
	// resulting authoritative record.
	Update(ctx context.Context, resourceType, id string, changed Record) (Record, error)
}

// Lister is implemented by fetchers that can enumerate top-level resources
// such as projects and users.
type Lister interface {
	FetchAll(ctx context.Context, resourceType string) ([]Record, error)
}
