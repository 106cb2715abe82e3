// Package sqlite provides the public API for the SQLite fetcher.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/planka/internal/sqlite"
)

// Backend is a local Fetcher and Lister backed by SQLite.
type Backend = sqlite.Backend

// Option configures a Backend.
type Option = sqlite.Option

// WithLogger sets the backend logger.
var WithLogger = sqlite.WithLogger

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".planka",
//	})
//	defer backend.Detach()
//	client := model.NewClient(backend)
func NewBackend(opts ...Option) *Backend {
	return sqlite.NewBackend(opts...)
}
