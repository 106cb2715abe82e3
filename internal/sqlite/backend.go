package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/planka/pkg/types"
)

var (
	_ types.Fetcher = (*Backend)(nil)
	_ types.Lister  = (*Backend)(nil)
)

// Backend serves Planka resources from a local SQLite database. The JSONL
// file in DataDir is the source of truth: Attach rebuilds the database from
// it and every write rewrites it.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   hclog.Logger
	now      func() time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the backend logger.
func WithLogger(logger hclog.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger: hclog.NewNullLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Attach creates DataDir if needed, builds a fresh database and loads the
// JSONL data file into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	config.DataDir = dataDir

	// The database is a cache of the JSONL file and is rebuilt every time.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	dataPath := filepath.Join(dataDir, recordsJSONL)
	if _, err := os.Stat(dataPath); os.IsNotExist(err) {
		if err := os.WriteFile(dataPath, nil, 0o644); err != nil {
			db.Close()
			return fmt.Errorf("creating %s: %w", recordsJSONL, err)
		}
	}

	b.db = db
	b.config = config
	n, err := b.loadFileLocked(dataPath)
	if err != nil {
		db.Close()
		b.db = nil
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.attached = true
	b.logger.Debug("attached", "data_dir", dataDir, "records", n)
	return nil
}

// Detach closes the database. After Detach every operation returns
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// DataPath returns the JSONL data file of an attached backend.
func (b *Backend) DataPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return filepath.Join(b.config.DataDir, recordsJSONL)
}

// generateID generates a new UUID v7 for records seeded without an id.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
