package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planka/internal/rest"
	"github.com/mesh-intelligence/planka/internal/sqlite"
	"github.com/mesh-intelligence/planka/pkg/model"
	"github.com/mesh-intelligence/planka/pkg/types"
)

// session is the fetcher and model client a command works with.
type session struct {
	config types.Config
	client *model.Client
	local  *sqlite.Backend // nil unless the sqlite backend is selected
	logger hclog.Logger
}

func newLogger(cmd *cobra.Command) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "planka",
		Level:  hclog.LevelFromString(flags.logLevel),
		Output: cmd.ErrOrStderr(),
	})
}

// openSession loads the configuration and connects the selected backend.
// The caller must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, sysErr("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd)
	s := &session{config: cfg, logger: logger}

	var fetcher types.Fetcher
	switch cfg.Backend {
	case types.BackendSQLite:
		backend := sqlite.NewBackend(sqlite.WithLogger(logger.Named("sqlite")))
		if err := backend.Attach(cfg); err != nil {
			return nil, sysErr("attach sqlite backend: %w", err)
		}
		s.local = backend
		fetcher = backend
	case types.BackendREST:
		provider, err := rest.NewProvider(cfg.REST, rest.WithLogger(logger.Named("rest")))
		if err != nil {
			return nil, err
		}
		fetcher = provider
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
	}

	s.client = model.NewClient(fetcher, model.WithLogger(logger.Named("model")))
	logger.Debug("session opened", "backend", cfg.Backend)
	return s, nil
}

// requireLocal returns the sqlite backend or an error naming the command.
func (s *session) requireLocal(command string) (*sqlite.Backend, error) {
	if s.local == nil {
		return nil, fmt.Errorf("%s requires the sqlite backend, current backend is %q", command, s.config.Backend)
	}
	return s.local, nil
}

// Close releases the backend.
func (s *session) Close() error {
	if s.local != nil {
		return s.local.Detach()
	}
	return nil
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, fn func(*session) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "close backend:", err)
		}
	}()
	return fn(s)
}
