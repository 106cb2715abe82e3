package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/planka/internal/paths"
	"github.com/mesh-intelligence/planka/internal/sqlite"
	"github.com/mesh-intelligence/planka/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string          `yaml:"backend"`
	DataDir string          `yaml:"data_dir,omitempty"`
	REST    *restConfigFile `yaml:"rest,omitempty"`
}

type restConfigFile struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token,omitempty"`
}

type initFlags struct {
	baseURL string
	token   string
}

func newInitCmd() *cobra.Command {
	var f initFlags
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the planka configuration and local storage",
		Long: "Create the configuration directory and config.yaml if missing.\n" +
			"With the sqlite backend the data directory is initialized as well.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Planka server URL written to config.yaml (rest backend)")
	cmd.Flags().StringVar(&f.token, "token", "", "API token written to config.yaml (rest backend)")
	return cmd
}

func runInit(cmd *cobra.Command, f initFlags) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return sysErr("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysErr("create config directory: %w", err)
	}

	backend := flags.backend
	if backend == "" {
		backend = types.BackendSQLite
	}
	if err := writeConfigIfMissing(paths.ConfigFile(configDir), configFile{
		Backend: backend,
		DataDir: flags.dataDir,
		REST:    restSection(f),
	}); err != nil {
		return sysErr("write config: %w", err)
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	if cfg.Backend == types.BackendSQLite {
		b := sqlite.NewBackend(sqlite.WithLogger(newLogger(cmd).Named("sqlite")))
		if err := b.Attach(cfg); err != nil {
			return sysErr("initialize storage: %w", err)
		}
		if err := b.Detach(); err != nil {
			return sysErr("finalize storage: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "planka initialized (backend %s)\n", cfg.Backend)
	return nil
}

func restSection(f initFlags) *restConfigFile {
	if f.baseURL == "" && f.token == "" {
		return nil
	}
	return &restConfigFile{BaseURL: f.baseURL, Token: f.token}
}

// writeConfigIfMissing creates config.yaml unless it already exists.
func writeConfigIfMissing(path string, cfg configFile) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
