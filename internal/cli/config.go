package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/planka/internal/paths"
	"github.com/mesh-intelligence/planka/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "PLANKA"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyRESTBaseURL    = "rest.base_url"
	cfgKeyRESTToken      = "rest.token"
	cfgKeyRESTTimeout    = "rest.timeout"
	cfgKeyRESTMaxRetries = "rest.max_retries"
	cfgKeyRESTRetryDelay = "rest.retry_delay"
	cfgKeyRESTTLSVerify  = "rest.tls_verify"
)

// loadConfig reads config.yaml from configDir with environment overrides
// (PLANKA_BACKEND, PLANKA_REST_TOKEN, ...). A missing config.yaml is not an
// error. The --backend and --data-dir flags win over both.
func loadConfig(configDir string) (types.Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		REST: types.RESTConfig{
			BaseURL:    v.GetString(cfgKeyRESTBaseURL),
			Token:      v.GetString(cfgKeyRESTToken),
			Timeout:    v.GetDuration(cfgKeyRESTTimeout),
			MaxRetries: v.GetInt(cfgKeyRESTMaxRetries),
			RetryDelay: v.GetDuration(cfgKeyRESTRetryDelay),
		},
	}
	if v.IsSet(cfgKeyRESTTLSVerify) {
		verify := v.GetBool(cfgKeyRESTTLSVerify)
		cfg.REST.TLSVerify = &verify
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flags.configDir)
}
