package types

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Config holds backend selection and parameters for building a Fetcher.
type Config struct {
	Backend string     `json:"backend" yaml:"backend"`
	DataDir string     `json:"data_dir" yaml:"data_dir"`
	REST    RESTConfig `json:"rest" yaml:"rest"`
}

// RESTConfig configures the HTTP fetcher that talks to a Planka server.
type RESTConfig struct {
	// BaseURL is the server root, e.g. "https://planka.example.com".
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Token is a pre-issued access token sent as a Bearer header.
	Token string `json:"-" yaml:"token,omitempty"`

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retries after the first attempt for
	// network failures and 5xx responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryDelay is the initial backoff interval between retries.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// TLSVerify disables certificate verification when false. Nil means true.
	TLSVerify *bool `json:"tls_verify,omitempty" yaml:"tls_verify,omitempty"`
}

// Supported backend names.
const (
	BackendREST   = "rest"
	BackendSQLite = "sqlite"
)

// REST defaults.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
)

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrBaseURLEmpty      = errors.New("base_url is required")
	ErrBaseURLInvalid    = errors.New("base_url must be an absolute http or https URL")
	ErrTimeoutInvalid    = errors.New("timeout must be positive")
	ErrRetriesInvalid    = errors.New("max_retries must not be negative")
	ErrRetryDelayInvalid = errors.New("retry_delay must not be negative")
)

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendREST:   true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. The REST section is only
// validated when the REST backend is selected.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return fmt.Errorf("%w: %q", ErrBackendUnknown, c.Backend)
	}
	if c.Backend == BackendREST {
		return c.REST.WithDefaults().Validate()
	}
	return nil
}

// WithDefaults returns a copy with zero-valued durations and retry counts
// replaced by the package defaults.
func (c RESTConfig) WithDefaults() RESTConfig {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.TLSVerify == nil {
		verify := true
		c.TLSVerify = &verify
	}
	return c
}

// Validate reports every problem with the REST configuration at once.
func (c RESTConfig) Validate() error {
	var result *multierror.Error

	if c.BaseURL == "" {
		result = multierror.Append(result, ErrBaseURLEmpty)
	} else if u, err := url.Parse(c.BaseURL); err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrBaseURLInvalid, c.BaseURL))
	}
	if c.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w, got %v", ErrTimeoutInvalid, c.Timeout))
	}
	if c.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("%w, got %d", ErrRetriesInvalid, c.MaxRetries))
	}
	if c.RetryDelay < 0 {
		result = multierror.Append(result, fmt.Errorf("%w, got %v", ErrRetryDelayInvalid, c.RetryDelay))
	}

	return result.ErrorOrNil()
}

// Verify reports whether TLS certificates should be verified.
func (c RESTConfig) Verify() bool {
	return c.TLSVerify == nil || *c.TLSVerify
}
