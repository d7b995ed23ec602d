package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/apiadapter/resilience"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "apiadapter/httpclient"
)

// Config configures the HTTP client.
type Config struct {
	// Timeout is the per-attempt request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent is sent unless a request sets its own.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// RetryAttempts is the total number of attempts for transient failures.
	// Values below 2 disable retry.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts"`

	// CookieJar keeps cookies set by the API between requests.
	CookieJar bool `yaml:"cookie_jar" mapstructure:"cookie_jar"`

	// Retry overrides the retry behavior derived from RetryAttempts.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// RoundTripper replaces the default transport.
	RoundTripper http.RoundTripper `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Retry == nil && c.RetryAttempts > 1 {
		c.Retry = DefaultRetryConfig(c.RetryAttempts)
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("httpclient: retry_attempts must not be negative")
	}
	return nil
}

// DefaultRetryConfig returns a retry config that only retries transient
// transport failures and 429/5xx responses.
func DefaultRetryConfig(attempts int) *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.RetryIf = IsRetryable
	return &cfg
}
