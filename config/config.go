package config

import (
	"time"

	"github.com/kbukum/apiadapter/httpclient"
	"github.com/kbukum/apiadapter/observability"
	"github.com/kbukum/apiadapter/validation"
)

const (
	// DefaultAuthorizer is the authorizer used when none is configured.
	DefaultAuthorizer = "authorizer:application"

	defaultRetryAttempts = 3
)

// Config is the configuration of a process that talks to a JSON:API
// resource API through the adapter.
//
//	name: resourcectl
//	api_url: https://api.example.com   # API_URL
//	api_namespace: v1                  # API_NAMESPACE
//	authorizer: authorizer:application # AUTHORIZER
//	headers:
//	  x-client: resourcectl
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	APIURL       string `yaml:"api_url" mapstructure:"api_url" validate:"required,origin"`
	APINamespace string `yaml:"api_namespace" mapstructure:"api_namespace" validate:"required,pathsegment"`
	Authorizer   string `yaml:"authorizer" mapstructure:"authorizer" validate:"required"`
	// Headers are sent with every adapter request. The authorizer's headers
	// override them. Names are case-insensitive; viper lowercases them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	Auth      AuthConfig           `yaml:"auth" mapstructure:"auth"`
	Transport httpclient.Config    `yaml:"transport" mapstructure:"transport"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// AuthConfig controls how authorization failures are detected.
type AuthConfig struct {
	// FailureStatuses are the response statuses that invalidate the session.
	FailureStatuses []int `yaml:"failure_statuses" mapstructure:"failure_statuses" validate:"dive,min=400,max=499"`
	// JWTLeeway tolerates clock skew when checking token expiry.
	JWTLeeway time.Duration `yaml:"jwt_leeway" mapstructure:"jwt_leeway" validate:"min=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults(serviceName string) {
	c.ServiceConfig.ApplyDefaults(serviceName)
	if c.Authorizer == "" {
		c.Authorizer = DefaultAuthorizer
	}
	if len(c.Auth.FailureStatuses) == 0 {
		c.Auth.FailureStatuses = []int{401}
	}
	if c.Transport.RetryAttempts == 0 {
		c.Transport.RetryAttempts = defaultRetryAttempts
	}
	c.Transport.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults()
}

// Validate reports the first invalid field as a configuration error.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return c.Transport.Validate()
}

// Load resolves, reads, defaults and validates the configuration of the
// named service.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults(serviceName)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
