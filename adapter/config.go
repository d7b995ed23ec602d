package adapter

import (
	"maps"

	"github.com/kbukum/apiadapter/authorizer"
	"github.com/kbukum/apiadapter/validation"
)

// Config is read once when the adapter is created and never changes.
type Config struct {
	// Host is the API origin, e.g. "https://api.example.com".
	Host string `json:"host" mapstructure:"host" validate:"required,origin"`
	// Namespace is the path prefix, e.g. "v1" or "api/v1".
	Namespace string `json:"namespace" mapstructure:"namespace" validate:"required,pathsegment"`
	// Authorizer is the registry identifier of the authorizer to use.
	Authorizer string `json:"authorizer" mapstructure:"authorizer"`
	// Headers are added to every request before authorization.
	Headers map[string]string `json:"headers" mapstructure:"headers"`
}

// ApplyDefaults sets the default authorizer.
func (c *Config) ApplyDefaults() {
	if c.Authorizer == "" {
		c.Authorizer = authorizer.NameApplication
	}
}

// Validate reports an empty or malformed host or namespace as a
// configuration error.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

func (c Config) clone() Config {
	c.Headers = maps.Clone(c.Headers)
	return c
}
