// Package validation validates configuration structs with struct tags
// using go-playground/validator.
//
// Two tags are added on top of the validator built-ins:
//
//   - origin: an absolute http(s) URL with a host and no path, query,
//     fragment or trailing slash ("https://api.example.com").
//   - pathsegment: a relative path prefix with no leading or trailing
//     slash and no empty segments ("v1", "api/v2").
//
// Failures are reported as CONFIGURATION_ERROR AppErrors naming the field
// by its mapstructure (or json) tag.
//
//	type Settings struct {
//	    APIURL string `mapstructure:"api_url" validate:"required,origin"`
//	}
//	err := validation.Validate(s)
package validation
