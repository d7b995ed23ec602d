// Package config loads the configuration of processes built on the
// resource adapter.
//
// It uses Viper to read config.yml and godotenv to read .env files found in
// standard locations, then lets environment variables override file values.
// Load applies defaults and validates the result, so a missing api_url or
// api_namespace fails at startup with a configuration error.
//
//	cfg, err := config.Load("resourcectl", config.WithConfigFile("config.yml"))
//
// API_URL, API_NAMESPACE and AUTHORIZER map to the top-level keys; nested
// keys use underscores (TRANSPORT_TIMEOUT=10s).
package config
