// Package config loads application configuration from environment variables.
package config

// Config holds the runtime configuration for the HTTP server.  The service
// keeps all state in memory and needs no datastore credentials, so every
// value has a default and a bare start works without any environment set.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on
}

// Load reads configuration values from environment variables, falling back
// to defaults when unset.
func Load() Config {
	return Config{
		Env:  getenv("APP_ENV", "dev"),
		Port: getenv("APP_PORT", "8080"),
	}
}
