package demoserver

import "time"

// Config holds configuration for the demo target server.
type Config struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`

	// MaxDelay caps /delay/{ms}.
	MaxDelay time.Duration `yaml:"max_delay"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:     "localhost:9999",
		MaxDelay: 30 * time.Second,
	}
}
