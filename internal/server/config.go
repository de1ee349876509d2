package server

type Config struct {
	// Addr is the HTTP listen address for the web surface.
	Addr string `yaml:"addr"`

	// MaxDepth collapses response trees nested deeper than this in the
	// rendered HTML. Zero shows everything.
	MaxDepth int `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{Addr: "localhost:8080"}
}
