package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// Config selects and tunes a WebClient backend.
type Config struct {
	Client Client `yaml:"backend"`

	// Timeout bounds a whole request. Zero leaves it to the transport and
	// the caller's context.
	Timeout time.Duration `yaml:"timeout"`

	// Headless controls whether the chromedp backend shows a window.
	Headless bool `yaml:"headless"`
}

// DefaultConfig returns the nethttp backend with no client-side timeout.
func DefaultConfig() Config {
	return Config{
		Client:   ClientNetHTTP,
		Headless: true,
	}
}
