package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/reqview/internal/demoserver"
	"github.com/raysh454/reqview/internal/dispatcher"
	"github.com/raysh454/reqview/internal/jsontree"
	"github.com/raysh454/reqview/internal/logging"
	"github.com/raysh454/reqview/internal/server"
	"github.com/raysh454/reqview/internal/webclient"
)

// DefaultConfigPath is where LoadConfig looks when no path is given.
const DefaultConfigPath = "~/.config/reqview/config.yaml"

// Config contains every runtime option. Each section belongs to the package
// that consumes it.
type Config struct {
	Server     server.Config     `yaml:"server"`
	WebClient  webclient.Config  `yaml:"webclient"`
	Dispatcher dispatcher.Config `yaml:"dispatcher"`
	Render     RenderConfig      `yaml:"render"`
	Log        LogConfig         `yaml:"log"`
	Demo       demoserver.Config `yaml:"demo"`
}

// RenderConfig tunes the JSON tree widget.
type RenderConfig struct {
	// MaxDepth collapses containers nested deeper than this. Zero shows
	// everything.
	MaxDepth int `yaml:"max_depth"`

	// RawLimit bounds the raw text kept for a malformed response.
	RawLimit int `yaml:"raw_limit"`
}

type LogConfig struct {
	Level string `yaml:"level"`

	// File receives log lines instead of stderr when set.
	File string `yaml:"file"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:     server.DefaultConfig(),
		WebClient:  webclient.DefaultConfig(),
		Dispatcher: dispatcher.DefaultConfig(),
		Render: RenderConfig{
			MaxDepth: 0,
			RawLimit: jsontree.DefaultRawLimit,
		},
		Log: LogConfig{
			Level: "info",
		},
		Demo: demoserver.DefaultConfig(),
	}
}

// LoadConfig reads the YAML file at path on top of the defaults. A missing
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	path, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()

	cfg, err := ReadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg, nil
}

// ReadConfig parses configuration. Unknown keys are rejected.
func ReadConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate normalises enumerated values and rejects ones that cannot work.
func (c *Config) Validate() error {
	policy, err := dispatcher.ParsePolicy(string(c.Dispatcher.Policy))
	if err != nil {
		return err
	}
	c.Dispatcher.Policy = policy

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	backend := webclient.Client(strings.ToLower(string(c.WebClient.Client)))
	if backend == "" {
		backend = webclient.ClientNetHTTP
	}
	known := false
	for _, name := range webclient.ListBackends() {
		if name == string(backend) {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", webclient.ErrUnknownBackend, backend)
	}
	c.WebClient.Client = backend

	if c.WebClient.Timeout < 0 {
		return errors.New("webclient.timeout must not be negative")
	}
	if c.Render.MaxDepth < 0 {
		return errors.New("render.max_depth must not be negative")
	}
	return nil
}

// NewLogger builds the logger described by the log section. When no file
// is configured it writes to fallback.
func (c *Config) NewLogger(fallback io.Writer, component string) (logging.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if c.Log.File == "" {
		return logging.NewLogger(fallback, component, level), nopCloser{}, nil
	}

	path, err := ExpandPath(c.Log.File)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewLogger(f, component, level), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
