package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Documented listener defaults.
const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 8545
	DefaultLogLevel = "info"
)

// DefaultFileName is where `rpcstub init` writes when no path is given.
const DefaultFileName = "rpcstub.json"

type Config struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	// MetricsAddr enables the Prometheus listener when non-empty.
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
	// MaxBodyBytes caps how much of a request body is read. Zero reads the
	// full declared Content-Length.
	MaxBodyBytes int64 `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a JSON or YAML config file on top of the defaults. The format
// is chosen by extension; anything other than .yaml/.yml is read as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	return AtomicWriteFile(path, data, 0644)
}

// Validate checks the port range, body cap and log level. Port 0 asks the
// kernel for a free port, which tests rely on.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max body bytes %d is negative", c.MaxBodyBytes)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// Addr returns the host:port the stub listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
