package server

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	// Load a .env file, when present, before the environment is read.
	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/tiffin/http1"
)

// Configuration defaults applied by withDefaults.
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultContentType     = "text/html; charset=utf-8"
)

// Config is the server configuration surface. It is supplied at startup
// and immutable thereafter.
type Config struct {
	// Addr is the TCP listen address, host:port.
	Addr string `yaml:"addr"`

	// ReadTimeout bounds reading one complete request, protecting a
	// worker from a slow or stalled client.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing one complete response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout bounds the wait for the next request on a kept-alive
	// connection. Zero falls back to ReadTimeout.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds how long Shutdown waits for in-flight
	// connections to drain before giving up.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes caps the request line plus header section.
	// Zero means http1.DefaultMaxHeaderBytes.
	MaxHeaderBytes int64 `yaml:"max_header_bytes"`

	// MaxBodyBytes caps the declared request body size.
	// Zero means http1.DefaultMaxBodyBytes.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// MaxConns caps concurrently served connections. Zero means no cap.
	MaxConns int `yaml:"max_conns"`

	// DefaultContentType is set on responses whose handler did not set
	// a Content-Type header.
	DefaultContentType string `yaml:"default_content_type"`
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = c.ReadTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.DefaultContentType == "" {
		c.DefaultContentType = DefaultContentType
	}
	return c
}

// limits converts the size knobs into request parser limits.
func (c Config) limits() http1.Limits {
	return http1.Limits{
		MaxHeaderBytes: c.MaxHeaderBytes,
		MaxBodyBytes:   c.MaxBodyBytes,
	}
}

// LoadConfig reads a YAML configuration file. Unknown fields are
// rejected so typos fail at startup instead of silently using defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("server: read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("server: parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ConfigFromEnv builds a Config from TIFFIN_* environment variables.
// A .env file in the working directory is loaded first (godotenv).
// Unset variables keep their zero value and fall back to defaults at
// startup; unparseable values are an error.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	cfg.Addr = os.Getenv("TIFFIN_ADDR")
	cfg.DefaultContentType = os.Getenv("TIFFIN_DEFAULT_CONTENT_TYPE")

	for _, v := range []struct {
		name string
		dst  *time.Duration
	}{
		{"TIFFIN_READ_TIMEOUT", &cfg.ReadTimeout},
		{"TIFFIN_WRITE_TIMEOUT", &cfg.WriteTimeout},
		{"TIFFIN_IDLE_TIMEOUT", &cfg.IdleTimeout},
		{"TIFFIN_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
	} {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("server: %s: %w", v.name, err)
		}
		*v.dst = d
	}

	for _, v := range []struct {
		name string
		dst  *int64
	}{
		{"TIFFIN_MAX_HEADER_BYTES", &cfg.MaxHeaderBytes},
		{"TIFFIN_MAX_BODY_BYTES", &cfg.MaxBodyBytes},
	} {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("server: %s: %w", v.name, err)
		}
		*v.dst = n
	}

	if raw := os.Getenv("TIFFIN_MAX_CONNS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("server: TIFFIN_MAX_CONNS: %w", err)
		}
		cfg.MaxConns = n
	}

	return cfg, nil
}
