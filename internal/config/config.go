// Package config loads the winhandle configuration file.
//
// Example:
//
//	log_level = "debug"
//
//	[watch]
//	backend = "fsnotify"
//	buffer = 4
//
//	[read]
//	length = 4096
//	chunk_size = 1048576
//
//	[retry]
//	timeout = "30s"
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"

	"github.com/teamdman/winhandle/internal/tail"
	"github.com/teamdman/winhandle/internal/watch"
)

type Config struct {
	LogLevel string      `toml:"log_level"`
	Watch    WatchConfig `toml:"watch"`
	Read     ReadConfig  `toml:"read"`
	Retry    RetryConfig `toml:"retry"`
}

type WatchConfig struct {
	// Backend is "native" or "fsnotify"; empty selects the platform default.
	Backend string `toml:"backend"`
	Buffer  int    `toml:"buffer"`
}

type ReadConfig struct {
	Length    int64 `toml:"length"`
	ChunkSize int64 `toml:"chunk_size"`
}

type RetryConfig struct {
	// Timeout bounds how long the CLI retries elevation and opens. "0s" disables retries.
	Timeout string `toml:"timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: logrus.InfoLevel.String(),
		Watch:    WatchConfig{Buffer: 1},
		Read:     ReadConfig{Length: 512, ChunkSize: tail.DefaultChunkSize},
		Retry:    RetryConfig{Timeout: "0s"},
	}
}

// Load reads the TOML file at path. Keys missing from the file keep their
// defaults. The result is validated.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(b)
}

func parse(b []byte) (*Config, error) {
	var file Config
	if err := toml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c := Default()
	c.merge(&file)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) merge(o *Config) {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Watch.Backend != "" {
		c.Watch.Backend = o.Watch.Backend
	}
	if o.Watch.Buffer != 0 {
		c.Watch.Buffer = o.Watch.Buffer
	}
	if o.Read.Length != 0 {
		c.Read.Length = o.Read.Length
	}
	if o.Read.ChunkSize != 0 {
		c.Read.ChunkSize = o.Read.ChunkSize
	}
	if o.Retry.Timeout != "" {
		c.Retry.Timeout = o.Retry.Timeout
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	switch watch.Backend(c.Watch.Backend) {
	case "", watch.BackendNative, watch.BackendFsnotify:
	default:
		errs = append(errs, fmt.Errorf("watch.backend: unknown backend %q", c.Watch.Backend))
	}
	if c.Watch.Buffer < 1 {
		errs = append(errs, fmt.Errorf("watch.buffer: must be at least 1, got %d", c.Watch.Buffer))
	}
	if c.Read.Length < 0 {
		errs = append(errs, fmt.Errorf("read.length: must not be negative, got %d", c.Read.Length))
	}
	if c.Read.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("read.chunk_size: must be positive, got %d", c.Read.ChunkSize))
	}
	if d, err := time.ParseDuration(c.Retry.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("retry.timeout: %w", err))
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("retry.timeout: must not be negative, got %s", d))
	}
	return errors.Join(errs...)
}

// RetryTimeout returns the parsed retry timeout. It is zero for an invalid value.
func (c *Config) RetryTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Retry.Timeout)
	return max(d, 0)
}

// WatchOptions converts the [watch] section into watch options.
func (c *Config) WatchOptions() []watch.Option {
	opts := []watch.Option{watch.WithBuffer(c.Watch.Buffer)}
	if c.Watch.Backend != "" {
		opts = append(opts, watch.WithBackend(watch.Backend(c.Watch.Backend)))
	}
	return opts
}
