// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ReraisePolicy decides what Raise does to a context that is already failing.
type ReraisePolicy uint8

const (
	// ReraiseChain keeps the new exception and links the previous one as its
	// root cause, so nothing is lost and nothing leaks.
	ReraiseChain ReraisePolicy = iota

	// ReraiseReject keeps the first exception and destroys the new one.
	ReraiseReject
)

var reraisePolicyNames = map[ReraisePolicy]string{
	ReraiseChain:  "chain",
	ReraiseReject: "reject",
}

func (p ReraisePolicy) String() string {
	v, ok := reraisePolicyNames[p]
	if !ok {
		return fmt.Sprintf("invalid(%d)", p)
	}
	return v
}

// MarshalText implements encoding.TextMarshaler.
func (p ReraisePolicy) MarshalText() ([]byte, error) {
	v, ok := reraisePolicyNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown reraise policy %d", p)
	}
	return []byte(v), nil
}

// UnmarshalText for setting values with configs, CLI, etc.
func (p *ReraisePolicy) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range reraisePolicyNames {
		if v == text {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown reraise policy %q", text)
}

// Config holds arena settings. The zero Config is valid: chained re-raise,
// unlimited depth, non-threaded roots, info-level logging.
type Config struct {
	// Reraise is applied when a failing context is raised on or receives
	// another relayed failure.
	Reraise ReraisePolicy `yaml:"reraise"`

	// MaxDepth bounds the call-origin depth of new contexts when defined.
	MaxDepth Box[uint] `yaml:"max_depth,omitempty"`

	// Threaded is the is_threaded flag given to root contexts.
	Threaded bool `yaml:"threaded"`

	// LogLevel is used by WithLogWriter.
	LogLevel slog.Level `yaml:"log_level"`
}

// DefaultConfig returns the zero Config.
func DefaultConfig() Config {
	return Config{}
}

// ParseConfig decodes a YAML document into a Config. Unknown keys are errors;
// an empty document yields DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	return decodeConfig(bytes.NewReader(data), "input")
}

// LoadConfig reads and parses the YAML config file at path.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	return decodeConfig(file, path)
}

func decodeConfig(r io.Reader, source string) (Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	cfg := DefaultConfig()
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("config: parse %s: %w", source, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, ok := reraisePolicyNames[c.Reraise]; !ok {
		return fmt.Errorf("reraise policy %d out of range", c.Reraise)
	}
	if depth, ok := c.MaxDepth.Get(); ok && depth == 0 {
		return errors.New("max_depth must be at least 1")
	}
	return nil
}

// Option configures an Arena.
type Option func(*arenaOptions)

type arenaOptions struct {
	cfg       Config
	logger    *slog.Logger
	logWriter io.Writer
}

// WithConfig replaces the arena's whole Config.
func WithConfig(cfg Config) Option {
	return func(o *arenaOptions) { o.cfg = cfg }
}

// WithReraisePolicy sets Config.Reraise.
func WithReraisePolicy(p ReraisePolicy) Option {
	return func(o *arenaOptions) { o.cfg.Reraise = p }
}

// WithMaxDepth sets Config.MaxDepth.
func WithMaxDepth(depth uint) Option {
	return func(o *arenaOptions) { o.cfg.MaxDepth = Define(depth) }
}

// WithLogger routes arena logging to logger. It takes precedence over
// WithLogWriter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *arenaOptions) { o.logger = logger }
}

// WithLogWriter logs text records at Config.LogLevel to w.
func WithLogWriter(w io.Writer) Option {
	return func(o *arenaOptions) { o.logWriter = w }
}

func (o *arenaOptions) buildLogger() *slog.Logger {
	switch {
	case o.logger != nil:
		return o.logger
	case o.logWriter != nil:
		return slog.New(slog.NewTextHandler(o.logWriter, &slog.HandlerOptions{Level: o.cfg.LogLevel}))
	default:
		return slog.New(slog.DiscardHandler)
	}
}
