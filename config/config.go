// Package config resolves the effective widget configuration.
//
// Settings merge in ascending precedence: built-in defaults, a YAML config
// file, DROPKIT_* environment variables, then caller overrides. The resolved
// Config is treated as immutable by every consumer.
package config

import (
	"fmt"
	"time"
)

// Config is the effective widget configuration. The engine and validation
// pipeline read it per operation and never mutate it.
type Config struct {
	Validation ValidationConfig `yaml:"validation"`
	Features   FeatureConfig    `yaml:"features"`
	Transport  TransportConfig  `yaml:"transport"`
	Theme      ThemeConfig      `yaml:"theme"`
	Labels     LabelConfig      `yaml:"labels"`
}

// ValidationConfig holds admission-control bounds.
type ValidationConfig struct {
	// MaxSize is the per-file byte ceiling. Zero means unlimited.
	MaxSize int64 `yaml:"max_size" envconfig:"MAX_SIZE"`
	// MinSize is the per-file byte floor.
	MinSize int64 `yaml:"min_size" envconfig:"MIN_SIZE"`
	// MaxFiles caps the number of tracked files. Zero means unlimited.
	MaxFiles int `yaml:"max_files" envconfig:"MAX_FILES"`
	// AllowedTypes are MIME patterns: exact ("image/png"), prefix
	// wildcard ("image/*"), or "*" to disable the MIME check.
	AllowedTypes []string `yaml:"allowed_types" envconfig:"ALLOWED_TYPES"`
	// AllowedExtensions are dot-less extensions, compared
	// case-insensitively; "*" disables the extension check.
	AllowedExtensions []string `yaml:"allowed_extensions" envconfig:"ALLOWED_EXTENSIONS"`
	// CheckDimensions enables image dimension probing.
	CheckDimensions bool `yaml:"check_dimensions" envconfig:"CHECK_DIMENSIONS"`
	// Dimension bounds, each optional; nil disables that bound.
	MaxWidth  *int `yaml:"max_width,omitempty"`
	MaxHeight *int `yaml:"max_height,omitempty"`
	MinWidth  *int `yaml:"min_width,omitempty"`
	MinHeight *int `yaml:"min_height,omitempty"`
}

// FeatureConfig holds widget feature flags.
type FeatureConfig struct {
	// AutoUpload starts an upload pass immediately after selection.
	AutoUpload bool `yaml:"auto_upload" envconfig:"AUTO_UPLOAD"`
	// DragAndDrop enables the dropzone variant's drop handling.
	DragAndDrop bool `yaml:"drag_and_drop" envconfig:"DRAG_AND_DROP"`
	// RetryEnabled exposes retry actions for failed files.
	RetryEnabled bool `yaml:"retry_enabled" envconfig:"RETRY_ENABLED"`
	// MaxRetries is the per-file retry ceiling.
	MaxRetries int `yaml:"max_retries" envconfig:"MAX_RETRIES"`
}

// TransportConfig selects and tunes the transport adapter.
type TransportConfig struct {
	// Kind is "sim", "http", or "s3".
	Kind string `yaml:"kind" envconfig:"TRANSPORT_KIND"`
	// Sim tunes the bundled simulator.
	Sim SimConfig `yaml:"sim"`
	// Endpoint is the HTTP upload endpoint for the http transport.
	Endpoint string `yaml:"endpoint" envconfig:"TRANSPORT_ENDPOINT"`
	// Headers are extra HTTP headers for the http transport.
	Headers map[string]string `yaml:"headers,omitempty"`
	// Timeout is the per-request timeout for the http transport.
	Timeout Duration `yaml:"timeout,omitempty"`
	// Retries is the http transport retry count on transient failures.
	Retries *int `yaml:"retries,omitempty"`
	// Bucket and Prefix address the s3 transport.
	Bucket string `yaml:"bucket" envconfig:"TRANSPORT_BUCKET"`
	Prefix string `yaml:"prefix" envconfig:"TRANSPORT_PREFIX"`
	Region string `yaml:"region" envconfig:"TRANSPORT_REGION"`
}

// SimConfig tunes the latency/failure simulator.
type SimConfig struct {
	// Delay is the simulated per-file transfer duration.
	Delay Duration `yaml:"delay"`
	// TickInterval is the spacing between synthetic progress ticks.
	TickInterval Duration `yaml:"tick_interval"`
	// SuccessRate is the probability in [0,1] that an upload succeeds.
	SuccessRate float64 `yaml:"success_rate"`
	// Seed fixes the simulator's RNG for reproducible demos. Zero seeds
	// from the clock.
	Seed int64 `yaml:"seed"`
}

// ThemeConfig holds presentation colors as hex strings.
type ThemeConfig struct {
	Primary   string `yaml:"primary"`
	Success   string `yaml:"success"`
	Warning   string `yaml:"warning"`
	Error     string `yaml:"error"`
	Muted     string `yaml:"muted"`
	Highlight string `yaml:"highlight"`
}

// LabelConfig holds user-facing label strings.
type LabelConfig struct {
	Browse     string `yaml:"browse"`
	DropPrompt string `yaml:"drop_prompt"`
	UploadAll  string `yaml:"upload_all"`
	RetryAll   string `yaml:"retry_all"`
	ClearAll   string `yaml:"clear_all"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "250ms", "2s").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "250ms" or "1m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Validate checks internal consistency of the resolved configuration.
func (c *Config) Validate() error {
	v := c.Validation
	if v.MaxSize < 0 || v.MinSize < 0 {
		return fmt.Errorf("validation: negative size bound (max=%d min=%d)", v.MaxSize, v.MinSize)
	}
	if v.MaxSize > 0 && v.MinSize > v.MaxSize {
		return fmt.Errorf("validation: min_size %d exceeds max_size %d", v.MinSize, v.MaxSize)
	}
	if v.MaxFiles < 0 {
		return fmt.Errorf("validation: negative max_files %d", v.MaxFiles)
	}
	if c.Features.MaxRetries < 0 {
		return fmt.Errorf("features: negative max_retries %d", c.Features.MaxRetries)
	}
	if sr := c.Transport.Sim.SuccessRate; sr < 0 || sr > 1 {
		return fmt.Errorf("transport: sim success_rate %v outside [0,1]", sr)
	}
	switch c.Transport.Kind {
	case "", "sim", "http", "s3":
	default:
		return fmt.Errorf("transport: unknown kind %q", c.Transport.Kind)
	}
	return nil
}
