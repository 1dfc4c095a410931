package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, int64(10*1024*1024), cfg.Validation.MaxSize)
	assert.Equal(t, 10, cfg.Validation.MaxFiles)
	assert.Equal(t, []string{"*"}, cfg.Validation.AllowedTypes)
	assert.Equal(t, 3, cfg.Features.MaxRetries)
	assert.Equal(t, "sim", cfg.Transport.Kind)
	assert.InDelta(t, 0.9, cfg.Transport.Sim.SuccessRate, 0.0001)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dropkit.yaml")
	yaml := `
validation:
  max_size: 1048576
  max_files: 3
  allowed_types: ["image/*"]
  allowed_extensions: ["jpg", "png"]
features:
  auto_upload: true
  max_retries: 5
transport:
  kind: sim
  sim:
    delay: 250ms
    tick_interval: 25ms
    success_rate: 1.0
theme:
  primary: "#FF00FF"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1048576), cfg.Validation.MaxSize)
	assert.Equal(t, 3, cfg.Validation.MaxFiles)
	assert.Equal(t, []string{"image/*"}, cfg.Validation.AllowedTypes)
	assert.True(t, cfg.Features.AutoUpload)
	assert.Equal(t, 5, cfg.Features.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Transport.Sim.Delay.Duration)
	assert.Equal(t, "#FF00FF", cfg.Theme.Primary)

	// Untouched sections keep their defaults.
	assert.Equal(t, "Browse files", cfg.Labels.Browse)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("validation: ["), 0o644))

	_, err := Load(path, nil)
	assert.ErrorContains(t, err, "invalid YAML")
}

func TestLoad_OverrideRunsLast(t *testing.T) {
	cfg, err := Load("", func(cfg *Config) {
		cfg.Validation.MaxFiles = 42
	})
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Validation.MaxFiles)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DROPKIT_MAX_FILES", "7")
	t.Setenv("DROPKIT_TRANSPORT_KIND", "http")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Validation.MaxFiles)
	assert.Equal(t, "http", cfg.Transport.Kind)
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  sim:\n    delay: 1m30s\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Transport.Sim.Delay.Duration)
}

func TestDuration_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  sim:\n    delay: fast\n"), 0o644))

	_, err := Load(path, nil)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "negative max size",
			mutate:  func(c *Config) { c.Validation.MaxSize = -1 },
			wantErr: "negative size bound",
		},
		{
			name: "min above max",
			mutate: func(c *Config) {
				c.Validation.MinSize = 200
				c.Validation.MaxSize = 100
			},
			wantErr: "exceeds max_size",
		},
		{
			name:    "negative max files",
			mutate:  func(c *Config) { c.Validation.MaxFiles = -3 },
			wantErr: "negative max_files",
		},
		{
			name:    "success rate above one",
			mutate:  func(c *Config) { c.Transport.Sim.SuccessRate = 1.5 },
			wantErr: "outside [0,1]",
		},
		{
			name:    "unknown transport kind",
			mutate:  func(c *Config) { c.Transport.Kind = "carrier-pigeon" },
			wantErr: "unknown kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
