package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Default returns the built-in defaults: 10 MiB per file, 10 files, any
// type, retries enabled with a ceiling of 3, simulator transport.
func Default() *Config {
	return &Config{
		Validation: ValidationConfig{
			MaxSize:           10 * 1024 * 1024,
			MaxFiles:          10,
			AllowedTypes:      []string{"*"},
			AllowedExtensions: []string{"*"},
		},
		Features: FeatureConfig{
			DragAndDrop:  true,
			RetryEnabled: true,
			MaxRetries:   3,
		},
		Transport: TransportConfig{
			Kind: "sim",
			Sim: SimConfig{
				Delay:        Duration{1500 * time.Millisecond},
				TickInterval: Duration{150 * time.Millisecond},
				SuccessRate:  0.9,
			},
		},
		Theme: ThemeConfig{
			Primary:   "#7C3AED",
			Success:   "#10B981",
			Warning:   "#F59E0B",
			Error:     "#EF4444",
			Muted:     "#6B7280",
			Highlight: "#3B82F6",
		},
		Labels: LabelConfig{
			Browse:     "Browse files",
			DropPrompt: "Drop files here or press enter to browse",
			UploadAll:  "Upload all",
			RetryAll:   "Retry failed",
			ClearAll:   "Clear all",
		},
	}
}

// Load resolves the effective configuration. path may be empty to skip the
// file layer. Precedence, lowest to highest: defaults, YAML file, DROPKIT_*
// environment variables, the override function.
func Load(path string, override func(*Config)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	}

	if err := envconfig.Process("dropkit", cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if override != nil {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
