package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "STORYREEL_"

// sections are the nested config blocks. An env var whose first segment
// names one of them maps into it: STORYREEL_SERVER_PORT -> server.port.
var sections = map[string]bool{
	"server":   true,
	"backend":  true,
	"timings":  true,
	"input":    true,
	"announce": true,
	"reveal":   true,
	"import":   true,
}

// envKey maps an environment variable name to its koanf key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if head, rest, ok := strings.Cut(key, "_"); ok && sections[head] {
		return head + "." + rest
	}
	return key
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (STORYREEL_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Backend.BaseURL != "" &&
		!strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("invalid backend.base_url %q: must start with http:// or https://", c.Backend.BaseURL)
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be non-negative")
	}

	durations := map[string]int{
		"timings.image_ms":     c.Timings.ImageMS,
		"timings.heading1_ms":  c.Timings.Heading1MS,
		"timings.heading2_ms":  c.Timings.Heading2MS,
		"timings.heading3_ms":  c.Timings.Heading3MS,
		"timings.paragraph_ms": c.Timings.ParagraphMS,
		"timings.fallback_ms":  c.Timings.FallbackMS,
	}
	for key, v := range durations {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}

	if c.Input.SwipeThreshold < 0 {
		return fmt.Errorf("input.swipe_threshold must be non-negative")
	}
	if c.Announce.PreviewLength <= 0 {
		return fmt.Errorf("announce.preview_length must be positive")
	}
	if c.Reveal.StaggerMS < 0 || c.Reveal.TransitionMS < 0 {
		return fmt.Errorf("reveal timings must be non-negative")
	}
	if len(c.Import.Include) == 0 {
		return fmt.Errorf("import.include needs at least one pattern")
	}

	return nil
}
