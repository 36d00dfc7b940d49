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

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (VOXGATE_*). Nested keys use double
// underscores: VOXGATE_SLACK__SIGNING_SECRET -> slack.signing_secret.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("VOXGATE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "VOXGATE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
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
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	if c.DefaultLanguage == "" {
		return fmt.Errorf("default_language is required")
	}
	if len(c.DefaultLanguage) != 2 {
		return fmt.Errorf("default_language %q must be a two-letter tag", c.DefaultLanguage)
	}

	if c.LocalesGlob == "" {
		return fmt.Errorf("locales is required (glob pattern of translation files)")
	}

	if !c.Slack.Enabled && !c.Webchat.Enabled {
		return fmt.Errorf("at least one platform adapter must be enabled")
	}

	if c.Fallback.Enabled && c.Fallback.Model == "" {
		return fmt.Errorf("fallback.model is required when the fallback is enabled")
	}

	return nil
}
