package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.DefaultLanguage != "en" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadYAMLAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".voxgate.yml")
	doc := `
port: 9000
default_language: de
slack:
  enabled: true
  signing_secret: file-secret
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VOXGATE_PORT", "9100")
	t.Setenv("VOXGATE_SLACK__SIGNING_SECRET", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Port)
	}
	if cfg.DefaultLanguage != "de" {
		t.Errorf("default_language = %q, want de", cfg.DefaultLanguage)
	}
	if cfg.Slack.SigningSecret != "env-secret" {
		t.Errorf("signing_secret = %q, want env override", cfg.Slack.SigningSecret)
	}
	if !cfg.Slack.Enabled {
		t.Error("slack.enabled lost from file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"bad port", func(c *Config) { c.Port = 0 }, false},
		{"bad language", func(c *Config) { c.DefaultLanguage = "english" }, false},
		{"no locales", func(c *Config) { c.LocalesGlob = "" }, false},
		{"no adapters", func(c *Config) { c.Webchat.Enabled = false }, false},
		{"fallback without model", func(c *Config) {
			c.Fallback.Enabled = true
			c.Fallback.Model = ""
		}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mutate(cfg)
			err := cfg.Validate()
			if c.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !c.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".voxgate.yml")

	cfg := DefaultConfig()
	cfg.Port = 9999
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 9999 {
		t.Errorf("port = %d after round trip", loaded.Port)
	}
}
