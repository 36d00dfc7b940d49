package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            8080,
		DefaultLanguage: "en",
		LocalesGlob:     "locales/**/*.yml",
		Webchat: WebchatConfig{
			Enabled: true,
		},
		Trackers: TrackersConfig{
			Console: true,
		},
		Fallback: FallbackConfig{
			Model: "gpt-4o-mini",
		},
	}
}
