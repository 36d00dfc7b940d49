package config

// Config is the top-level voxgate configuration, corresponding to
// .voxgate.yml.
type Config struct {
	Port            int    `yaml:"port" koanf:"port"`
	DefaultLanguage string `yaml:"default_language" koanf:"default_language"`
	LocalesGlob     string `yaml:"locales" koanf:"locales"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	Slack    SlackConfig    `yaml:"slack" koanf:"slack"`
	Webchat  WebchatConfig  `yaml:"webchat" koanf:"webchat"`
	Trackers TrackersConfig `yaml:"trackers" koanf:"trackers"`
	Fallback FallbackConfig `yaml:"fallback" koanf:"fallback"`
}

// SlackConfig enables the Slack Events API adapter.
type SlackConfig struct {
	Enabled       bool   `yaml:"enabled" koanf:"enabled"`
	SigningSecret string `yaml:"signing_secret" koanf:"signing_secret"`
}

// WebchatConfig enables the generic web chat widget adapter.
type WebchatConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Token   string `yaml:"token" koanf:"token"`
}

// TrackersConfig selects the analytics providers.
type TrackersConfig struct {
	// JournalPath, when set, enables the SQLite traffic journal.
	JournalPath string `yaml:"journal_path" koanf:"journal_path"`
	// Console enables the live WebSocket console at /console.
	Console bool `yaml:"console" koanf:"console"`
}

// FallbackConfig enables the LLM-backed fallback reply. The API key is read
// from OPENAI_API_KEY.
type FallbackConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Model   string `yaml:"model" koanf:"model"`
}
