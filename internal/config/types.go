package config

// Config is the top-level storyreel configuration, corresponding to .storyreel.yml.
type Config struct {
	DataDir  string         `yaml:"data_dir" koanf:"data_dir"`
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Backend  BackendConfig  `yaml:"backend" koanf:"backend"`
	Timings  TimingsConfig  `yaml:"timings" koanf:"timings"`
	Input    InputConfig    `yaml:"input" koanf:"input"`
	Announce AnnounceConfig `yaml:"announce" koanf:"announce"`
	Reveal   RevealConfig   `yaml:"reveal" koanf:"reveal"`
	Import   ImportConfig   `yaml:"import" koanf:"import"`
}

// ServerConfig holds settings for `storyreel serve`.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Compress        bool `yaml:"compress" koanf:"compress"`
}

// BackendConfig points at the game backend that serves story events.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url" koanf:"base_url"`
	Token          string `yaml:"token" koanf:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// TimingsConfig is the screen time of each slide kind, in milliseconds.
type TimingsConfig struct {
	ImageMS     int `yaml:"image_ms" koanf:"image_ms"`
	Heading1MS  int `yaml:"heading1_ms" koanf:"heading1_ms"`
	Heading2MS  int `yaml:"heading2_ms" koanf:"heading2_ms"`
	Heading3MS  int `yaml:"heading3_ms" koanf:"heading3_ms"`
	ParagraphMS int `yaml:"paragraph_ms" koanf:"paragraph_ms"`
	FallbackMS  int `yaml:"fallback_ms" koanf:"fallback_ms"`
}

// InputConfig tunes pointer input.
type InputConfig struct {
	SwipeThreshold float64 `yaml:"swipe_threshold" koanf:"swipe_threshold"`
}

// AnnounceConfig tunes screen reader announcements.
type AnnounceConfig struct {
	PreviewLength int `yaml:"preview_length" koanf:"preview_length"`
}

// RevealConfig tunes the staggered entrance of slide blocks.
type RevealConfig struct {
	StaggerMS    int `yaml:"stagger_ms" koanf:"stagger_ms"`
	TransitionMS int `yaml:"transition_ms" koanf:"transition_ms"`
}

// ImportConfig selects which files `storyreel import` picks up.
type ImportConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}
