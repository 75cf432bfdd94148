package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the root runtime configuration for the war server.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Reader  ReaderConfig  `mapstructure:"reader"`
	Display DisplayConfig `mapstructure:"display"`
}

// LoggingConfig controls log verbosity and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig selects the deck and seeds the shuffle.
type GameConfig struct {
	Deck     string `mapstructure:"deck"`
	DecksDir string `mapstructure:"decks_dir"`
	// Seed fixes the shuffle for reproducible games; 0 means derive the
	// seed from the clock.
	Seed int64 `mapstructure:"seed"`
}

// ReaderConfig controls the tag reader adapter and its retry budget.
type ReaderConfig struct {
	// Mode is "sim" or "stdin".
	Mode          string        `mapstructure:"mode"`
	TagsPerPlayer int           `mapstructure:"tags_per_player"`
	ReadAttempts  int           `mapstructure:"read_attempts"`
	ReadBackoff   time.Duration `mapstructure:"read_backoff"`
}

// DisplayConfig controls the e-paper sink.
type DisplayConfig struct {
	// Mode is "log" or "bridge".
	Mode         string        `mapstructure:"mode"`
	BridgeURL    string        `mapstructure:"bridge_url"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Load reads the configuration file at path and applies defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.deck", "standard")
	v.SetDefault("game.decks_dir", "decks")
	v.SetDefault("game.seed", 0)
	v.SetDefault("reader.mode", "sim")
	v.SetDefault("reader.tags_per_player", 1)
	v.SetDefault("reader.read_attempts", 5)
	v.SetDefault("reader.read_backoff", 2*time.Second)
	v.SetDefault("display.mode", "log")
	v.SetDefault("display.bridge_url", "ws://localhost:8188/display")
	v.SetDefault("display.write_timeout", 5*time.Second)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	switch c.Reader.Mode {
	case "sim", "stdin":
	default:
		return fmt.Errorf("invalid reader.mode %q", c.Reader.Mode)
	}
	switch c.Display.Mode {
	case "log", "bridge":
	default:
		return fmt.Errorf("invalid display.mode %q", c.Display.Mode)
	}
	if c.Reader.TagsPerPlayer < 1 {
		return fmt.Errorf("reader.tags_per_player must be at least 1")
	}
	if c.Reader.ReadAttempts < 1 {
		return fmt.Errorf("reader.read_attempts must be at least 1")
	}
	return nil
}
