// Package config loads server and gameplay configuration with viper:
// defaults first, then an optional YAML file, then FAB_-prefixed environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fabrules/fab-engine-go/internal/game"
)

// Config is the full process configuration.
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	CardsDir string         `mapstructure:"cards_dir"`
}

// GameConfig holds the gameplay constants.
type GameConfig struct {
	StartingLife int `mapstructure:"starting_life"`
	Intellect    int `mapstructure:"intellect"`
	DefendMax    int `mapstructure:"defend_max"`
	MaxPitchEnum int `mapstructure:"max_pitch_enum"`
}

// ServerConfig holds the play server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds the optional match store settings. An empty URL
// disables persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LoggingConfig controls zap initialization.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // "json" or "console"
}

// Load reads configuration. path may be empty to use defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("game.starting_life", 20)
	v.SetDefault("game.intellect", 4)
	v.SetDefault("game.defend_max", 2)
	v.SetDefault("game.max_pitch_enum", 0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "json")
	v.SetDefault("cards_dir", "data")

	v.SetEnvPrefix("FAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Game.StartingLife <= 0 {
		return fmt.Errorf("game.starting_life must be positive, got %d", c.Game.StartingLife)
	}
	if c.Game.Intellect <= 0 {
		return fmt.Errorf("game.intellect must be positive, got %d", c.Game.Intellect)
	}
	if c.Game.DefendMax <= 0 {
		return fmt.Errorf("game.defend_max must be positive, got %d", c.Game.DefendMax)
	}
	if c.Game.MaxPitchEnum < 0 {
		return fmt.Errorf("game.max_pitch_enum must not be negative, got %d", c.Game.MaxPitchEnum)
	}
	return nil
}

// Rules converts the gameplay section into engine rules.
func (c *Config) Rules() game.Rules {
	return game.Rules{
		StartingLife: c.Game.StartingLife,
		Intellect:    c.Game.Intellect,
		DefendMax:    c.Game.DefendMax,
		MaxPitchEnum: c.Game.MaxPitchEnum,
	}
}
