package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Game.StartingLife)
	assert.Equal(t, 4, cfg.Game.Intellect)
	assert.Equal(t, 2, cfg.Game.DefendMax)
	assert.Zero(t, cfg.Game.MaxPitchEnum)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Encoding)
	assert.Equal(t, "data", cfg.CardsDir)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
game:
  starting_life: 40
  defend_max: 3
server:
  addr: ":9999"
logging:
  level: debug
  encoding: console
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Game.StartingLife)
	assert.Equal(t, 3, cfg.Game.DefendMax)
	// unset keys keep their defaults
	assert.Equal(t, 4, cfg.Game.Intellect)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FAB_GAME_STARTING_LIFE", "15")
	t.Setenv("FAB_SERVER_ADDR", ":7777")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Game.StartingLife)
	assert.Equal(t, ":7777", cfg.Server.Addr)
}

func TestLoad_Validation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  starting_life: 0\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "starting_life")

	require.NoError(t, os.WriteFile(path, []byte("game:\n  max_pitch_enum: -1\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "max_pitch_enum")
}

func TestConfig_Rules(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	rules := cfg.Rules()
	assert.Equal(t, cfg.Game.StartingLife, rules.StartingLife)
	assert.Equal(t, cfg.Game.Intellect, rules.Intellect)
	assert.Equal(t, cfg.Game.DefendMax, rules.DefendMax)
	assert.Equal(t, cfg.Game.MaxPitchEnum, rules.MaxPitchEnum)
}
