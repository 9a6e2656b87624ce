package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"casino-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gorm", cfg.Persistence.Driver)
	assert.Equal(t, "fakemegamble_state", cfg.Persistence.StateKey)
	assert.Equal(t, int64(10000), cfg.Casino.StartingBalance)
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
persistence:
  driver: memory
casino:
  startingBalance: 500
  variants:
    lucky:
      title: Lucky
      policy: weighted
      win: 0.6
      loss: 0.3
      draw: 0.1
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Persistence.Driver)
	assert.Equal(t, int64(500), cfg.Casino.StartingBalance)
	require.Contains(t, cfg.Casino.Variants, "lucky")
	assert.Equal(t, "weighted", cfg.Casino.Variants["lucky"].Policy)
	assert.InDelta(t, 0.6, cfg.Casino.Variants["lucky"].Win, 1e-9)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
