package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, "5175", cfg.Server.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.RevealDelay())
	assert.Equal(t, 3*time.Second, cfg.ToastDuration())
	assert.Equal(t, 5*time.Second, cfg.PenaltyCooldown())
	assert.Equal(t, 7*24*time.Hour, cfg.CacheTTL())
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 4, cfg.Game.PenaltyAfter)
	assert.Equal(t, "1.0", cfg.Cache.Version)
}

func TestMissingFileMeansDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API, cfg.API)
}

func TestFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crackle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://words.internal:8000
  timeout: 2s
game:
  reveal_delay: 200ms
  penalty_after: 6
server:
  port: "9000"
`), 0o644))
	t.Setenv("CRACKLE_CONFIG", path)
	t.Setenv("PORT", "9100")
	t.Setenv("CRACKLE_PRETTY_LOGS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://words.internal:8000", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 200*time.Millisecond, cfg.RevealDelay())
	assert.Equal(t, 6, cfg.Game.PenaltyAfter)
	assert.Equal(t, "9100", cfg.Server.Port, "env wins over file")
	assert.True(t, cfg.Logging.Pretty)
	assert.Equal(t, "3s", cfg.Game.ToastDuration, "untouched keys keep defaults")
}

func TestBadInputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o644))
	_, err := LoadFile(path)
	require.Error(t, err)

	t.Setenv("CRACKLE_PRETTY_LOGS", "sometimes")
	_, err = LoadFile("")
	require.Error(t, err)
}

func TestGarbageDurationFallsBack(t *testing.T) {
	t.Setenv("CRACKLE_REVEAL_DELAY", "soon")
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.RevealDelay())
}

func TestYAMLMasksSecret(t *testing.T) {
	t.Setenv("CRACKLE_SERVER_SECRET", "hunter2")
	cfg, err := LoadFile("")
	require.NoError(t, err)
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hunter2")
	assert.Contains(t, string(out), "base_url: http://localhost:5000")
	assert.Equal(t, "hunter2", cfg.Server.Secret)
}
