package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Store.Driver)
	assert.Equal(t, 30000, c.Bot.Trials)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "store:\n  driver: sqlite3\n  dsn: ./games.db\nbot:\n  trials: 500\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("PINOCHLE_BOT_TRIALS", "1200")
	t.Setenv("PINOCHLE_REDIS_DB", "3")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", c.Store.Driver)
	assert.Equal(t, "./games.db", c.Store.DSN)
	assert.Equal(t, 1200, c.Bot.Trials)
	assert.Equal(t, 3, c.Redis.DB)
	assert.Equal(t, 4, c.Bot.Workers)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
