package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunkforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvMaxChunks, "")
	t.Setenv(EnvSeed, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvMaxChunks, "3")
	path := writeConfig(t, `
seed: 42
max_concurrent_chunks: 12
chunk_scale: 50
output: json
log_level: debug
strict: true
split_subscenes: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 12, cfg.MaxConcurrentChunks)
	assert.Equal(t, 50.0, cfg.ChunkScale)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.SplitSubScenes)
	assert.Equal(t, int64(42), cfg.ResolveSeed())
}

func TestLoadFromEnvPath(t *testing.T) {
	t.Setenv(EnvConfigPath, writeConfig(t, "chunk_scale: 25\n"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25.0, cfg.ChunkScale)
}

func TestEnvFallback(t *testing.T) {
	t.Setenv(EnvMaxChunks, "6")
	t.Setenv(EnvSeed, "99")
	cfg, err := Load(writeConfig(t, "output: text\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.MaxConcurrentChunks)
	assert.Equal(t, int64(99), cfg.Seed)

	t.Setenv(EnvMaxChunks, "lots")
	cfg, err = Load(writeConfig(t, "output: text\n"))
	require.NoError(t, err)
	assert.Equal(t, defaultMaxConcurrentChunks, cfg.MaxConcurrentChunks)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "seed: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "output: xml\n"))
	assert.ErrorContains(t, err, "invalid output")

	_, err = Load(writeConfig(t, "log_level: loud\n"))
	assert.ErrorContains(t, err, "invalid log_level")

	_, err = Load(writeConfig(t, "max_concurrent_chunks: 1\n"))
	assert.ErrorContains(t, err, "max_concurrent_chunks")
}

func TestResolveSeedWhenUnset(t *testing.T) {
	cfg := Default()
	assert.NotZero(t, cfg.ResolveSeed())
}
