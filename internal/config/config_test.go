package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgram/internal/boundary"
	kerrors "kgram/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kgram.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.KGram.K)
	assert.Nil(t, cfg.KGram.SampleSize)
	assert.Equal(t, math.MaxInt, cfg.EffectiveSampleSize())
	assert.Equal(t, boundary.DefaultMarkers(), cfg.Boundary)
	assert.Equal(t, OnErrorAbort, cfg.OnError)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Contains(t, cfg.Input.ExcludeNames, ".DS_Store")
	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
kgram:
  k: 4
  sample_size: 0
  seed: 9
on_error: skip
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.KGram.K)
	require.NotNil(t, cfg.KGram.SampleSize)
	assert.Equal(t, 0, cfg.EffectiveSampleSize())
	assert.Equal(t, uint64(9), cfg.KGram.Seed)
	assert.Equal(t, OnErrorSkip, cfg.OnError)
	assert.Equal(t, "kgrams", cfg.Output.Prefix)
	assert.Equal(t, boundary.DefaultMarkers(), cfg.Boundary)
	require.NoError(t, cfg.Validate())
}

func TestLoadKeepsExplicitZeroK(t *testing.T) {
	cfg, err := Load(writeConfig(t, "kgram:\n  k: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.KGram.K)
	assert.ErrorIs(t, cfg.Validate(), kerrors.ErrInvalidConfig)

	cfg, err = Load(writeConfig(t, "on_error: skip\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.KGram.K, "absent k takes the default")
}

func TestLoadCustomMarkers(t *testing.T) {
	path := writeConfig(t, `
boundary:
  header_markers: ["BEGIN"]
  footer_markers: ["END"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"BEGIN"}, cfg.Boundary.HeaderEnd)
	assert.Equal(t, []string{"END"}, cfg.Boundary.FooterStart)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "kgram: [unclosed"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	n := 50
	cfg.KGram.SampleSize = &n
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	neg := -1
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero k", func(c *AppConfig) { c.KGram.K = 0 }},
		{"negative sample size", func(c *AppConfig) { c.KGram.SampleSize = &neg }},
		{"no header markers", func(c *AppConfig) { c.Boundary.HeaderEnd = nil }},
		{"unknown policy", func(c *AppConfig) { c.OnError = "retry" }},
		{"unknown store", func(c *AppConfig) { c.VectorStore.Type = "qdrant" }},
		{"sqlite without path", func(c *AppConfig) { c.VectorStore.Type = "sqlite" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), kerrors.ErrInvalidConfig)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("KGRAM_K", "5")
	t.Setenv("KGRAM_SAMPLE_SIZE", "100")
	t.Setenv("KGRAM_SEED", "77")
	t.Setenv("KGRAM_ON_ERROR", "skip")
	t.Setenv("KGRAM_SQLITE_PATH", "/tmp/vectors.sqlite")

	cfg := defaultConfig()
	require.NoError(t, ApplyEnv(cfg))
	assert.Equal(t, 5, cfg.KGram.K)
	assert.Equal(t, 100, cfg.EffectiveSampleSize())
	assert.Equal(t, uint64(77), cfg.KGram.Seed)
	assert.Equal(t, OnErrorSkip, cfg.OnError)
	assert.Equal(t, "sqlite", cfg.VectorStore.Type)
	assert.Equal(t, "/tmp/vectors.sqlite", cfg.VectorStore.SQLite.Path)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvRejectsNonInteger(t *testing.T) {
	t.Setenv("KGRAM_K", "three")
	err := ApplyEnv(defaultConfig())
	assert.ErrorIs(t, err, kerrors.ErrInvalidConfig)
}
