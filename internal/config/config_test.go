package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every METATILE_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvSearchStart, EnvMatcher, EnvLogLevel, EnvLogFormat, EnvLogDir, EnvMetricsAddr, EnvDebounce} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	clearEnv(t)
	cfg := Default()

	assert.Nil(t, cfg.Engine.SearchStart)
	assert.Equal(t, 0, cfg.SearchStartOr(0))
	assert.Equal(t, DefaultMatcher, cfg.Engine.Matcher)
	assert.Equal(t, DefaultLevel, cfg.Log.Level)
	assert.Equal(t, DefaultFormat, cfg.Log.Format)
	assert.Empty(t, cfg.Log.Dir)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoPath(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "metatile.yaml")
	doc := `
engine:
  search_start: 512
  matcher: hashed
log:
  level: debug
  format: json
metrics:
  addr: ":9102"
watch:
  debounce: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.SearchStartOr(0))
	assert.Equal(t, "hashed", cfg.Engine.Matcher)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9102", cfg.Metrics.Addr)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoad_PathFromEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "metatile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  matcher: hash\n"), 0644))
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hash", cfg.Engine.Matcher)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_EnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSearchStart, "16")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvDebounce, "2s")

	cfg, err := Parse([]byte("log:\n  format: json\n"))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.SearchStartOr(0))
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format, "file wins over env")
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestParse_FileWinsOverEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSearchStart, "16")

	cfg, err := Parse([]byte("engine:\n  search_start: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.SearchStartOr(7), "explicit zero is kept")
}

func TestParse_BadEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSearchStart, "many")
	t.Setenv(EnvDebounce, "soon")

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, cfg.Engine.SearchStart)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
}

func TestParse_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		doc  string
	}{
		{"negative search start", "engine:\n  search_start: -1\n"},
		{"unknown matcher", "engine:\n  matcher: fuzzy\n"},
		{"unknown level", "log:\n  level: chatty\n"},
		{"unknown format", "log:\n  format: xml\n"},
		{"negative debounce", "watch:\n  debounce: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParse_UnknownKey(t *testing.T) {
	clearEnv(t)
	_, err := Parse([]byte("engine:\n  serch_start: 3\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}
