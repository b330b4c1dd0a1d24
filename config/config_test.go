package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, 24*time.Hour, d.Expiration)
	assert.Equal(t, 100, d.MaxSize)
	require.NoError(t, d.Validate())
}

func TestNormalize(t *testing.T) {
	got := Options{Expiration: -time.Second, MaxSize: 0}.Normalize()
	assert.Equal(t, DefaultExpiration, got.Expiration)
	assert.Equal(t, DefaultMaxSize, got.MaxSize)
	assert.Equal(t, "info", got.LogLevel)
	assert.Equal(t, "text", got.LogFormat)

	kept := Options{Expiration: time.Second, MaxSize: 2}.Normalize()
	assert.Equal(t, time.Second, kept.Expiration)
	assert.Equal(t, 2, kept.MaxSize)
}

func TestValidate(t *testing.T) {
	base := Default()

	bad := base
	bad.LogFormat = "xml"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = base
	bad.LogLevel = "loud"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}

func TestFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("TASKCACHE_EXPIRATION_MS", "1000")
	t.Setenv("TASKCACHE_MAX_SIZE", "2")
	t.Setenv("TASKCACHE_LOG_FORMAT", "json")

	opts, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, time.Second, opts.Expiration)
	assert.Equal(t, 2, opts.MaxSize)
	assert.Equal(t, "json", opts.LogFormat)
	assert.Equal(t, "info", opts.LogLevel)
}

func TestFromEnv_DurationWins(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("TASKCACHE_EXPIRATION_MS", "1000")
	t.Setenv("TASKCACHE_EXPIRATION", "90s")

	opts, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, opts.Expiration)
}

func TestFromEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TASKCACHE_MAX_SIZE=7\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TASKCACHE_MAX_SIZE") })

	opts, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7, opts.MaxSize)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKCACHE_LOG_FORMAT", "xml")

	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    Options
	}{
		{
			name:    "toml millis",
			file:    "cache.toml",
			content: "expiration_ms = 1000\nmax_size = 2\n",
			want:    Options{Expiration: time.Second, MaxSize: 2, LogLevel: "info", LogFormat: "text"},
		},
		{
			name:    "toml duration",
			file:    "dur.toml",
			content: "expiration = \"5m\"\nlog_level = \"debug\"\n",
			want:    Options{Expiration: 5 * time.Minute, MaxSize: DefaultMaxSize, LogLevel: "debug", LogFormat: "text"},
		},
		{
			name:    "yaml",
			file:    "cache.yaml",
			content: "expiration_ms: 250\nmax_size: 10\nlog_format: json\n",
			want:    Options{Expiration: 250 * time.Millisecond, MaxSize: 10, LogLevel: "info", LogFormat: "json"},
		},
		{
			name:    "empty yml uses defaults",
			file:    "empty.yml",
			content: "",
			want:    Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			got, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	ini := filepath.Join(dir, "cache.ini")
	require.NoError(t, os.WriteFile(ini, []byte("x=1"), 0o600))
	_, err = LoadFile(ini)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	badDur := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(badDur, []byte("expiration = \"soon\"\n"), 0o600))
	_, err = LoadFile(badDur)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("max_size: [1, 2\n"), 0o600))
	_, err = LoadFile(broken)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
