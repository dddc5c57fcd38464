package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ScopeAll, cfg.Settings.DownloadScope)
	assert.Equal(t, "fantia_novels", cfg.Settings.RootOutputDir)
	assert.Equal(t, 1.5, cfg.Settings.RequestDelay)
	assert.Equal(t, 30*time.Second, cfg.Settings.RequestTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Auth.UserAgent)
}

func TestScopeValid(t *testing.T) {
	assert.True(t, ScopeAll.Valid())
	assert.True(t, ScopePaid.Valid())
	assert.True(t, ScopeFree.Valid())
	assert.False(t, Scope("premium").Valid())
	assert.False(t, Scope("").Valid())
}

func TestSettingsDelay(t *testing.T) {
	s := SettingsConfig{RequestDelay: 1.5}
	assert.Equal(t, 1500*time.Millisecond, s.Delay())

	s.RequestDelay = 0
	assert.Equal(t, time.Duration(0), s.Delay())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
authentication:
  user_agent: "test-agent"
  cookie: "_session_id=abc"
  csrf_token: "token123"
settings:
  download_scope: paid
  root_output_dir: /tmp/out
  request_delay: 2.5
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "test-agent", cfg.Auth.UserAgent)
	assert.Equal(t, "_session_id=abc", cfg.Auth.Cookie)
	assert.Equal(t, "token123", cfg.Auth.CSRFToken)
	assert.Equal(t, ScopePaid, cfg.Settings.DownloadScope)
	assert.Equal(t, "/tmp/out", cfg.Settings.RootOutputDir)
	assert.Equal(t, 2.5, cfg.Settings.RequestDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFileEmptyUserAgentKeepsDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	// The generated example config ships user_agent: "" and documents that
	// leaving it empty keeps the default.
	content := `
authentication:
  cookie: "_session_id=abc"
  csrf_token: "token123"
  user_agent: ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, DefaultConfig().Auth.UserAgent, cfg.Auth.UserAgent)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFileMissingIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	// Empty path with no config file in the default locations.
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(oldWd)

	assert.NoError(t, cfg.LoadFromFile(""))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FANARCHIVE_COOKIE", "env-cookie")
	t.Setenv("FANARCHIVE_CSRF_TOKEN", "env-token")
	t.Setenv("FANARCHIVE_SCOPE", "FREE")
	t.Setenv("FANARCHIVE_REQUEST_DELAY", "0.5")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-cookie", cfg.Auth.Cookie)
	assert.Equal(t, "env-token", cfg.Auth.CSRFToken)
	assert.Equal(t, ScopeFree, cfg.Settings.DownloadScope)
	assert.Equal(t, 0.5, cfg.Settings.RequestDelay)
}

func TestValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Auth.Cookie = "_session_id=abc"
	valid.Auth.CSRFToken = "token"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing cookie", func(c *Config) { c.Auth.Cookie = "" }, "session cookie is required"},
		{"placeholder cookie", func(c *Config) { c.Auth.Cookie = "Please paste the Cookie string" }, "session cookie is required"},
		{"missing csrf token", func(c *Config) { c.Auth.CSRFToken = "" }, "CSRF token is required"},
		{"missing user agent", func(c *Config) { c.Auth.UserAgent = "" }, "user agent is required"},
		{"bad scope", func(c *Config) { c.Settings.DownloadScope = "premium" }, "invalid download scope"},
		{"missing output dir", func(c *Config) { c.Settings.RootOutputDir = "" }, "root output directory is required"},
		{"negative delay", func(c *Config) { c.Settings.RequestDelay = -1 }, "request delay cannot be negative"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Auth.Cookie = "_session_id=xyz"
	cfg.Auth.CSRFToken = "tok"
	cfg.Settings.DownloadScope = ScopeFree
	require.NoError(t, cfg.Save(path))

	reloaded := DefaultConfig()
	require.NoError(t, reloaded.LoadFromFile(path))
	assert.Equal(t, cfg.Auth, reloaded.Auth)
	assert.Equal(t, cfg.Settings.DownloadScope, reloaded.Settings.DownloadScope)
}

func TestLoadTargets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.txt")

	content := `
# fan clubs to archive
https://fantia.jp/fanclubs/12345/posts

https://fantia.jp/posts/100200
https://example.com/not-fantia
https://fantia.jp/fanclubs/67890/posts?tag=novel
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	urls, err := LoadTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://fantia.jp/fanclubs/12345/posts",
		"https://fantia.jp/posts/100200",
		"https://fantia.jp/fanclubs/67890/posts?tag=novel",
	}, urls)
}

func TestLoadTargetsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0600))

	_, err := LoadTargets(path)
	assert.Error(t, err)
}

func TestLoadTargetsMissingFile(t *testing.T) {
	_, err := LoadTargets(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
