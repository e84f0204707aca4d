package adapter

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8980", cfg.Server.URL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, time.Second, cfg.Sync.Interval)
	assert.Equal(t, 120*time.Second, cfg.Sync.Timeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 50, cfg.UI.PageSize)
	assert.True(t, cfg.Cache.Enabled)
	assert.False(t, cfg.IsConfigured())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	yaml := []byte("server:\n  url: https://api.example.com/\n  token: file-token\nsearch:\n  debounce: 150ms\nui:\n  page_size: 20\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))
	t.Setenv("CRATES_SERVER_TOKEN", "env-token")

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/", cfg.Server.URL)
	assert.Equal(t, "env-token", cfg.Server.Token)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 20, cfg.UI.PageSize)
	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, "https://api.example.com/v1/auth/login", cfg.LoginURL())
}

func TestSaveAndClearToken(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	_, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	require.NoError(t, SaveToken("secret"))
	viper.Reset()
	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Server.Token)

	require.NoError(t, ClearToken())
	viper.Reset()
	cfg, err = LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.Token)
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "count", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"count":2`)

	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}

func TestSetupLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "crates.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "INFO"})
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

type startCall struct {
	name string
	args []string
}

func fakeLauncher(cfg BrowserConfig, available map[string]bool) (*Launcher, *[]startCall) {
	var calls []startCall
	l := NewLauncher(cfg, NullLogger())
	l.start = func(name string, args ...string) error {
		calls = append(calls, startCall{name, args})
		return nil
	}
	l.lookPath = func(name string) (string, error) {
		if available[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	return l, &calls
}

func TestLauncherConfiguredCommand(t *testing.T) {
	l, calls := fakeLauncher(BrowserConfig{Command: "firefox", Args: []string{"--new-tab"}}, nil)
	require.NoError(t, l.Open("https://crates.example/dj"))
	require.Len(t, *calls, 1)
	assert.Equal(t, startCall{"firefox", []string{"--new-tab", "https://crates.example/dj"}}, (*calls)[0])
}

func TestLauncherFallsBackThroughOpeners(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("opener order is platform specific")
	}
	l, calls := fakeLauncher(BrowserConfig{}, map[string]bool{"sensible-browser": true})
	require.NoError(t, l.Open("http://localhost:4200/dj"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "sensible-browser", (*calls)[0].name)

	l, _ = fakeLauncher(BrowserConfig{}, nil)
	assert.Error(t, l.Open("http://localhost:4200/dj"))
}

func TestLauncherRejectsInvalidLinks(t *testing.T) {
	l, calls := fakeLauncher(BrowserConfig{Command: "firefox"}, nil)
	for _, link := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "https://"} {
		assert.ErrorIs(t, l.Open(link), ErrInvalidLink, link)
	}
	assert.Empty(t, *calls)
}
