package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Search  SearchConfig  `mapstructure:"search"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Browser BrowserConfig `mapstructure:"browser"`
}

// ServerConfig holds the crates API connection
type ServerConfig struct {
	URL       string        `mapstructure:"url"`        // API base, e.g. http://localhost:8980
	PublicURL string        `mapstructure:"public_url"` // base of public share links
	Token     string        `mapstructure:"token"`      // x-crates-auth-token
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second, 0 = unlimited
}

// SyncConfig tunes the library sync poll
type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SearchConfig tunes the unified search
type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	PageSize   int    `mapstructure:"page_size"`
	DefaultTab string `mapstructure:"default_tab"` // crates, library, activity, discover, profile
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// CacheConfig controls the warm-start cache
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// BrowserConfig selects how links are opened. Empty uses the system default.
type BrowserConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:       "http://localhost:8980",
			PublicURL: "http://localhost:4200",
			Timeout:   30 * time.Second,
		},
		Sync: SyncConfig{
			Interval: time.Second,
			Timeout:  120 * time.Second,
		},
		Search: SearchConfig{
			Debounce: 300 * time.Millisecond,
		},
		UI: UIConfig{
			PageSize:   50,
			DefaultTab: "crates",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// configDir is where config.yaml is read from and written to
var configDir = defaultConfigPath()

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "crates", "crates.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "crates", "crates.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "crates")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "crates")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "crates", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "crates", "cache")
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(cfg *Config) {
	viper.SetDefault("server.url", cfg.Server.URL)
	viper.SetDefault("server.public_url", cfg.Server.PublicURL)
	viper.SetDefault("server.token", cfg.Server.Token)
	viper.SetDefault("server.timeout", cfg.Server.Timeout)
	viper.SetDefault("server.rate_limit", cfg.Server.RateLimit)
	viper.SetDefault("sync.interval", cfg.Sync.Interval)
	viper.SetDefault("sync.timeout", cfg.Sync.Timeout)
	viper.SetDefault("search.debounce", cfg.Search.Debounce)
	viper.SetDefault("ui.page_size", cfg.UI.PageSize)
	viper.SetDefault("ui.default_tab", cfg.UI.DefaultTab)
	viper.SetDefault("logging.file", cfg.Logging.File)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("browser.command", cfg.Browser.Command)
	viper.SetDefault("browser.args", cfg.Browser.Args)
}

// LoadConfig loads configuration from the default directory and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(defaultConfigPath())
}

// LoadConfigFrom loads config.yaml from dir, applies CRATES_* environment
// overrides and remembers dir for later saves
func LoadConfigFrom(dir string) (*Config, error) {
	cfg := DefaultConfig()
	configDir = dir

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)

	// CRATES_SERVER_URL overrides server.url
	viper.SetEnvPrefix("CRATES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(cfg)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if cfg.UI.PageSize <= 0 {
		cfg.UI.PageSize = DefaultConfig().UI.PageSize
	}

	return cfg, nil
}

// SaveConfig saves the configuration to file
func SaveConfig(cfg *Config) error {
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.public_url", cfg.Server.PublicURL)
	viper.Set("server.token", cfg.Server.Token)
	viper.Set("server.timeout", cfg.Server.Timeout.String())
	viper.Set("server.rate_limit", cfg.Server.RateLimit)

	viper.Set("sync.interval", cfg.Sync.Interval.String())
	viper.Set("sync.timeout", cfg.Sync.Timeout.String())
	viper.Set("search.debounce", cfg.Search.Debounce.String())

	viper.Set("ui.page_size", cfg.UI.PageSize)
	viper.Set("ui.default_tab", cfg.UI.DefaultTab)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	viper.Set("cache.enabled", cfg.Cache.Enabled)

	viper.Set("browser.command", cfg.Browser.Command)
	viper.Set("browser.args", cfg.Browser.Args)

	return writeConfig()
}

// SaveToken updates just the token in the configuration
func SaveToken(token string) error {
	viper.Set("server.token", token)
	return writeConfig()
}

// ClearToken forgets the token, keeping every other setting
func ClearToken() error {
	return SaveToken("")
}

func writeConfig() error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}

// LoginURL is where the browser sign-in flow starts
func (c *Config) LoginURL() string {
	return strings.TrimRight(c.Server.URL, "/") + "/v1/auth/login"
}

// ClearCache removes all cached data
func ClearCache() error {
	cachePath := defaultCachePath()
	if err := os.RemoveAll(cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// GetCachePath returns the cache directory path
func GetCachePath() string {
	return defaultCachePath()
}
