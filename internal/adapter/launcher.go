package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrInvalidLink is returned for links that are not absolute http(s) URLs
var ErrInvalidLink = errors.New("invalid link")

// Launcher opens share links and the sign-in page in a browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	// start runs a command without waiting for it; lookPath finds it
	start    func(name string, args ...string) error
	lookPath func(name string) (string, error)
}

// candidateOpeners defines the preferred opener order for each platform
var candidateOpeners = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open", "sensible-browser", "x-www-browser", "firefox"},
	"windows": {"rundll32"},
}

// NewLauncher creates a launcher using command when set, the platform's
// openers otherwise
func NewLauncher(cfg BrowserConfig, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  cfg.Command,
		args:     cfg.Args,
		logger:   logger,
		start:    startCommand,
		lookPath: exec.LookPath,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens link in the configured browser or the system default
func (l *Launcher) Open(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidLink, link)
	}

	// Tier 1: user configured a specific browser
	if l.command != "" {
		args := append(append([]string{}, l.args...), link)
		l.logger.Info("opening link", "command", l.command, "url", link)
		return l.start(l.command, args...)
	}

	// Tier 2: platform openers in preference order
	candidates, ok := candidateOpeners[runtime.GOOS]
	if !ok {
		candidates = candidateOpeners["linux"]
	}
	for _, name := range candidates {
		if _, err := l.lookPath(name); err != nil {
			l.logger.Debug("opener not available", "opener", name, "error", err)
			continue
		}
		if err := l.start(name, openerArgs(name, link)...); err != nil {
			l.logger.Debug("opener failed", "opener", name, "error", err)
			continue
		}
		l.logger.Info("opened link", "opener", name, "url", link)
		return nil
	}

	return fmt.Errorf("no browser found to open %s", link)
}

// openerArgs builds the argument list for a platform opener
func openerArgs(name, link string) []string {
	if name == "rundll32" {
		return []string{"url.dll,FileProtocolHandler", link}
	}
	return []string{link}
}
