package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/crates/internal/adapter"
	"github.com/mmcdole/crates/internal/adapter/api"
	"github.com/mmcdole/crates/internal/cache"
	"github.com/mmcdole/crates/internal/effects"
	"github.com/mmcdole/crates/internal/navigation"
	"github.com/mmcdole/crates/internal/state"
	"github.com/mmcdole/crates/internal/tui"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	ConfigDir string
	Verbose   bool
}

// NewRootCommand creates the crates command tree. Without a subcommand it
// starts the terminal UI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "crates",
		Short:         "Browse and curate music crates from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config", "", "config directory (default ~/.config/crates)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// env is what every command needs before talking to the server
type env struct {
	cfg    *adapter.Config
	logger *slog.Logger
	closer io.Closer
}

func (e *env) Close() {
	if e.closer != nil {
		e.closer.Close()
	}
}

// loadEnv reads configuration and opens the log file
func loadEnv(opts *RootOptions) (*env, error) {
	var (
		cfg *adapter.Config
		err error
	)
	if opts.ConfigDir != "" {
		cfg, err = adapter.LoadConfigFrom(opts.ConfigDir)
	} else {
		cfg, err = adapter.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Verbose {
		cfg.Logging.Level = "DEBUG"
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	return &env{cfg: cfg, logger: logger, closer: closer}, nil
}

// newClient builds the API client from config
func (e *env) newClient(onUnauthorized func()) *api.Client {
	return api.NewClient(api.Options{
		BaseURL:        e.cfg.Server.URL,
		Token:          e.cfg.Server.Token,
		Timeout:        e.cfg.Server.Timeout,
		RateLimit:      e.cfg.Server.RateLimit,
		Logger:         e.logger,
		OnUnauthorized: onUnauthorized,
	})
}

func runTUI(opts *RootOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("crates needs an interactive terminal; try 'crates search' or 'crates sync'")
	}

	e, err := loadEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()
	cfg, logger := e.cfg, e.logger

	logger.Info("starting crates", "version", Version)

	var snapshots *cache.SnapshotStore
	if cfg.Cache.Enabled {
		snapshots, err = cache.Open(adapter.GetCachePath(), cfg.Server.URL)
		if err != nil {
			logger.Warn("cache unavailable", "error", err)
			snapshots = nil
		} else {
			defer snapshots.Close()
		}
	}

	store := state.NewStore(state.Initial(cfg.UI.PageSize), logger)
	client := e.newClient(func() {
		logger.Warn("token rejected, signing out")
		store.Dispatch(state.LoggedOut{})
		if err := adapter.ClearToken(); err != nil {
			logger.Error("failed to clear token", "error", err)
		}
	})

	fxCfg := effects.Config{
		SearchDebounce: cfg.Search.Debounce,
		SyncInterval:   cfg.Sync.Interval,
		SyncTimeout:    cfg.Sync.Timeout,
	}
	if snapshots != nil {
		fxCfg.Cache = snapshots
	}
	fx := effects.New(store, client, fxCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fx.Start(ctx)
	defer fx.Close()

	if cfg.IsConfigured() {
		store.Dispatch(state.SignedIn{})
		fx.Restore()
	}

	model := tui.NewModel(tui.Options{
		Store:      store,
		Launcher:   adapter.NewLauncher(cfg.Browser, logger),
		PublicURL:  cfg.Server.PublicURL,
		LoginURL:   cfg.LoginURL(),
		DefaultTab: navigation.Context(cfg.UI.DefaultTab),
		Logger:     logger,
		SaveToken: func(token string) error {
			if err := adapter.SaveToken(token); err != nil {
				return err
			}
			client.SetToken(token)
			return nil
		},
		Logout: func() error {
			client.SetToken("")
			if snapshots != nil {
				snapshots.InvalidateAll()
			}
			return adapter.ClearToken()
		},
	})
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// NewVersionCommand prints the build version
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "crates %s\n", Version)
		},
	}
}
