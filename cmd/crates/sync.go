package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/effects"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                            \r"

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSyncCommand creates the sync command
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh the library from Spotify and wait for it to settle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()
			if !e.cfg.IsConfigured() {
				return fmt.Errorf("%w: run 'crates login' first", domain.ErrNotSignedIn)
			}
			if timeout <= 0 {
				timeout = e.cfg.Sync.Timeout
			}

			poller := effects.NewSyncPoller(e.newClient(nil), e.cfg.Sync.Interval, timeout, e.logger)
			out := cmd.OutOrStdout()
			start := time.Now()

			res, err := poller.Sync(cmd.Context(), syncProgress(out))
			fmt.Fprint(out, clearSpinnerLine)
			switch {
			case errors.Is(err, domain.ErrSyncTimeout):
				return fmt.Errorf("library did not settle within %s", timeout)
			case err != nil:
				return fmt.Errorf("sync failed: %s", domain.ErrorMessage(err))
			}

			fmt.Fprintf(out, "✓ Library %s after %d checks (%s)\n",
				res.Library.State, res.Attempts, time.Since(start).Round(100*time.Millisecond))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (default sync.timeout)")

	return cmd
}

// syncProgress redraws a spinner line for each status probe
func syncProgress(out io.Writer) domain.PollFunc {
	return func(attempt int, lib domain.Library) {
		frame := spinnerFrames[attempt%len(spinnerFrames)]
		fmt.Fprintf(out, "\r%s Syncing library... %s", frame, lib.State)
	}
}
