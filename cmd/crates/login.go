package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/crates/internal/adapter"
	"github.com/mmcdole/crates/internal/domain"
)

// LoginOptions holds flags for the login command
type LoginOptions struct {
	NoBrowser bool
}

// NewLoginCommand creates the login command
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store an API token",
		Long: `Open the sign-in page in a browser, then paste the token it shows.

The token is checked against the server before it is saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "print the sign-in link instead of opening it")

	return cmd
}

func runLogin(rootOpts *RootOptions, opts *LoginOptions, cmd *cobra.Command) error {
	e, err := loadEnv(rootOpts)
	if err != nil {
		return err
	}
	defer e.Close()
	out := cmd.OutOrStdout()

	link := e.cfg.LoginURL()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Sign in at: %s\n", link)
	fmt.Fprintln(out)
	if !opts.NoBrowser {
		if err := adapter.NewLauncher(e.cfg.Browser, e.logger).Open(link); err != nil {
			e.logger.Warn("could not open browser", "error", err)
		}
	}

	token, err := readToken(cmd.InOrStdin(), out)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return errors.New("no token entered")
	}

	client := e.newClient(nil)
	client.SetToken(token)

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	user, err := client.GetCurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return errors.New("the server rejected that token")
		}
		return fmt.Errorf("failed to verify token: %w", err)
	}

	if err := adapter.SaveToken(token); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "✓ Signed in as %s\n", userLabel(user))
	return nil
}

// readToken prompts for the token, hiding input on a terminal
func readToken(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Paste token: ")

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func userLabel(u domain.User) string {
	switch {
	case u.DisplayName != "" && u.Handle != "":
		return fmt.Sprintf("%s (@%s)", u.DisplayName, u.Handle)
	case u.Handle != "":
		return "@" + u.Handle
	case u.DisplayName != "":
		return u.DisplayName
	default:
		return u.SpotifyID
	}
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and cached data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := adapter.ClearToken(); err != nil {
				return err
			}
			if err := adapter.ClearCache(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
			return nil
		},
	}
}
