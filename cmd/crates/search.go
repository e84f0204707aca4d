package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mmcdole/crates/internal/domain"
	"github.com/mmcdole/crates/internal/search"
)

// SearchOptions holds flags for the search command
type SearchOptions struct {
	Limit  int
	Format string // "text" | "json"
}

// NewSearchCommand creates the search command
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search users and crates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(rootOpts, opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "results per kind")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	return cmd
}

func runSearch(rootOpts *RootOptions, opts *SearchOptions, query string, cmd *cobra.Command) error {
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("empty query")
	}

	e, err := loadEnv(rootOpts)
	if err != nil {
		return err
	}
	defer e.Close()
	if !e.cfg.IsConfigured() {
		return fmt.Errorf("%w: run 'crates login' first", domain.ErrNotSignedIn)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	res, err := e.newClient(nil).Search(ctx, query, domain.FirstPage(opts.Limit))
	if err != nil {
		return fmt.Errorf("search failed: %s", domain.ErrorMessage(err))
	}

	// Title matches first, then whatever else the server matched
	res.Users = promote(search.RankUsers(query, res.Users), res.Users, func(u domain.PublicUser) int64 { return u.ID })
	res.Crates = promote(search.RankCrates(query, res.Crates), res.Crates, func(c domain.Crate) int64 { return c.ID })

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	writeSearchText(cmd.OutOrStdout(), res)
	return nil
}

// promote returns ranked followed by the rest of all in their original order
func promote[T any](ranked, all []T, id func(T) int64) []T {
	seen := make(map[int64]bool, len(ranked))
	out := make([]T, 0, len(all))
	for _, v := range ranked {
		seen[id(v)] = true
		out = append(out, v)
	}
	for _, v := range all {
		if !seen[id(v)] {
			out = append(out, v)
		}
	}
	return out
}

func writeSearchText(out io.Writer, res domain.UnifiedSearchResult) {
	if res.Empty() {
		fmt.Fprintln(out, "No results")
		return
	}
	for _, u := range res.Users {
		fmt.Fprintf(out, "USER   %-30s %d followers\n", u.Name(), u.FollowerCount)
	}
	for _, c := range res.Crates {
		owner := ""
		if c.User != nil {
			owner = "by " + c.User.Name()
		}
		fmt.Fprintf(out, "CRATE  %-30s %s\n", c.Name, owner)
	}
}
