package main

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kevinmichaelchen/googl-hunt/internal/config"
	"github.com/kevinmichaelchen/googl-hunt/internal/github"
	"github.com/kevinmichaelchen/googl-hunt/internal/logging"
	"github.com/kevinmichaelchen/googl-hunt/internal/persist"
	"github.com/kevinmichaelchen/googl-hunt/internal/pipeline"
	"github.com/kevinmichaelchen/googl-hunt/internal/request"
)

const missingTokenMsg = "GITHUB_TOKEN is not set in the environment variables."

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "googl-hunt",
		Short:        "Find goo.gl links in GitHub code, resolve them, fork the repos",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(cmd.OutOrStdout(), level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, searchOptions{})
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(searchCmd(), resolveCmd(), forkCmd())
	return root
}

type searchOptions struct {
	cached  bool
	resolve bool
}

func searchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search GitHub code for goo.gl links and save the raw response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.cached, "cached", false, "Read items from "+persist.CacheFile+" instead of GitHub")
	cmd.Flags().BoolVar(&opts.resolve, "resolve", false, "Resolve goo.gl links found in matched fragments")
	return cmd
}

func runSearch(cmd *cobra.Command, opts searchOptions) error {
	cfg, ok := loadConfig(cmd)
	if !ok {
		return nil
	}
	_, err := pipeline.Run(cmd.Context(), cfg, pipeline.Options{
		Cached:  opts.cached,
		Resolve: opts.resolve,
		Out:     cmd.OutOrStdout(),
	})
	return err
}

func resolveCmd() *cobra.Command {
	var fork bool

	cmd := &cobra.Command{
		Use:   "resolve [url]",
		Short: "Print the redirect target of a shortened URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Load()

			dest, err := newClient(cfg).ResolveDestination(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dest)

			if !fork {
				return nil
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), missingTokenMsg)
				return nil
			}
			owner, repo, err := github.ParseURL(dest)
			if err != nil {
				return err
			}
			return doFork(ctx, cfg, owner, repo)
		},
	}
	cmd.Flags().BoolVar(&fork, "fork", false, "Fork the GitHub repository the link points to")
	return cmd
}

func forkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fork [owner repo | github-url]",
		Short: "Fork a repository into the token's account",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok := loadConfig(cmd)
			if !ok {
				return nil
			}

			var owner, repo string
			if len(args) == 2 {
				owner, repo = args[0], args[1]
			} else {
				var err error
				if owner, repo, err = github.ParseURL(args[0]); err != nil {
					return err
				}
			}
			return doFork(cmd.Context(), cfg, owner, repo)
		},
	}
}

// doFork only fails on transport or disk errors; a rejected fork has
// already been logged by the client.
func doFork(ctx context.Context, cfg *config.Config, owner, repo string) error {
	_, err := newClient(cfg).Fork(ctx, owner, repo)
	return err
}

// loadConfig reports false when the token is missing; the caller stops
// without an error, matching a plain return from the program.
func loadConfig(cmd *cobra.Command) (*config.Config, bool) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), missingTokenMsg)
		return nil, false
	}
	return cfg, true
}

func newClient(cfg *config.Config) *github.Client {
	return github.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL, request.NewClient(), persist.New(cfg.OutputDir))
}
