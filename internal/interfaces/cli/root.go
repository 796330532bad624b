// Package cli implements engagectl, the operator command-line for the
// compliance calendar.  It talks straight to the practice-management API and
// runs the same normalization engine the server uses, so what an operator
// sees in a terminal matches what a client sees on the dashboard.
package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	app "github.com/meridiancs/engage/internal/application/compliance"
	"github.com/meridiancs/engage/internal/infrastructure/monitoring/logging"
	"github.com/meridiancs/engage/internal/infrastructure/redis"
	"github.com/meridiancs/engage/internal/infrastructure/upstream"
	"github.com/meridiancs/engage/pkg/errors"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	BaseURL string
	APIKey  string
	Output  string
	Verbose bool
}

// CLIContext bundles the constructed dependencies for subcommands.
type CLIContext struct {
	Opts    *RootOptions
	Client  *upstream.Client
	Manager *app.Manager
	Logger  logging.Logger
}

// NewRootCommand builds the engagectl command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cliCtx := &CLIContext{Opts: opts}

	root := &cobra.Command{
		Use:           "engagectl",
		Short:         "Operate the compliance calendar from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.BaseURL == "" {
				opts.BaseURL = os.Getenv("ENGAGE_UPSTREAM_BASE_URL")
			}
			if opts.APIKey == "" {
				opts.APIKey = os.Getenv("ENGAGE_UPSTREAM_API_KEY")
			}
			if opts.BaseURL == "" {
				return errors.InvalidParam("--base-url or ENGAGE_UPSTREAM_BASE_URL is required")
			}

			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			logger, err := logging.NewLogger(logging.LogConfig{Level: level, Format: "console"})
			if err != nil {
				return err
			}
			cliCtx.Logger = logger

			client, err := upstream.NewClient(opts.BaseURL, opts.APIKey, upstream.WithLogger(logger))
			if err != nil {
				return err
			}
			cliCtx.Client = client
			cliCtx.Manager = app.NewManager(client, redis.NewLocalTransitionGuard(), app.SystemClock{}, logger, nil)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "practice-management API base URL")
	root.PersistentFlags().StringVar(&opts.APIKey, "api-key", "", "practice-management API key")
	root.PersistentFlags().StringVarP(&opts.Output, "output", "o", "table", "output format: table or json")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newComplianceCommand(cliCtx))
	return root
}

// Execute runs the root command, printing errors in a single uniform place.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// FormatTable renders rows with aligned columns to stdout.
func FormatTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}
