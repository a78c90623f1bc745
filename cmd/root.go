package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxidoc/oxidoc/internal/config"
	"github.com/oxidoc/oxidoc/internal/generate"
	"github.com/oxidoc/oxidoc/internal/pager"
	"github.com/oxidoc/oxidoc/internal/present"
	"github.com/oxidoc/oxidoc/internal/render"
	"github.com/oxidoc/oxidoc/internal/store"
)

const version = "0.2.0"

var (
	generateTarget string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:     "oxidoc [query]",
	Short:   "A command line interface to rustdoc",
	Version: version,
	Example: `  oxidoc Vec
  oxidoc std::vec::Vec
  oxidoc -g ./mycrate
  oxidoc -g std`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the CLI. Errors print a human-readable message plus the
// unwrap chain and exit 1; the empty-results case is not an error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
			fmt.Fprintf(os.Stderr, "caused by: %v\n", cause)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate("oxidoc {{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "print version info")
	rootCmd.Flags().StringVarP(&generateTarget, "generate", "g", "",
		"generate oxidoc info for the specified crate root directory, 'std' for stdlib "+
			"(requires RUST_SRC_PATH to be set), 'crates' for all cargo crates or 'all' for everything")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(mcpCmd)
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runRoot(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("generate") {
		if generateTarget == "" {
			return errors.New("no crate source directory supplied")
		}
		return generate.Run(context.Background(), generateTarget, cfg.Store.Dir)
	}

	if len(args) == 0 {
		return errors.New("no search query was provided")
	}
	return runQuery(cfg, args[0], os.Stdout)
}

func runQuery(cfg *config.Config, query string, stdout *os.File) error {
	st, err := store.Open(cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	var termOpts []render.Option
	if cfg.Render.Style != "" {
		termOpts = append(termOpts, render.WithStyle(cfg.Render.Style))
	}
	if cfg.Render.Width > 0 {
		termOpts = append(termOpts, render.WithWidth(cfg.Render.Width))
	}
	renderer := render.New(render.NewANSITerminal(stdout, termOpts...))

	driver := present.New(st, store.NewDriver(cfg.Store.Dir), renderer, stdout,
		func() (io.WriteCloser, error) {
			return pager.Open(stdout, cfg.Pager.Command)
		})
	return driver.Run(query)
}
