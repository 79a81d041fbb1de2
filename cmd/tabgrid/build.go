package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tsawler/tabgrid"
	"github.com/tsawler/tabgrid/config"
	"github.com/tsawler/tabgrid/internal/store"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <pages.yaml>",
		Short: "Reconstruct the tables of a page snapshot file",
		Long: `Build reads page snapshots and prints every table it reconstructs.

The calibration is taken from --config, else .tabgrid.yaml in the working
directory, else the user configuration file, else the built-in defaults.

Examples:
  # Print all tables as Markdown
  tabgrid build pages.yaml

  # Pages 2 and 5 as HTML, keeping spans
  tabgrid build pages.yaml -p 2,5 -f html

  # Full report, stored in the result database
  tabgrid build pages.yaml -f report --save`,
		Args: cobra.ExactArgs(1),
		RunE: runBuildCmd,
	}

	cmd.Flags().StringP("config", "c", "", "Calibration file path")
	cmd.Flags().StringP("format", "f", formatMarkdown, "Output format: markdown, csv, html or report")
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().IntP("workers", "w", 0, "Pages processed at once (0: one per CPU)")
	cmd.Flags().IntSliceP("pages", "p", nil, "Page numbers to process (default: all)")
	cmd.Flags().Bool("save", false, "Store the results in the result database")

	return cmd
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(level, getVerboseFlag(cmd))

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if !validFormat(format) {
		return fmt.Errorf("unknown format %q", format)
	}

	p := tabgrid.Open(input).WithConfig(*cfg).WithLogger(logger)
	if cmd.Flags().Changed("workers") {
		workers, err := cmd.Flags().GetInt("workers")
		if err != nil {
			return err
		}
		p = p.Workers(workers)
	}
	pages, err := cmd.Flags().GetIntSlice("pages")
	if err != nil {
		return err
	}
	if len(pages) > 0 {
		p = p.Pages(pages...)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	results, warnings, err := p.Tables(ctx)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	if err := writeResults(out, format, input, results, warnings); err != nil {
		return err
	}

	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return err
	}
	if save {
		return saveRun(ctx, cmd, logger, input, results)
	}
	return nil
}

// loadConfig resolves the calibration file. An explicit path that does
// not exist is an error; otherwise a missing file means the defaults.
func loadConfig(cmd *cobra.Command) (*config.File, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	path := config.FindFile(explicit)
	if path == "" {
		if explicit != "" {
			return nil, fmt.Errorf("%s: %w", explicit, config.ErrConfigNotFound)
		}
		def := config.Default()
		return &def, nil
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error in %s: %w", path, err)
	}
	return cfg, nil
}

func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path) //nolint:gosec // user-chosen output path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// dbDir returns the --db directory or the default data directory
func dbDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db")
	if err != nil || dir == "" {
		return config.DataDir()
	}
	return dir
}

func saveRun(ctx context.Context, cmd *cobra.Command, logger *slog.Logger, input string, results []tabgrid.PageResult) error {
	db, err := store.Open(dbDir(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.Save(ctx, input, results)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("saving results: %w", err)
	}
	logger.Info("results saved", "run", id, "db", db.Path())
	fmt.Fprintf(cmd.ErrOrStderr(), "saved run %d to %s\n", id, db.Path())
	return nil
}
