package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twinsync/twin/internal/config"
	"github.com/twinsync/twin/internal/filter"
	"github.com/twinsync/twin/internal/logging"
	"github.com/twinsync/twin/internal/sched"
	"github.com/twinsync/twin/internal/stats"
	"github.com/twinsync/twin/internal/sync"
)

var version = "dev"

func main() {
	os.Exit(run())
}

//nolint:gocyclo // main CLI entry point orchestrates flag parsing and the loop
func run() int {
	var (
		cfg         config.Config
		cfgFile     string
		quiet       bool
		verbose     bool
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "twin --source DIR --replica DIR --interval SECONDS --log FILE",
		Short: "Keep a replica directory in lockstep with a source directory",
		Long: `twin periodically mirrors a source directory tree into a replica tree:
new and changed files are copied (preserving mode and timestamps), and
anything in the replica that no longer exists in the source is removed.
Every action is logged identically to the console and to the log file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "twin %s\n", version)
				return nil
			}

			// Config file values fill in flags not set on the CLI.
			if cfgFile != "" {
				f, err := config.LoadFile(cfgFile)
				if err != nil {
					return err
				}
				f.Apply(&cfg, cmd.Flags().Changed)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			excludes, err := cfg.CompileExcludes()
			if err != nil {
				return fmt.Errorf("exclude pattern: %w", err)
			}

			var bwLimit int64
			if cfg.BWLimit != "" {
				bwLimit, _ = filter.ParseSize(cfg.BWLimit) // validated above
			}
			var logMaxSize int64
			if cfg.LogMaxSize != "" {
				logMaxSize, _ = filter.ParseSize(cfg.LogMaxSize)
			}

			// Configure logging: text on stderr, JSON in the rotating log
			// file, both fed the same records at the same level.
			logLevel := slog.LevelInfo
			if verbose {
				logLevel = slog.LevelDebug
			} else if quiet {
				logLevel = slog.LevelWarn
			}
			logWriter, err := logging.NewRotatingWriter(cfg.LogFile, logMaxSize, cfg.LogBackups)
			if err != nil {
				return err
			}
			defer logWriter.Close()

			logger := slog.New(logging.NewMultiHandler(
				slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}),
				slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: logLevel}),
			))
			slog.SetDefault(logger)

			if cfg.DryRun {
				logger.Info("dry run mode: no changes will be made")
			}
			if !excludes.Empty() {
				logger.Debug("exclusions active", "patterns", excludes.Patterns())
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var lastFailed int
			pass := func(ctx context.Context) error {
				report, err := sync.Sync(ctx, sync.Options{
					Source:  cfg.Source,
					Replica: cfg.Replica,
					Exclude: excludes,
					DryRun:  cfg.DryRun,
					Verify:  cfg.Verify,
					BWLimit: bwLimit,
					Logger:  logger,
					Stats:   stats.NewCollector(),
				})
				if err != nil {
					return err
				}
				lastFailed = len(report.Failed())
				return nil
			}

			logger.Info("starting mirror",
				"source", cfg.Source,
				"replica", cfg.Replica,
				"interval_seconds", cfg.Interval,
				"once", cfg.Once,
			)

			if cfg.Once {
				if err := pass(ctx); err != nil {
					if errors.Is(err, context.Canceled) {
						logger.Info("shutting down")
						return nil
					}
					logger.Error("sync failed", "error", err)
					return err
				}
				if lastFailed > 0 {
					return &exitError{code: 1}
				}
				return nil
			}

			runner := sched.Runner{
				Interval: time.Duration(cfg.Interval) * time.Second,
				Log:      logger,
			}
			if err := runner.Run(ctx, pass); err != nil {
				if errors.Is(err, context.Canceled) {
					logger.Info("shutting down")
					return nil
				}
				logger.Error("sync failed", "error", err)
				return err
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().StringVar(&cfg.Source, "source", "", "source root path")
	rootCmd.Flags().StringVar(&cfg.Replica, "replica", "", "replica root path")
	rootCmd.Flags().IntVar(&cfg.Interval, "interval", 0, "seconds between passes")
	rootCmd.Flags().StringVar(&cfg.LogFile, "log", "", "log file path (JSON, size-rotated)")
	rootCmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "report actions without changing the replica")
	rootCmd.Flags().StringArrayVar(&cfg.Excludes, "exclude", nil,
		"exclude entries whose name matches PATTERN (repeatable)")
	rootCmd.Flags().StringVar(&cfg.ExcludeFrom, "exclude-from", "",
		"read exclude patterns from FILE, one per line")
	rootCmd.Flags().BoolVar(&cfg.Once, "once", false, "run a single pass and exit")
	rootCmd.Flags().BoolVar(&cfg.Verify, "verify", false,
		"verify copied files against the source with BLAKE3 checksums")
	rootCmd.Flags().StringVar(&cfg.BWLimit, "bwlimit", "",
		"copy bandwidth limit (e.g. 10M, 1G)")
	rootCmd.Flags().StringVar(&cfg.LogMaxSize, "log-max-size", "10M",
		"rotate the log file when it exceeds SIZE")
	rootCmd.Flags().IntVar(&cfg.LogBackups, "log-backups", 5,
		"rotated log files to keep")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "TOML config file")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also log skips and exclusions")

	rootCmd.AddCommand(docsCmd)

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
