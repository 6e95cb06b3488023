// Command wavtempo time-stretches WAV files without changing their
// pitch. The root command processes every *.wav under the input
// directory once; the watch subcommand keeps running and processes
// files as they appear.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wavtempo "github.com/soundkit/wavtempo"
	"github.com/soundkit/wavtempo/config"
	"github.com/soundkit/wavtempo/logger"
	"github.com/soundkit/wavtempo/pipeline"
)

type options struct {
	inputDir  string
	outputDir string
	tempo     float64
	workers   int
	failFast  bool
	logLevel  string
	logFile   string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wavtempo: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wavtempo: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "wavtempo",
		Short: "Time-stretch WAV files without changing pitch",
		Long: `wavtempo stretches or compresses the duration of mono 16 kHz 16-bit
WAV files while preserving their pitch. It mirrors the input directory
tree into the output directory, processing every *.wav it finds.

A tempo factor above 1 shortens the audio, a factor below 1 lengthens
it. A factor of exactly 1 copies the samples unchanged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.inputDir, "input-dir", "i", "", "directory scanned for WAV files (required)")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory the results are written to (required)")
	flags.Float64VarP(&opts.tempo, "tempo", "t", cfg.Tempo, "tempo factor (>1 speeds up, <1 slows down)")
	flags.IntVar(&opts.workers, "workers", cfg.Workers, "number of files processed concurrently")
	flags.BoolVar(&opts.failFast, "fail-fast", cfg.FailFast, "abort on the first file that fails")
	flags.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", cfg.LogPath, "also log to this rotating file")
	_ = rootCmd.MarkPersistentFlagRequired("input-dir")
	_ = rootCmd.MarkPersistentFlagRequired("output-dir")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Process WAV files as they appear in the input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), opts)
		},
	})

	return rootCmd
}

func setup(opts *options) (*pipeline.Pipeline, *zap.Logger, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = opts.logLevel
	logCfg.Path = opts.logFile
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}

	proc, err := wavtempo.New(wavtempo.WithTempo(opts.tempo))
	if err != nil {
		return nil, nil, err
	}

	p := pipeline.New(proc, pipeline.Config{
		Workers:  opts.workers,
		FailFast: opts.failFast,
		Logger:   log,
	})
	return p, log, nil
}

func runBatch(parent context.Context, opts *options) error {
	p, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := p.Run(ctx, opts.inputDir, opts.outputDir)
	if res != nil {
		log.Info("run finished",
			zap.Int("processed", res.Processed),
			zap.Int("failed", res.Failed),
		)
		// Skipped files are already reported per file; the run itself
		// still succeeds unless fail-fast aborted it.
		if res.Failed > 0 {
			log.Warn("some files were skipped", zap.Int("failed", res.Failed))
		}
	}
	return err
}

func runWatch(parent context.Context, opts *options) error {
	p, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return p.Watch(ctx, opts.inputDir, opts.outputDir)
}
