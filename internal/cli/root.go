package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"croprec/internal/config"
	"croprec/internal/data"
	"croprec/internal/logging"
	"croprec/internal/recommender"
)

const (
	name           = "croprec"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

type configKey struct{}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Crop recommendation from soil and climate measurements",
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "Path to the training CSV (header " + data.ReferenceHeader + ")",
			},
			&cli.IntFlag{
				Name:  "k",
				Usage: "Number of neighbors",
			},
			&cli.StringFlag{
				Name:  "distance",
				Usage: "Distance metric (euclidean, manhattan)",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed for the stratified train/test split",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return ctx, err
			}
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"dataset", cfg.Dataset)
			return context.WithValue(ctx, configKey{}, cfg), nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			predictCmd(),
			trainCmd(),
			tuneCmd(),
		},
	}
}

// loadConfig layers the config file, the environment and the global flags.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("dataset") {
		cfg.Dataset = cmd.String("dataset")
	}
	if cmd.IsSet("k") {
		cfg.Model.K = cmd.Int("k")
	}
	if cmd.IsSet("distance") {
		cfg.Model.Distance = cmd.String("distance")
	}
	if cmd.IsSet("seed") {
		cfg.Model.Seed = cmd.Int64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// train fits the artifacts described by cfg.
func train(ctx context.Context, cfg *config.Config) (*recommender.Artifacts, error) {
	artifacts, err := recommender.Train(ctx, recommender.OptionsFromConfig(cfg))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("training failed: %w (pass --dataset or set %s)", err, config.EnvDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}
	return artifacts, nil
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
