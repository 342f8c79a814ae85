package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"croprec/internal/experiment"
)

func tuneCmd() *cli.Command {
	return &cli.Command{
		Name:  "tune",
		Usage: "Cross-validate a range of k values and distance metrics",
		Description: `Runs stratified k-fold cross validation on the scaled training partition
for every combination of k and distance, and prints mean and standard
deviation of the accuracy, best candidate first.`,
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:  "k-values",
				Usage: "Candidate k values (default 1..20)",
			},
			&cli.StringSliceFlag{
				Name:  "distances",
				Usage: "Candidate distance metrics",
			},
			&cli.IntFlag{
				Name:  "folds",
				Usage: "Number of cross-validation folds",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Folds evaluated concurrently",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Also export the results as CSV to this path",
			},
			formatFlag(FormatTable, FormatTable, FormatJSON, FormatYAML),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, FormatTable, FormatJSON, FormatYAML)
			if err != nil {
				return err
			}

			cfg := configFrom(ctx)
			if ks := cmd.IntSlice("k-values"); len(ks) > 0 {
				cfg.Tuning.K = ks
			}
			if ds := cmd.StringSlice("distances"); len(ds) > 0 {
				cfg.Tuning.Distances = ds
			}
			if cmd.IsSet("folds") {
				cfg.Tuning.Folds = cmd.Int("folds")
			}
			if cmd.IsSet("workers") {
				cfg.Tuning.Workers = cmd.Int("workers")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			artifacts, err := train(ctx, cfg)
			if err != nil {
				return err
			}

			runner := experiment.NewRunner(experiment.ExperimentConfig{
				K:         cfg.TuningK(),
				Distances: cfg.Tuning.Distances,
				Folds:     cfg.Tuning.Folds,
				Workers:   cfg.Tuning.Workers,
				Seed:      cfg.Model.Seed,
			}, slog.Default())

			X, y := artifacts.TrainingSet()
			results, err := runner.Run(ctx, X, y)
			if err != nil {
				return fmt.Errorf("tuning failed: %w", err)
			}

			if path := cmd.String("csv"); path != "" {
				if err := runner.ExportResults(results, path); err != nil {
					return fmt.Errorf("failed to export results: %w", err)
				}
				slog.Info("results exported", "path", path)
			}

			w := writer(cmd)
			if outFormat == FormatTable {
				printTuneResults(w, results, cfg.Tuning.Folds)
				return nil
			}
			return encode(w, outFormat, results)
		},
	}
}

func printTuneResults(w io.Writer, results []experiment.ExperimentResult, folds int) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(w, strings.Repeat("═", 50))
	fmt.Fprintln(w, green(fmt.Sprintf("%d-fold cross validation", folds)))
	fmt.Fprintln(w, strings.Repeat("─", 50))
	fmt.Fprintf(w, "%-4s %-10s %-10s %s\n", "K", "DISTANCE", "MEAN", "STD")

	for i, r := range results {
		line := fmt.Sprintf("%-4d %-10s %-10.4f ± %.4f", r.K, r.Distance, r.CVMean, r.CVStd)
		if i == 0 {
			line = cyan(line)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, strings.Repeat("═", 50))
	if len(results) > 0 {
		best := results[0]
		fmt.Fprintf(w, "Best: k=%s distance=%s (%.2f%%)\n", green(best.K), green(best.Distance), best.CVMean*100)
	}
}
