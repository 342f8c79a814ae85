package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"croprec/internal/recommender"
)

func trainCmd() *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "Train the classifier and print the training report",
		Description: `Loads the dataset, performs the seeded stratified split, fits the scaler
and the classifier, and reports the scaler parameters, class list, split
sizes and held-out metrics. The trained model is not saved.`,
		Flags: []cli.Flag{
			formatFlag(FormatYAML, FormatYAML, FormatJSON, FormatTable),
			outputFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, FormatYAML, FormatJSON, FormatTable)
			if err != nil {
				return err
			}

			artifacts, err := train(ctx, configFrom(ctx))
			if err != nil {
				return err
			}

			w, closeFn, err := outputWriter(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeFn(); err != nil {
					slog.Warn("failed to close output", "error", err)
				}
			}()

			if outFormat == FormatTable {
				printReport(w, artifacts.Report)
				return nil
			}
			return encode(w, outFormat, artifacts.Report)
		},
	}
}

func printReport(w io.Writer, report *recommender.TrainingReport) {
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintln(w, strings.Repeat("═", 50))
	fmt.Fprintln(w, green("Training report"))
	fmt.Fprintln(w, strings.Repeat("─", 50))
	fmt.Fprintf(w, "Dataset:  %s\n", report.Dataset)
	fmt.Fprintf(w, "Samples:  %d (train %d, test %d, seed %d)\n", report.Samples, report.TrainSize, report.TestSize, report.Seed)
	fmt.Fprintf(w, "Classes:  %d\n", len(report.Classes))
	fmt.Fprintf(w, "Scaling:  %s\n", report.Scaling)
	fmt.Fprintln(w, strings.Repeat("─", 50))

	fmt.Fprintf(w, "%-12s %10s %10s %10s %10s\n", "FEATURE", "MEAN", "STD", "MIN", "MAX")
	for _, f := range report.Features {
		fmt.Fprintf(w, "%-12s %10.3f %10.3f %10.3f %10.3f\n", f.Name, f.Mean, f.Std, f.Min, f.Max)
	}

	if report.Holdout != nil {
		fmt.Fprintln(w, strings.Repeat("─", 50))
		fmt.Fprint(w, report.Holdout.FormatMetrics())
	}
	fmt.Fprintln(w, strings.Repeat("═", 50))
}
