package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"croprec/internal/features"
	"croprec/internal/locale"
	"croprec/internal/recommender"
)

func predictCmd() *cli.Command {
	return &cli.Command{
		Name:      "predict",
		Usage:     "Rank the most suitable crops for one set of measurements",
		ArgsUsage: "<N P K temperature humidity ph rainfall> | <name=value ...>",
		Description: `Values are given either in order (nitrogen, phosphorus, potassium,
temperature, humidity, ph, rainfall) or as name=value pairs using the
feature names or their aliases (N, P, K, temp, rain, ...).`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Language for crop names (en, es)",
			},
			formatFlag(FormatTable, FormatTable, FormatJSON, FormatYAML),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, FormatTable, FormatJSON, FormatYAML)
			if err != nil {
				return err
			}

			vector, err := parseVector(cmd.Args().Slice())
			if err != nil {
				return err
			}

			cfg := configFrom(ctx)
			artifacts, err := train(ctx, cfg)
			if err != nil {
				return err
			}

			ranking, err := recommender.NewPredictor(artifacts, cfg.Model.TopN).TopCrops([]features.Vector{vector})
			if err != nil {
				return err
			}

			tr := locale.For(cmd.String("lang"))
			if tr != locale.English {
				ranking = ranking.Relabel(tr.Crop)
			}

			w := writer(cmd)
			if outFormat == FormatTable {
				printRanking(w, vector, ranking)
				return nil
			}
			return encode(w, outFormat, ranking)
		},
	}
}

// parseVector reads positional values or name=value pairs.
func parseVector(args []string) (features.Vector, error) {
	if len(args) == 0 {
		return features.Vector{}, fmt.Errorf("expected %d values or name=value pairs", features.Count)
	}

	named := strings.Contains(args[0], "=")
	if named {
		payload := make(map[string]any, len(args))
		for _, arg := range args {
			key, val, ok := strings.Cut(arg, "=")
			if !ok {
				return features.Vector{}, fmt.Errorf("cannot mix positional values and name=value pairs: %q", arg)
			}
			payload[strings.TrimSpace(key)] = val
		}
		return features.FromNamed(payload)
	}

	sample := make([]any, len(args))
	for i, arg := range args {
		if strings.Contains(arg, "=") {
			return features.Vector{}, fmt.Errorf("cannot mix positional values and name=value pairs: %q", arg)
		}
		sample[i] = arg
	}
	return features.FromSample(sample)
}

func printRanking(w io.Writer, vector features.Vector, ranking recommender.Ranking) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(w, strings.Repeat("═", 50))
	fmt.Fprintln(w, green("Recommended crops"))
	fmt.Fprintln(w, strings.Repeat("─", 50))

	fmt.Fprintln(w, "Input values:")
	for i, name := range features.Names() {
		fmt.Fprintf(w, "  %-12s %s\n", name+":", vector[i].String())
	}
	fmt.Fprintln(w, strings.Repeat("─", 50))

	if len(ranking) == 0 {
		fmt.Fprintln(w, yellow("No crop received any support"))
		fmt.Fprintln(w, strings.Repeat("═", 50))
		return
	}

	for i, p := range ranking {
		barLength := int(p.Probability * 30)
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 30-barLength)

		paint := yellow
		if i == 0 {
			paint = cyan
		}
		fmt.Fprintf(w, "%d. %s %s %6.2f%%\n", i+1, paint(fmt.Sprintf("%-15s", p.Label)), bar, p.Probability*100)
	}

	fmt.Fprintln(w, strings.Repeat("═", 50))

	confidence := ranking[0].Probability
	level := yellow("Low")
	switch {
	case confidence > 0.9:
		level = green("Very High")
	case confidence > 0.7:
		level = green("High")
	case confidence > 0.5:
		level = yellow("Moderate")
	}
	fmt.Fprintf(w, "Confidence Level: %s (%.2f%%)\n", level, confidence*100)
}
