package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func formatFlag(def Format, allowed ...Format) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(def),
		Usage:   fmt.Sprintf("Output format (%v)", allowed),
	}
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "Write output to this file instead of stdout",
}

// parseOutputFormat reads --format and checks it against allowed.
func parseOutputFormat(cmd *cli.Command, allowed ...Format) (Format, error) {
	f := Format(cmd.String("format"))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format: %q (supported: %v)", f, allowed)
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q cannot encode structured output", f)
	}
}

// outputWriter returns the --output file, or the command writer when unset.
// The returned close func is always safe to call.
func outputWriter(cmd *cli.Command) (io.Writer, func() error, error) {
	path := cmd.String("output")
	if path == "" {
		return writer(cmd), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
