package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/govlist/internal/config"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// resolveOutputFormat returns the --output value, or the configured default
// when the flag is empty.
func resolveOutputFormat(flag string) (string, error) {
	format := flag
	if strings.TrimSpace(format) == "" {
		format = config.GetGlobalConfig().Output.DefaultFormat
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case formatTable, formatJSON, formatYAML:
		return format, nil
	default:
		return "", usageError(fmt.Errorf("unsupported output format %q: use table, json or yaml", flag))
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// writeYAML writes v as a YAML document.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd // Two-space indentation matches config files.
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return nil
}
