package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// printStructured renders v as JSON or YAML per the --output flag and
// reports whether it handled the output. Table-format rendering stays
// with the caller, which knows its columns.
func printStructured(v any) (bool, error) {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return true, enc.Encode(v)
	case "table", "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q (use table, json, or yaml)", outputFormat)
	}
}

// newTable returns a tab-aligned writer for table output. Callers must
// Flush when done.
func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func activeMark(active bool) string {
	if active {
		return "yes"
	}
	return "no"
}
