// Package report renders lookup results for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/accessioner/internal/catalog"
)

// Formats accepted by Write.
var Formats = []string{"text", "yaml", "json"}

// LookupResult is the serializable form of a catalog.Match. Each record maps
// column name to value.
type LookupResult struct {
	Key     string              `json:"key" yaml:"key"`
	Title   string              `json:"title" yaml:"title"`
	Copies  int                 `json:"no_of_copies" yaml:"no_of_copies"`
	Records []map[string]string `json:"records" yaml:"records"`
}

// FromMatch converts m into a LookupResult.
func FromMatch(m *catalog.Match) LookupResult {
	result := LookupResult{
		Key:     m.Key,
		Title:   m.Title,
		Copies:  m.Copies,
		Records: make([]map[string]string, 0, len(m.Rows)),
	}
	for _, row := range m.Rows {
		record := make(map[string]string, len(m.Columns))
		for i, col := range m.Columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		result.Records = append(result.Records, record)
	}
	return result
}

// Write renders m to w in format.
func Write(w io.Writer, m *catalog.Match, format string) error {
	switch format {
	case "text", "":
		return writeText(w, m)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(FromMatch(m)); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(FromMatch(m))
	default:
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

func writeText(w io.Writer, m *catalog.Match) error {
	fmt.Fprintln(w, "Book Details Found:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(m.Columns, "\t"))
	for _, row := range m.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nThe book '%s' has %d copies in the library.\n", m.Title, m.Copies)
	return err
}
