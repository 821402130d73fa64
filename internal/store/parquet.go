package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet snapshots the whole current store to w as a parquet file with
// one string column per store column. It returns the number of rows written.
func (s *Store) WriteParquet(ctx context.Context, w io.Writer) (int, error) {
	header, rows, err := s.ReadAll(ctx)
	if err != nil {
		return 0, err
	}

	names := uniqueNames(header)
	group := make(parquet.Group, len(names))
	for _, name := range names {
		group[name] = parquet.String()
	}
	schema := parquet.NewSchema("library_records", group)

	// Group fields are laid out in name order, not header order.
	leaf := make(map[string]int, len(names))
	for i, path := range schema.Columns() {
		leaf[path[0]] = i
	}

	batch := make([]parquet.Row, 0, len(rows))
	for _, record := range rows {
		row := make(parquet.Row, len(names))
		for i, name := range names {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			col := leaf[name]
			row[col] = parquet.ValueOf(value).Level(0, 0, col)
		}
		batch = append(batch, row)
	}

	writer := parquet.NewWriter(w, schema)
	if _, err := writer.WriteRows(batch); err != nil {
		return 0, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to finish parquet file: %w", err)
	}

	slog.Debug("Store exported as parquet", "path", s.path, "rows", len(batch), "columns", len(names))
	return len(batch), nil
}

// uniqueNames makes every header label distinct and non-empty so it can name a
// parquet column.
func uniqueNames(header []string) []string {
	seen := make(map[string]bool, len(header))
	names := make([]string, len(header))
	for i, name := range header {
		if name == "" {
			name = "column_" + strconv.Itoa(i)
		}
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = name + "_" + strconv.Itoa(n)
		}
		seen[candidate] = true
		names[i] = candidate
	}
	return names
}
