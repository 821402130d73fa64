// Package table holds uploaded catalog datasets in memory.
//
// Every cell is kept as the string it was read as, so accession numbers such as
// 000123 are never coerced to numbers.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Row maps a normalized column name to its cell value.
type Row map[string]string

// Table is an ordered set of rows whose columns were discovered from the
// uploaded file's header.
type Table struct {
	Columns []string
	Rows    []Row
}

// New builds a Table from a raw header and records. Column labels are
// normalized with NormalizeColumn; duplicate labels get a numeric suffix.
// Records shorter than the header are padded with empty cells and cells past
// the header are dropped.
func New(header []string, records [][]string) *Table {
	columns := NormalizeColumns(header)
	t := &Table{
		Columns: columns,
		Rows:    make([]Row, 0, len(records)),
	}
	for _, record := range records {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// NormalizeColumn strips surrounding whitespace, replaces each space with an
// underscore and removes each period.
func NormalizeColumn(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, ".", "")
}

// NormalizeColumns normalizes a raw header. Blank labels become Unnamed:_N and
// labels that normalize to one already taken get the next free numeric
// suffix, so "Acc No", "Acc_No" becomes Acc_No, Acc_No1.
func NormalizeColumns(header []string) []string {
	taken := make(map[string]bool, len(header))
	suffix := make(map[string]int, len(header))
	columns := make([]string, len(header))
	for i, raw := range header {
		label := raw
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("Unnamed: %d", i)
		}
		base := NormalizeColumn(label)
		column := base
		for n := suffix[base]; taken[column]; {
			n++
			suffix[base] = n
			column = base + strconv.Itoa(n)
		}
		taken[column] = true
		columns[i] = column
	}
	return columns
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Values returns the row's cells in column order.
func (t *Table) Values(row Row) []string {
	values := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		values[i] = row[c]
	}
	return values
}

// Records returns every row's cells in column order.
func (t *Table) Records() [][]string {
	records := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		records[i] = t.Values(row)
	}
	return records
}

// Head returns a table holding at most the first n rows. Rows are shared with
// the receiver.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}
