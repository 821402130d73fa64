// Package catalog finds book copies in an uploaded dataset by accession number
// and computes how many copies of the same title the library holds.
package catalog

import (
	"log/slog"
	"strconv"

	"github.com/lehigh-university-libraries/accessioner/internal/accession"
	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
	"github.com/lehigh-university-libraries/accessioner/internal/table"
)

// CopiesColumn is the derived column holding the copy count.
const CopiesColumn = "no_of_copies"

// Schema declares the normalized columns a dataset must carry.
type Schema struct {
	AccessionColumn string
	TitleColumn     string
}

// DefaultSchema matches the column labels of the library's catalog export,
// including its Ttitle spelling.
var DefaultSchema = Schema{
	AccessionColumn: "Acc_No",
	TitleColumn:     "Ttitle",
}

// Validate returns a ColumnMissing error naming every declared column absent
// from t.
func (s Schema) Validate(t *table.Table) error {
	var missing []string
	for _, col := range []string{s.AccessionColumn, s.TitleColumn} {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return domainerrors.ColumnMissing(missing)
	}
	return nil
}

// Match is the set of rows sharing one accession key, each carrying the copy
// count of the first row's title.
type Match struct {
	Key     string
	Title   string
	Copies  int
	Columns []string
	Rows    [][]string
}

// Lookup filters t for rows whose accession column equals key exactly. The copy
// count is the number of rows in all of t whose title equals the first match's
// title. Zero matches yield a NotFound error.
func Lookup(t *table.Table, schema Schema, key string) (*Match, error) {
	if err := schema.Validate(t); err != nil {
		return nil, err
	}

	var matched []table.Row
	for _, row := range t.Rows {
		if row[schema.AccessionColumn] == key {
			matched = append(matched, row)
		}
	}

	if len(matched) == 0 {
		return nil, domainerrors.NotFoundf("no record found for accession number %q", key)
	}

	title := matched[0][schema.TitleColumn]
	copies := CountCopies(t, schema, title)

	m := &Match{
		Key:     key,
		Title:   title,
		Copies:  copies,
		Columns: append(append([]string{}, t.Columns...), CopiesColumn),
		Rows:    make([][]string, 0, len(matched)),
	}
	count := strconv.Itoa(copies)
	for _, row := range matched {
		m.Rows = append(m.Rows, append(t.Values(row), count))
	}

	if len(matched) > 1 {
		slog.Warn("Accession number matches more than one row", "key", key, "rows", len(matched))
	}
	slog.Debug("Lookup matched", "key", key, "title", title, "rows", len(matched), "copies", copies)

	return m, nil
}

// CountCopies returns the number of rows whose title column equals title.
func CountCopies(t *table.Table, schema Schema, title string) int {
	n := 0
	for _, row := range t.Rows {
		if row[schema.TitleColumn] == title {
			n++
		}
	}
	return n
}

// CanonicalizeKeys rewrites the accession column of every row through
// accession.Normalize so stored values compare equal to normalized lookup
// keys. It returns the number of cells changed.
func CanonicalizeKeys(t *table.Table, schema Schema) (int, error) {
	if !t.HasColumn(schema.AccessionColumn) {
		return 0, domainerrors.ColumnMissing([]string{schema.AccessionColumn})
	}

	changed := 0
	for _, row := range t.Rows {
		raw := row[schema.AccessionColumn]
		if key := accession.Normalize(raw); key != raw {
			row[schema.AccessionColumn] = key
			changed++
		}
	}
	return changed, nil
}
