package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/accessioner/internal/accession"
	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
	"github.com/lehigh-university-libraries/accessioner/internal/table"
)

func duneTable() *table.Table {
	return table.New([]string{"Acc No", "Ttitle", "Author"}, [][]string{
		{"000123", "Dune", "Herbert"},
		{"000456", "Dune", "Herbert"},
		{"000789", "Dune", "Herbert"},
		{"001000", "Emma", "Austen"},
	})
}

func TestLookupCopyCount(t *testing.T) {
	tbl := duneTable()

	for _, key := range []string{"000123", "000456", "000789"} {
		t.Run(key, func(t *testing.T) {
			m, err := Lookup(tbl, DefaultSchema, key)
			require.NoError(t, err)

			assert.Equal(t, "Dune", m.Title)
			assert.Equal(t, 3, m.Copies)
			require.Len(t, m.Rows, 1)
			assert.Equal(t, []string{"Acc_No", "Ttitle", "Author", CopiesColumn}, m.Columns)
			assert.Equal(t, "3", m.Rows[0][3])
		})
	}
}

func TestLookupSingleCopy(t *testing.T) {
	m, err := Lookup(duneTable(), DefaultSchema, "001000")
	require.NoError(t, err)

	assert.Equal(t, 1, m.Copies)
	assert.Equal(t, []string{"001000", "Emma", "Austen", "1"}, m.Rows[0])
}

func TestLookupNotFound(t *testing.T) {
	_, err := Lookup(duneTable(), DefaultSchema, "999999")

	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestLookupIsExactStringMatch(t *testing.T) {
	tbl := table.New([]string{"Acc No", "Ttitle"}, [][]string{
		{"123", "Dune"},
	})

	key := accession.Normalize("123")
	require.Equal(t, "000123", key)

	// Without canonical keys the stored 123 never equals 000123.
	_, err := Lookup(tbl, DefaultSchema, key)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	changed, err := CanonicalizeKeys(tbl, DefaultSchema)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	m, err := Lookup(tbl, DefaultSchema, key)
	require.NoError(t, err)
	assert.Equal(t, "000123", m.Rows[0][0])
}

func TestLookupDuplicateKeys(t *testing.T) {
	tbl := table.New([]string{"Acc No", "Ttitle"}, [][]string{
		{"000123", "Dune"},
		{"000123", "Dune"},
		{"000456", "Dune"},
	})

	m, err := Lookup(tbl, DefaultSchema, "000123")
	require.NoError(t, err)

	require.Len(t, m.Rows, 2)
	for _, row := range m.Rows {
		assert.Equal(t, "3", row[2])
	}
}

func TestLookupCountUsesFirstMatchTitle(t *testing.T) {
	tbl := table.New([]string{"Acc No", "Ttitle"}, [][]string{
		{"000123", "Dune"},
		{"000123", "Emma"},
		{"000456", "Emma"},
	})

	m, err := Lookup(tbl, DefaultSchema, "000123")
	require.NoError(t, err)

	assert.Equal(t, "Dune", m.Title)
	assert.Equal(t, 1, m.Copies)
}

func TestLookupBlankTitleCountsBlankTitles(t *testing.T) {
	tbl := table.New([]string{"Acc No", "Ttitle"}, [][]string{
		{"000123", ""},
		{"000456", ""},
		{"000789", "  "},
		{"001000", "Emma"},
	})

	m, err := Lookup(tbl, DefaultSchema, "000123")
	require.NoError(t, err)
	assert.Equal(t, "", m.Title)
	assert.Equal(t, 2, m.Copies)
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		missing []string
	}{
		{"both present", []string{"Acc No", "Ttitle"}, nil},
		{"title spelled correctly", []string{"Acc No", "Title"}, []string{"Ttitle"}},
		{"neither", []string{"Barcode", "Title"}, []string{"Acc_No", "Ttitle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DefaultSchema.Validate(table.New(tt.header, nil))
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrColumnMissing))

			var domainErr *domainerrors.Error
			require.True(t, domainerrors.As(err, &domainErr))
			assert.Equal(t, tt.missing, domainErr.Details)
		})
	}
}

func TestLookupColumnMissing(t *testing.T) {
	tbl := table.New([]string{"Acc No", "Title"}, [][]string{{"000123", "Dune"}})

	_, err := Lookup(tbl, DefaultSchema, "000123")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrColumnMissing))
}

func TestCanonicalizeKeysColumnMissing(t *testing.T) {
	_, err := CanonicalizeKeys(table.New([]string{"Barcode"}, nil), DefaultSchema)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrColumnMissing))
}
