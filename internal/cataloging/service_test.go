package cataloging

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/accessioner/internal/annotation"
	"github.com/lehigh-university-libraries/accessioner/internal/catalog"
	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
	"github.com/lehigh-university-libraries/accessioner/internal/store"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	return NewService(store.New(filepath.Join(t.TempDir(), DownloadFilename)), opts...)
}

func TestEndToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tbl, err := svc.LoadDataset(strings.NewReader("Acc No,Ttitle\n000123,Dune\n000456,Dune\n"), "books.csv")
	require.NoError(t, err)

	m, err := svc.Lookup(tbl, "123")
	require.NoError(t, err)
	assert.Equal(t, "000123", m.Key)
	assert.Equal(t, 2, m.Copies)

	result, err := svc.Save(ctx, m, annotation.Annotation{RackLocation: "A1", StudentRating: 4, TeacherRating: 5})
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, 1, result.RowsWritten)

	expected := "Acc_No,Ttitle,no_of_copies,RackLocation,StudentRating,TeacherRating\n" +
		"000123,Dune,2,A1,4,5\n"
	assert.Equal(t, expected, string(result.Download.Data))
	assert.Equal(t, "library_records_updated.csv", result.Download.Filename)
	assert.Equal(t, "text/csv", result.Download.ContentType)
}

func TestSaveTwiceAppendsWithoutHeader(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tbl, err := svc.LoadDataset(strings.NewReader("Acc No,Ttitle\n000123,Dune\n000123,Dune\n"), "books.csv")
	require.NoError(t, err)

	m, err := svc.Lookup(tbl, "000123")
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)

	a := annotation.Annotation{RackLocation: "A1", StudentRating: 4, TeacherRating: 5}
	_, err = svc.Save(ctx, m, a)
	require.NoError(t, err)
	second, err := svc.Save(ctx, m, a)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, 2, second.RowsWritten)

	lines := strings.Split(strings.TrimSpace(string(second.Download.Data)), "\n")
	assert.Len(t, lines, 1+4)
}

func TestNumericKeysMatchWithCanonicalKeys(t *testing.T) {
	data := "Acc No,Ttitle\n123,Dune\n456,Dune\n"

	strict := newTestService(t)
	tbl, err := strict.LoadDataset(strings.NewReader(data), "books.csv")
	require.NoError(t, err)
	_, err = strict.Lookup(tbl, "123")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	canonical := newTestService(t, WithCanonicalKeys(true))
	tbl, err = canonical.LoadDataset(strings.NewReader(data), "books.csv")
	require.NoError(t, err)
	m, err := canonical.Lookup(tbl, "123")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Copies)
	assert.Equal(t, "000123", m.Rows[0][0])
}

func TestLoadDatasetMissingColumnsFailsAtLookup(t *testing.T) {
	svc := newTestService(t, WithCanonicalKeys(true))

	tbl, err := svc.LoadDataset(strings.NewReader("Barcode,Title\n000123,Dune\n"), "books.csv")
	require.NoError(t, err)

	_, err = svc.Lookup(tbl, "123")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrColumnMissing))
}

func TestCustomSchema(t *testing.T) {
	svc := newTestService(t, WithSchema(catalog.Schema{AccessionColumn: "Barcode", TitleColumn: "Title"}))

	tbl, err := svc.LoadDataset(strings.NewReader("Barcode\tTitle\n001234\tEmma\n"), "books.tsv")
	require.NoError(t, err)

	m, err := svc.Lookup(tbl, "1234")
	require.NoError(t, err)
	assert.Equal(t, "Emma", m.Title)
}

func TestSaveRejectsInvalidAnnotation(t *testing.T) {
	svc := newTestService(t)

	tbl, err := svc.LoadDataset(strings.NewReader("Acc No,Ttitle\n000123,Dune\n"), "books.csv")
	require.NoError(t, err)
	m, err := svc.Lookup(tbl, "123")
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), m, annotation.Annotation{StudentRating: 6, TeacherRating: 1})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	assert.NoFileExists(t, svc.Store().Path())
}

func TestLookupRejectsBlankAccession(t *testing.T) {
	svc := newTestService(t)

	tbl, err := svc.LoadDataset(strings.NewReader("Acc No,Ttitle\n,Dune\n,Emma\n000123,Dune\n"), "books.csv")
	require.NoError(t, err)

	for _, input := range []string{"", "   "} {
		m, err := svc.Lookup(tbl, input)
		assert.Nil(t, m)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "input %q: got %v", input, err)
	}
}

func TestExportBeforeAnySave(t *testing.T) {
	_, err := newTestService(t).Export(context.Background())
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
