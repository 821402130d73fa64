package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
)

// Format identifies how an uploaded dataset is delimited.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// SupportedExtensions lists the upload extensions the loader accepts.
var SupportedExtensions = []string{".csv", ".xlsx", ".xls", ".tsv"}

const utf8BOM = "\ufeff"

// DetectFormat maps a file name's extension to a Format.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", domainerrors.UnsupportedFormatf("unsupported file format: %q (supported: %s)", ext, strings.Join(SupportedExtensions, ", "))
	}
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Table, error) {
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	return Load(file, filepath.Base(path))
}

// Load parses r according to filename's extension and normalizes the column
// labels. Unknown extensions fail with an UnsupportedFormat error and content
// that does not parse fails with a ParseFailure error.
func Load(r io.Reader, filename string) (*Table, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loading dataset", "filename", filename, "format", format)

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = readDelimited(r, ',')
	case FormatTSV:
		rows, err = readDelimited(r, '\t')
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatXLS:
		rows, err = readXLS(r)
	}
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeParseFailure, "failed to parse %s as %s", filename, format)
	}

	if len(rows) == 0 {
		return nil, domainerrors.Wrapf(io.ErrUnexpectedEOF, domainerrors.CodeParseFailure, "failed to parse %s: no header row", filename)
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	t := New(header, rows[1:])
	slog.Debug("Dataset loaded", "filename", filename, "columns", len(t.Columns), "rows", t.Len())

	return t, nil
}

// readDelimited reads comma or tab separated text. Rows may be shorter than the
// header but not longer.
func readDelimited(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 && len(record) > len(rows[0]) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(rows[0]), len(record))
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// readXLSX reads the first worksheet of an OOXML workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return trimLeadingBlankRows(rows), nil
}

// readXLS reads the first worksheet of a legacy BIFF workbook.
func readXLS(r io.Reader) (rows [][]string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	// The BIFF reader panics on some truncated files.
	defer func() {
		if p := recover(); p != nil {
			rows = nil
			err = fmt.Errorf("corrupt workbook: %v", p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no readable sheet")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return trimLeadingBlankRows(rows), nil
}

// sheetRow returns row i, or nil when the sheet holds no record for it.
// WorkSheet.Row dereferences a nil row in that case.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func trimLeadingBlankRows(rows [][]string) [][]string {
	for len(rows) > 0 && isBlank(rows[0]) {
		rows = rows[1:]
	}
	return rows
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
