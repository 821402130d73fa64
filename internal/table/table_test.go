package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Acc No", "Acc_No"},
		{"  Acc. No.  ", "Acc_No"},
		{"Ttitle", "Ttitle"},
		{"Call No. (Local)", "Call_No_(Local)"},
		{"Rack  Location", "Rack__Location"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeColumn(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeColumn(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeColumnsDuplicatesAndBlanks(t *testing.T) {
	columns := NormalizeColumns([]string{"Acc No", "Ttitle", "Acc No", "", "Acc No"})
	assert.Equal(t, []string{"Acc_No", "Ttitle", "Acc_No1", "Unnamed:_3", "Acc_No2"}, columns)
}

func TestNormalizeColumnsCollisionsAfterNormalization(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		expected []string
	}{
		{"space and underscore", []string{"Acc No", "Acc_No", "Ttitle"}, []string{"Acc_No", "Acc_No1", "Ttitle"}},
		{"period dropped", []string{"Acc. No", "Acc No"}, []string{"Acc_No", "Acc_No1"}},
		{"suffix already taken", []string{"Acc_No1", "Acc No", "Acc No"}, []string{"Acc_No1", "Acc_No", "Acc_No2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeColumns(tt.header))
		})
	}
}

func TestNewKeepsCellsOfCollidingColumns(t *testing.T) {
	tbl := New([]string{"Acc No", "Acc_No", "Ttitle"}, [][]string{{"000123", "999999", "Dune"}})

	assert.Equal(t, []string{"Acc_No", "Acc_No1", "Ttitle"}, tbl.Columns)
	assert.Equal(t, [][]string{{"000123", "999999", "Dune"}}, tbl.Records())
	assert.Equal(t, "000123", tbl.Rows[0]["Acc_No"])
}

func TestNewPadsAndTruncatesRecords(t *testing.T) {
	tbl := New([]string{"Acc No", "Ttitle", "Author"}, [][]string{
		{"000123", "Dune"},
		{"000456", "Emma", "Austen", "extra"},
	})

	assert.Equal(t, []string{"Acc_No", "Ttitle", "Author"}, tbl.Columns)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, Row{"Acc_No": "000123", "Ttitle": "Dune", "Author": ""}, tbl.Rows[0])
	assert.Equal(t, []string{"000456", "Emma", "Austen"}, tbl.Values(tbl.Rows[1]))
}

func TestHasColumn(t *testing.T) {
	tbl := New([]string{"Acc. No"}, nil)

	assert.True(t, tbl.HasColumn("Acc_No"))
	assert.False(t, tbl.HasColumn("Acc. No"))
}

func TestHead(t *testing.T) {
	tbl := New([]string{"a"}, [][]string{{"1"}, {"2"}, {"3"}})

	assert.Equal(t, 2, tbl.Head(2).Len())
	assert.Equal(t, 3, tbl.Head(10).Len())
	assert.Equal(t, 0, tbl.Head(-1).Len())
	assert.Equal(t, [][]string{{"1"}, {"2"}}, tbl.Head(2).Records())
}
