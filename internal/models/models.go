package models

import (
	"time"

	"github.com/lehigh-university-libraries/accessioner/internal/table"
)

// Session represents one uploaded dataset a librarian is working through
type Session struct {
	ID        string       `json:"id"`
	Filename  string       `json:"filename"`
	Columns   []string     `json:"columns"`
	RowCount  int          `json:"row_count"`
	CreatedAt time.Time    `json:"created_at"`
	Table     *table.Table `json:"-"`
}

// UploadResponse is returned after a dataset upload
type UploadResponse struct {
	SessionID string     `json:"session_id"`
	Message   string     `json:"message"`
	Filename  string     `json:"filename"`
	Columns   []string   `json:"columns"`
	RowCount  int        `json:"row_count"`
	Preview   [][]string `json:"preview"`
}

// LookupResponse carries the rows matching an accession number
type LookupResponse struct {
	Key     string     `json:"key"`
	Title   string     `json:"title"`
	Copies  int        `json:"no_of_copies"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// SaveResponse reports an appended annotation
type SaveResponse struct {
	Message     string `json:"message"`
	RowsWritten int    `json:"rows_written"`
	Created     bool   `json:"created"`
	DownloadURL string `json:"download_url"`
}
