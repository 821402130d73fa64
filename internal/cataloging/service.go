// Package cataloging runs the accession workflow: load a dataset, look up a
// copy by accession number, annotate it, append it to the store and hand the
// whole store back for download.
package cataloging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/accessioner/internal/accession"
	"github.com/lehigh-university-libraries/accessioner/internal/annotation"
	"github.com/lehigh-university-libraries/accessioner/internal/catalog"
	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
	"github.com/lehigh-university-libraries/accessioner/internal/store"
	"github.com/lehigh-university-libraries/accessioner/internal/table"
)

const (
	DownloadFilename    = "library_records_updated.csv"
	DownloadContentType = "text/csv"
)

// Download is a file offered back to the librarian.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SaveResult reports an appended annotation and the store contents after it.
type SaveResult struct {
	store.Result
	Download *Download
}

type Service struct {
	schema        catalog.Schema
	canonicalKeys bool
	store         *store.Store
}

// Option configures a Service.
type Option func(*Service)

// WithSchema overrides catalog.DefaultSchema.
func WithSchema(schema catalog.Schema) Option {
	return func(s *Service) {
		s.schema = schema
	}
}

// WithCanonicalKeys zero-pads the accession column of every loaded dataset.
func WithCanonicalKeys(enabled bool) Option {
	return func(s *Service) {
		s.canonicalKeys = enabled
	}
}

func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		schema: catalog.DefaultSchema,
		store:  st,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the service's output store.
func (s *Service) Store() *store.Store {
	return s.store
}

// LoadDataset parses an uploaded dataset. Missing schema columns do not fail
// the upload; they surface on the first lookup.
func (s *Service) LoadDataset(r io.Reader, filename string) (*table.Table, error) {
	t, err := table.Load(r, filename)
	if err != nil {
		return nil, err
	}

	if s.canonicalKeys {
		s.canonicalize(t)
	}

	slog.Info("Dataset loaded", "filename", filename, "rows", t.Len(), "columns", len(t.Columns))
	return t, nil
}

// LoadDatasetFile is LoadDataset for a file on disk.
func (s *Service) LoadDatasetFile(path string) (*table.Table, error) {
	t, err := table.LoadFile(path)
	if err != nil {
		return nil, err
	}

	if s.canonicalKeys {
		s.canonicalize(t)
	}

	slog.Info("Dataset loaded", "path", path, "rows", t.Len(), "columns", len(t.Columns))
	return t, nil
}

func (s *Service) canonicalize(t *table.Table) {
	changed, err := catalog.CanonicalizeKeys(t, s.schema)
	if err != nil {
		slog.Debug("Skipping accession key canonicalization", "err", err)
		return
	}
	if changed > 0 {
		slog.Debug("Accession keys zero-padded", "column", s.schema.AccessionColumn, "changed", changed)
	}
}

// Lookup normalizes the entered accession number and finds its rows in t.
// Blank input is rejected rather than matched against blank cells.
func (s *Service) Lookup(t *table.Table, input string) (*catalog.Match, error) {
	if strings.TrimSpace(input) == "" {
		return nil, domainerrors.Validationf("accession number is required")
	}

	key := accession.Normalize(input)
	if !accession.IsCanonical(key) {
		slog.Warn("Accession number is not six digits after normalization", "input", input, "key", key)
	}
	return catalog.Lookup(t, s.schema, key)
}

// Save annotates every row of m, appends them to the store and re-reads the
// whole store for download.
func (s *Service) Save(ctx context.Context, m *catalog.Match, a annotation.Annotation) (*SaveResult, error) {
	header, rows, err := annotation.Apply(m, a)
	if err != nil {
		return nil, err
	}

	result, err := s.store.Append(ctx, header, rows)
	if err != nil {
		return nil, err
	}

	download, err := s.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read store after save: %w", err)
	}

	return &SaveResult{Result: result, Download: download}, nil
}

// Export returns the whole current store as a CSV download.
func (s *Service) Export(ctx context.Context) (*Download, error) {
	var buf bytes.Buffer
	if err := s.store.Export(ctx, &buf); err != nil {
		return nil, err
	}
	return &Download{
		Filename:    DownloadFilename,
		ContentType: DownloadContentType,
		Data:        buf.Bytes(),
	}, nil
}
