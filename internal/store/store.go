// Package store persists annotated records to an append-only CSV file.
//
// The file is created with a header on the first save; later saves append rows
// only. Rows are never rewritten, deduplicated or deleted. Appends from this
// process are serialized by a mutex and appends from other processes by an
// advisory lock on a sibling .lock file.
package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"

	domainerrors "github.com/lehigh-university-libraries/accessioner/internal/errors"
)

// DefaultPath is the store location used when none is configured.
const DefaultPath = "library_records_updated.csv"

const lockRetryDelay = 50 * time.Millisecond

// Store is an append-only CSV dataset at a fixed path.
type Store struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// Result describes one Append.
type Result struct {
	Created     bool `json:"created"`
	RowsWritten int  `json:"rows_written"`
}

// New returns a Store for path. Nothing is touched on disk until the first
// Append.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Append writes rows to the store. A missing or empty store is created with
// header first; an existing store gets rows only, positionally, even when its
// header differs from header.
func (s *Store) Append(ctx context.Context, header []string, rows [][]string) (Result, error) {
	var result Result

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return result, err
	}
	defer unlock()

	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist) || (err == nil && info.Size() == 0):
		result.Created = true
	case err != nil:
		return result, domainerrors.Wrapf(err, domainerrors.CodePersistenceFailure, "failed to stat store %s", s.path)
	}

	if result.Created {
		err = s.create(header, rows)
	} else {
		err = s.appendRows(header, rows)
	}
	if err != nil {
		return result, domainerrors.Wrapf(err, domainerrors.CodePersistenceFailure, "failed to append to store %s", s.path)
	}

	result.RowsWritten = len(rows)
	slog.Info("Records appended to store", "path", s.path, "rows", result.RowsWritten, "created", result.Created)

	return result, nil
}

func (s *Store) create(header []string, rows [][]string) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	records = append(records, rows...)

	return writeAndClose(f, records)
}

func (s *Store) appendRows(header []string, rows [][]string) error {
	existing, err := s.readHeader()
	if err != nil {
		return fmt.Errorf("failed to read existing header: %w", err)
	}
	if !slices.Equal(existing, header) {
		slog.Warn("Store header differs from record fields; appending positionally",
			"path", s.path, "store_columns", existing, "record_columns", header)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	// A store edited by hand may lack its final newline.
	if missing, err := missingTrailingNewline(s.path); err != nil {
		f.Close()
		return err
	} else if missing {
		if _, err := f.WriteString("\n"); err != nil {
			f.Close()
			return err
		}
	}

	return writeAndClose(f, rows)
}

func writeAndClose(f *os.File, records [][]string) error {
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) readHeader() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	return header, err
}

func missingTrailingNewline(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// ReadAll re-reads the whole store from disk. A store that does not exist yet
// yields a NotFound error.
func (s *Store) ReadAll(ctx context.Context) ([]string, [][]string, error) {
	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, domainerrors.NotFoundf("store %s has no saved records yet", s.path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, domainerrors.Wrapf(err, domainerrors.CodeParseFailure, "failed to read store %s", s.path)
	}
	if len(records) == 0 {
		return nil, nil, domainerrors.NotFoundf("store %s has no saved records yet", s.path)
	}

	slog.Debug("Store read", "path", s.path, "rows", len(records)-1)
	return records[0], records[1:], nil
}

// Export writes the whole current store to w as UTF-8 CSV, header first.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	header, rows, err := s.ReadAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write export rows: %w", err)
	}
	return nil
}

// acquire takes the in-process mutex and then the file lock, shared when
// shared is true. The returned func releases both.
func (s *Store) acquire(ctx context.Context, shared bool) (func(), error) {
	s.mu.Lock()

	var locked bool
	var err error
	if shared {
		locked, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil || !locked {
		s.mu.Unlock()
		if err == nil {
			err = fmt.Errorf("lock %s not acquired", s.lock.Path())
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodePersistenceFailure, "failed to lock store")
	}

	return func() {
		if err := s.lock.Unlock(); err != nil {
			slog.Error("Unable to release store lock", "path", s.lock.Path(), "err", err)
		}
		s.mu.Unlock()
	}, nil
}
