package extract

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// writerKey identifies one staged output file by routing metadata, per
// spec.md §6's stem(schema, table, writer_id) template.
type writerKey struct {
	Schema, Table, WriterID string
}

func (k writerKey) filename() string {
	return fmt.Sprintf("%s.%s.%s", k.Schema, k.Table, k.WriterID)
}

// Storage is the extraction spool (spec.md §4.D / §6): a root directory
// holding one staging subdirectory per in-flight extract, with a sibling
// normalize-input directory files are committed into. It is the Go
// rendering of the original's ExtractorStorage.
type Storage struct {
	Root string

	mu        sync.Mutex
	extractID string
	writers   map[writerKey]*bufio.Writer
	files     map[writerKey]*os.File
}

// NewStorage builds a Storage rooted at root, creating the extract/ and
// normalize/ subdirectories if they don't exist.
func NewStorage(root string) (*Storage, error) {
	for _, sub := range []string{"extract", "normalize"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return &Storage{Root: root}, nil
}

// NewExtractID allocates a fresh extract_id and its staging subdirectory
// (spec.md §4.D step 1).
func (s *Storage) NewExtractID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	if err := os.MkdirAll(s.stagingDir(id), 0o755); err != nil {
		return "", err
	}
	s.extractID = id
	s.writers = map[writerKey]*bufio.Writer{}
	s.files = map[writerKey]*os.File{}
	return id, nil
}

// ExtractID returns the most recently allocated extract_id, empty if
// NewExtractID has never been called.
func (s *Storage) ExtractID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extractID
}

func (s *Storage) stagingDir(extractID string) string {
	return filepath.Join(s.Root, "extract", extractID)
}

// WriteItem appends one puae-jsonl line to the writer for (schema, table,
// writerID), opening the staged file lazily on first use.
func (s *Storage) WriteItem(schema, table, writerID string, item map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := writerKey{Schema: schema, Table: table, WriterID: writerID}
	w, ok := s.writers[key]
	if !ok {
		path := filepath.Join(s.stagingDir(s.extractID), key.filename())
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return &StoragePathNotFoundError{Path: path}
		}
		w = bufio.NewWriter(f)
		s.writers[key] = w
		s.files[key] = f
	}

	line, err := json.Marshal(EncodeItem(item))
	if err != nil {
		return &WriterFlushFailedError{Schema: schema, Table: table, WriterID: writerID, Err: err}
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return &WriterFlushFailedError{Schema: schema, Table: table, WriterID: writerID, Err: err}
	}
	return nil
}

// Flush flushes every open writer's buffer to its underlying file, the
// barrier spec.md §4.D step 4 runs before commit. A failure on one writer
// does not stop the others from flushing; every failure is aggregated into
// the returned error via multierr so a caller sees every lost write, not
// just the first.
func (s *Storage) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs error
	for key, w := range s.writers {
		if err := w.Flush(); err != nil {
			errs = multierr.Append(errs, &WriterFlushFailedError{Schema: key.Schema, Table: key.Table, WriterID: key.WriterID, Err: err})
		}
	}
	return errs
}

func (s *Storage) closeAll() error {
	var errs error
	for _, f := range s.files {
		if cerr := f.Close(); cerr != nil {
			errs = multierr.Append(errs, cerr)
		}
	}
	return errs
}

// Commit atomically renames every staged file into normalize/ and then
// removes the (now empty) staging directory. Matches ExtractorStorage's
// with_delete=true mode (spec.md SUPPLEMENTED FEATURES).
func (s *Storage) Commit() ([]string, error) {
	return s.commit(true)
}

// CommitLinked hard-links every staged file into normalize/ instead of
// renaming, and leaves the staging directory in place. Matches
// ExtractorStorage's with_delete=false mode.
func (s *Storage) CommitLinked() ([]string, error) {
	return s.commit(false)
}

func (s *Storage) commit(withDelete bool) ([]string, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeAll(); err != nil {
		return nil, err
	}

	staging := s.stagingDir(s.extractID)
	entries, err := os.ReadDir(staging)
	if err != nil {
		return nil, &StoragePathNotFoundError{Path: staging}
	}

	var committed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(staging, entry.Name())
		dst := filepath.Join(s.Root, "normalize", entry.Name())

		if withDelete {
			if err := os.Rename(src, dst); err != nil {
				return committed, &AtomicRenameFailedError{Source: src, Dest: dst, Err: err}
			}
		} else {
			if err := os.Link(src, dst); err != nil {
				return committed, &AtomicRenameFailedError{Source: src, Dest: dst, Err: err}
			}
		}
		committed = append(committed, entry.Name())
	}

	if withDelete {
		if err := os.Remove(staging); err != nil {
			return committed, err
		}
	}
	return committed, nil
}
