package extract

import "fmt"

// StoragePathNotFoundError is raised when an operation addresses an
// extract_id whose staging directory does not exist.
type StoragePathNotFoundError struct {
	Path string
}

func (e *StoragePathNotFoundError) Error() string {
	return fmt.Sprintf("extract storage: path not found: %s", e.Path)
}

// AtomicRenameFailedError wraps an os.Rename failure during commit; the
// staging directory is left intact so a later pass can retry (spec.md §4.D
// failure semantics).
type AtomicRenameFailedError struct {
	Source, Dest string
	Err          error
}

func (e *AtomicRenameFailedError) Error() string {
	return fmt.Sprintf("extract storage: atomic rename %s -> %s failed: %v", e.Source, e.Dest, e.Err)
}

func (e *AtomicRenameFailedError) Unwrap() error { return e.Err }

// WriterFlushFailedError wraps a failure flushing a staged writer's buffer
// to disk before commit.
type WriterFlushFailedError struct {
	Schema, Table, WriterID string
	Err                     error
}

func (e *WriterFlushFailedError) Error() string {
	return fmt.Sprintf("extract storage: flush failed for %s.%s.%s: %v", e.Schema, e.Table, e.WriterID, e.Err)
}

func (e *WriterFlushFailedError) Unwrap() error { return e.Err }
