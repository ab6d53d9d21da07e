package history

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Storage.Get for unknown IDs.
var ErrNotFound = errors.New("history record not found")

// StorageError is an error from a storage backend.
type StorageError struct {
	Backend   string // "sqlite", "postgres", "memory"
	Operation string // "store", "query", "delete", ...
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// RecorderError is an error while queueing a record.
type RecorderError struct {
	RecordID string
	Cause    error
}

func (e *RecorderError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("recorder error [record_id=%s]: %v", e.RecordID, e.Cause)
	}
	return fmt.Sprintf("recorder error: %v", e.Cause)
}

func (e *RecorderError) Unwrap() error {
	return e.Cause
}

// RetentionError is an error while enforcing retention.
type RetentionError struct {
	RetentionDays int
	MaxRecords    int64
	Cause         error
}

func (e *RetentionError) Error() string {
	return fmt.Sprintf("retention error [retention_days=%d, max_records=%d]: %v", e.RetentionDays, e.MaxRecords, e.Cause)
}

func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// ExportError is an error while exporting records.
type ExportError struct {
	Format      string
	RecordCount int
	Cause       error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, record_count=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates an ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{Format: format, RecordCount: recordCount, Cause: cause}
}
