package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError means the request itself is malformed. It is raised before
// any storage or metadata call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing file record.
type NotFoundError struct {
	ID        uuid.UUID
	ObjectKey string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file record %s (key %q) not found", e.ID, e.ObjectKey)
}

// FileResult is the per-file outcome of a batch operation.
type FileResult struct {
	FileID    uuid.UUID `json:"fileId"`
	ObjectKey string    `json:"objectKey"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
}

// PartialBatchError is returned when some files in a batch succeeded and
// others failed. It carries the full per-file result list; the batch outcome
// is never collapsed into a single status.
type PartialBatchError struct {
	Results []FileResult
}

func (e *PartialBatchError) Error() string {
	var failed []string
	for _, r := range e.Results {
		if r.Error != "" {
			failed = append(failed, fmt.Sprintf("%s: %s", r.FileID, r.Error))
		}
	}
	return fmt.Sprintf("batch partially failed (%d/%d): %s",
		len(failed), len(e.Results), strings.Join(failed, "; "))
}
