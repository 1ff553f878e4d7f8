package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrCycle        = errors.New("move would create a cycle")
	ErrCorruptTree  = errors.New("folder tree is corrupt")
	ErrStorage      = errors.New("object storage failure")
	ErrPartialBatch = errors.New("batch partially failed")
	ErrTxConflict   = errors.New("transaction conflicted with a concurrent write")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found (or is not visible to the caller)
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates an edit attempted without a resolved grant
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Is implementations so typed errors match their sentinels
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// NewNotFound builds a NotFoundError for a resource kind and id.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("%s %s not found", kind, id)}
}

// NewValidation builds a ValidationError from a format string.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NewForbidden builds a ForbiddenError from a format string.
func NewForbidden(format string, args ...interface{}) *ForbiddenError {
	return &ForbiddenError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, file)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// CycleError is returned when a move target is the folder itself or one of its descendants.
// No mutation has happened when this error is returned.
type CycleError struct {
	FolderID string
	TargetID string
}

func (e *CycleError) Error() string {
	if e.FolderID == e.TargetID {
		return fmt.Sprintf("cannot move folder %s into itself", e.FolderID)
	}
	return fmt.Sprintf("cannot move folder %s into its descendant %s", e.FolderID, e.TargetID)
}

func (e *CycleError) StatusCode() int      { return http.StatusConflict }
func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// CorruptTreeError signals a structural integrity failure in parent_id data
// (a cycle or a chain deeper than the hop bound). It requires administrative
// repair and must never be swallowed.
type CorruptTreeError struct {
	FolderID string
	Hops     int
	Detail   string
}

func (e *CorruptTreeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("corrupt folder tree at %s: %s", e.FolderID, e.Detail)
	}
	return fmt.Sprintf("corrupt folder tree at %s: ancestor chain exceeds %d hops", e.FolderID, e.Hops)
}

func (e *CorruptTreeError) StatusCode() int      { return http.StatusInternalServerError }
func (e *CorruptTreeError) Is(target error) bool { return target == ErrCorruptTree }

// StorageError wraps an object-store failure (unreachable, write or remove failure).
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error        { return e.Err }
func (e *StorageError) StatusCode() int      { return http.StatusBadGateway }
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// TxConflictError is returned when the metadata store aborted a transaction
// because of a concurrent write (serialization failure or deadlock). The
// transaction can be retried from the start.
type TxConflictError struct {
	Err error
}

func (e *TxConflictError) Error() string {
	return fmt.Sprintf("transaction conflict: %v", e.Err)
}

func (e *TxConflictError) Unwrap() error        { return e.Err }
func (e *TxConflictError) StatusCode() int      { return http.StatusConflict }
func (e *TxConflictError) Is(target error) bool { return target == ErrTxConflict }

// ItemFailure describes why a single item in a batch failed.
type ItemFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult is the per-item outcome of a multi-item operation.
// StorageFailures lists items whose metadata was removed but whose stored
// object could not be; those items still count as succeeded.
type BatchResult struct {
	Succeeded       []string      `json:"succeeded"`
	Failed          []ItemFailure `json:"failed"`
	StorageFailures []ItemFailure `json:"storage_failures"`
}

// NewBatchResult returns an empty result with non-nil slices (stable JSON).
func NewBatchResult() *BatchResult {
	return &BatchResult{
		Succeeded:       []string{},
		Failed:          []ItemFailure{},
		StorageFailures: []ItemFailure{},
	}
}

// Succeed records a successful item.
func (r *BatchResult) Succeed(id string) {
	r.Succeeded = append(r.Succeeded, id)
}

// Fail records a failed item.
func (r *BatchResult) Fail(id string, err error) {
	r.Failed = append(r.Failed, ItemFailure{ID: id, Reason: err.Error()})
}

// StorageFail records a storage removal failure for an item.
func (r *BatchResult) StorageFail(id string, err error) {
	r.StorageFailures = append(r.StorageFailures, ItemFailure{ID: id, Reason: err.Error()})
}

// Err returns a *PartialBatchFailure when any item failed, nil otherwise.
func (r *BatchResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return &PartialBatchFailure{Result: r}
}

// PartialBatchFailure is returned by batch operations where some items failed.
// The full per-item result is attached.
type PartialBatchFailure struct {
	Result *BatchResult
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("%d of %d items failed", len(e.Result.Failed), len(e.Result.Failed)+len(e.Result.Succeeded))
}

func (e *PartialBatchFailure) StatusCode() int      { return http.StatusMultiStatus }
func (e *PartialBatchFailure) Is(target error) bool { return target == ErrPartialBatch }
