// Package objectstore holds file bytes. Keys are opaque storage paths
// generated by the file service; the metadata store owns the mapping from
// files to keys.
package objectstore

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned by Get when no object exists at the path.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored object as returned by List.
type ObjectInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// Store is the object storage boundary.
type Store interface {
	// Put writes data at path, replacing any existing object.
	Put(ctx context.Context, path string, data []byte, contentType string) error

	// Get reads the object at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Remove deletes objects in bulk. The map holds per-path failures
	// (empty when every removal succeeded); the error is reserved for
	// failures that prevented the batch from running at all.
	Remove(ctx context.Context, paths []string) (map[string]error, error)

	// SignedURL returns a time-limited download URL for path.
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)

	// List returns every object whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
