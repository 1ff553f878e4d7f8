package docstore

import (
	"context"

	"opsconsole/internal/domain/models/docstore"
)

// FileRepository defines data access operations for file metadata
type FileRepository interface {
	// Create inserts a file record
	Create(ctx context.Context, file *docstore.File) error

	// GetByID retrieves a file by ID
	GetByID(ctx context.Context, id string) (*docstore.File, error)

	// ListByFolder lists files owned by a folder, ordered by name
	ListByFolder(ctx context.Context, folderID string) ([]docstore.File, error)

	// ListByFolderIDs lists files owned by any of the folders
	ListByFolderIDs(ctx context.Context, folderIDs []string) ([]docstore.File, error)

	// Update writes name and folder_id
	Update(ctx context.Context, file *docstore.File) error

	// Delete removes one file record
	Delete(ctx context.Context, id string) error

	// DeleteByIDs removes file records by id
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)

	// SearchByName returns files whose name contains query (case-insensitive)
	SearchByName(ctx context.Context, query string, limit int) ([]docstore.File, error)

	// ListStoragePaths returns every storage path referenced by a file record
	ListStoragePaths(ctx context.Context) ([]string, error)
}
