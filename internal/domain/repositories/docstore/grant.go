package docstore

import (
	"context"

	"opsconsole/internal/domain/models/docstore"
)

// GrantRepository defines data access for edit grants
type GrantRepository interface {
	// ListByUser returns every explicit folder grant held by a user
	ListByUser(ctx context.Context, userID string) ([]docstore.FolderGrant, error)

	// Get returns the grant for a (user, folder) pair, nil if absent
	Get(ctx context.Context, userID, folderID string) (*docstore.FolderGrant, error)

	// HasGlobalEdit reports whether the user holds the document-store-wide edit grant
	HasGlobalEdit(ctx context.Context, userID string) (bool, error)

	// Upsert creates or replaces a folder grant
	Upsert(ctx context.Context, grant *docstore.FolderGrant) error

	// SetGlobalEdit grants or revokes the document-store-wide edit grant
	SetGlobalEdit(ctx context.Context, userID string, canEdit bool) error

	// DeleteByFolderIDs removes grants attached to deleted folders
	DeleteByFolderIDs(ctx context.Context, folderIDs []string) error
}
