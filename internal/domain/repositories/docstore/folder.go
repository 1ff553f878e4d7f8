package docstore

import (
	"context"

	"opsconsole/internal/domain/models/docstore"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a folder; ID and timestamps must already be set
	Create(ctx context.Context, folder *docstore.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*docstore.Folder, error)

	// GetByIDs retrieves the folders that exist among ids (missing ids are skipped)
	GetByIDs(ctx context.Context, ids []string) ([]docstore.Folder, error)

	// ListChildren lists immediate child folders; nil lists depth-0 folders
	ListChildren(ctx context.Context, parentID *string) ([]docstore.Folder, error)

	// ListAll retrieves every folder (flat list)
	ListAll(ctx context.Context) ([]docstore.Folder, error)

	// ListByPathPrefix returns folders whose path equals path or starts with path + "/"
	ListByPathPrefix(ctx context.Context, path string) ([]docstore.Folder, error)

	// ListAncestry returns the folder plus its parent chain, bounded by maxHops
	ListAncestry(ctx context.Context, id string, maxHops int) ([]docstore.Folder, error)

	// ListAccessible is the server-evaluated view "accessible folders including
	// ancestors" for a client/prospect principal: personal root subtree, granted
	// subtrees, and every ancestor of those
	ListAccessible(ctx context.Context, userID string) ([]docstore.Folder, error)

	// GetPersonalRootID returns the personal root folder id for a user, nil if none
	GetPersonalRootID(ctx context.Context, userID string) (*string, error)

	// Update writes the mutable display fields (name, color, icon, sort order)
	Update(ctx context.Context, folder *docstore.Folder) error

	// UpdateTreeFields writes name, parent_id, path, depth and category for each folder
	UpdateTreeFields(ctx context.Context, folders []docstore.Folder) error

	// LockSubtree takes row locks on the folder at path and its descendants
	// for the rest of the surrounding transaction
	LockSubtree(ctx context.Context, path string) error

	// DeleteByIDs removes folders by id
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)

	// SearchByName returns folders whose name contains query (case-insensitive)
	SearchByName(ctx context.Context, query string, limit int) ([]docstore.Folder, error)
}
