package docstore

import (
	"context"

	"opsconsole/internal/domain/models/docstore"
)

// FolderService handles folder creation and navigation
type FolderService interface {
	// CreateFolder creates a folder under ParentID (nil creates a root)
	CreateFolder(ctx context.Context, p *docstore.Principal, req *CreateFolderRequest) (*docstore.Folder, error)

	// ListChildren lists a visible folder's child folders and files
	ListChildren(ctx context.Context, p *docstore.Principal, folderID string) (*docstore.FolderContents, error)

	// UpdateFolder changes display fields only; names change through Rename
	UpdateFolder(ctx context.Context, p *docstore.Principal, folderID string, req *UpdateFolderRequest) (*docstore.Folder, error)

	// Breadcrumbs returns root → … → folder
	Breadcrumbs(ctx context.Context, p *docstore.Principal, folderID string) ([]docstore.Folder, error)

	// ProvisionPersonalRoot creates a client or prospect's personal root.
	// Idempotent: an existing personal root is returned unchanged.
	ProvisionPersonalRoot(ctx context.Context, req *ProvisionRootRequest) (*docstore.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	ParentID *string           `json:"parent_id,omitempty"` // null for root
	Name     string            `json:"name"`
	Category docstore.Category `json:"category,omitempty"` // roots only; children inherit
	Color    *string           `json:"color,omitempty"`    // overrides the inherited color
	Icon     *string           `json:"icon,omitempty"`
}

// ProvisionRootRequest creates a personal root for a user
type ProvisionRootRequest struct {
	UserID   string            `json:"user_id"`
	Name     string            `json:"name"`
	Category docstore.Category `json:"category,omitempty"`
	CanEdit  bool              `json:"can_edit"`
}

// OptionalText is a tri-state update field:
//   - Present=false: leave unchanged
//   - Present=true, Value=nil: clear
//   - Present=true, Value=&"x": set
//
// Transport-agnostic; handlers map it from httputil.OptionalString.
type OptionalText struct {
	Present bool
	Value   *string
}

// UpdateFolderRequest is a partial display update
type UpdateFolderRequest struct {
	Color     OptionalText
	Icon      OptionalText
	SortOrder *int
}
