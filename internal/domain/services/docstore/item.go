package docstore

import (
	"context"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

// ItemService handles operations that accept folders and files alike.
// Multi-item operations never abort on one item's failure; they return a
// per-item result and, when anything failed, a *domain.PartialBatchFailure.
type ItemService interface {
	// Rename renames one folder or file. Renaming a folder recomputes the
	// materialized path of the folder and its descendants.
	Rename(ctx context.Context, p *docstore.Principal, req *RenameRequest) (*RenameResult, error)

	// Move re-parents folders and reassigns files to the target folder
	Move(ctx context.Context, p *docstore.Principal, req *MoveRequest) (*domain.BatchResult, error)

	// Delete removes folders (with their whole subtree) and files
	Delete(ctx context.Context, p *docstore.Principal, req *DeleteRequest) (*domain.BatchResult, error)
}

// RenameRequest renames one item
type RenameRequest struct {
	ItemID   string `json:"item_id"`
	IsFolder bool   `json:"is_folder"`
	Name     string `json:"name"`
}

// RenameResult carries the renamed record
type RenameResult struct {
	Folder *docstore.Folder `json:"folder,omitempty"`
	File   *docstore.File   `json:"file,omitempty"`
}

// MoveRequest moves items into a target folder
type MoveRequest struct {
	Items          []docstore.ItemRef `json:"items"`
	TargetFolderID string             `json:"target_folder_id"`
}

// DeleteRequest deletes items
type DeleteRequest struct {
	Items []docstore.ItemRef `json:"items"`
}
