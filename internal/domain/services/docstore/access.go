package docstore

import (
	"context"

	"opsconsole/internal/domain/models/docstore"
)

// AccessService resolves what a principal can see and edit
type AccessService interface {
	// ListRoots returns the root view for the principal's class. A client or
	// prospect without a personal root gets Provisioning=true, not an error.
	ListRoots(ctx context.Context, p *docstore.Principal) (*docstore.RootListing, error)

	// AccessibleTree returns the ancestor-complete set of visible folders,
	// sorted by (sort_order, name, id) and annotated with edit rights
	AccessibleTree(ctx context.Context, p *docstore.Principal) ([]docstore.AccessibleFolder, error)

	// CanEdit reports whether the principal may mutate the folder's contents
	CanEdit(ctx context.Context, p *docstore.Principal, folderID string) (bool, error)
}
