package browser

import (
	"context"

	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
)

// ServiceBackend binds the document store services to one principal
type ServiceBackend struct {
	Principal *models.Principal
	Access    docstoreSvc.AccessService
	Folder    docstoreSvc.FolderService
	Item      docstoreSvc.ItemService
}

func (b *ServiceBackend) ListRoots(ctx context.Context) (*models.RootListing, error) {
	return b.Access.ListRoots(ctx, b.Principal)
}

func (b *ServiceBackend) ListChildren(ctx context.Context, folderID string) (*models.FolderContents, error) {
	return b.Folder.ListChildren(ctx, b.Principal, folderID)
}

func (b *ServiceBackend) Breadcrumbs(ctx context.Context, folderID string) ([]models.Folder, error) {
	return b.Folder.Breadcrumbs(ctx, b.Principal, folderID)
}

func (b *ServiceBackend) AccessibleTree(ctx context.Context) ([]models.AccessibleFolder, error) {
	return b.Access.AccessibleTree(ctx, b.Principal)
}

func (b *ServiceBackend) Move(ctx context.Context, items []models.ItemRef, targetFolderID string) (*domain.BatchResult, error) {
	return b.Item.Move(ctx, b.Principal, &docstoreSvc.MoveRequest{Items: items, TargetFolderID: targetFolderID})
}
