package docstore

import (
	"log/slog"

	"opsconsole/internal/config"
	"opsconsole/internal/domain/repositories"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/objectstore"
)

// Repositories groups the metadata store implementations
type Repositories struct {
	Folders   docstoreRepo.FolderRepository
	Files     docstoreRepo.FileRepository
	Grants    docstoreRepo.GrantRepository
	TxManager repositories.TransactionManager
}

// Services holds all document store services
type Services struct {
	Access      docstoreSvc.AccessService
	Folder      docstoreSvc.FolderService
	Item        docstoreSvc.ItemService
	File        docstoreSvc.FileService
	Search      docstoreSvc.SearchService
	Maintenance docstoreSvc.MaintenanceService
}

// SetupServices wires the services over one metadata store and one object
// store. Every mutating service shares a single PathLocker.
func SetupServices(
	repos Repositories,
	objects objectstore.Store,
	cfg *config.Config,
	policy *config.AccessPolicy,
	logger *slog.Logger,
) *Services {
	resolver := NewPermissionResolver(repos.Grants, policy)
	loader := NewSubtreeLoader(repos.Folders, resolver, policy, logger)
	locker := NewPathLocker()

	return &Services{
		Access: NewAccessService(repos.Folders, loader, policy, logger),
		Folder: NewFolderService(repos.Folders, repos.Files, repos.Grants, repos.TxManager,
			loader, resolver, locker, policy, logger),
		Item: NewItemService(repos.Folders, repos.Files, repos.Grants, objects, repos.TxManager,
			loader, locker, logger),
		File:        NewFileService(repos.Files, objects, loader, cfg.MaxUploadBytes, cfg.SignedURLTTL, logger),
		Search:      NewSearchService(repos.Folders, repos.Files, loader),
		Maintenance: NewMaintenanceService(repos.Folders, repos.Files, repos.Grants, objects, repos.TxManager, locker, logger),
	}
}
