package docstore

import (
	"context"
	"log/slog"

	"opsconsole/internal/config"
	models "opsconsole/internal/domain/models/docstore"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
)

type accessService struct {
	folderRepo docstoreRepo.FolderRepository
	loader     *SubtreeLoader
	policy     *config.AccessPolicy
	logger     *slog.Logger
}

// NewAccessService creates the access service
func NewAccessService(
	folderRepo docstoreRepo.FolderRepository,
	loader *SubtreeLoader,
	policy *config.AccessPolicy,
	logger *slog.Logger,
) docstoreSvc.AccessService {
	return &accessService{
		folderRepo: folderRepo,
		loader:     loader,
		policy:     policy,
		logger:     logger,
	}
}

// ListRoots returns the root profile for the principal's class
func (s *accessService) ListRoots(ctx context.Context, p *models.Principal) (*models.RootListing, error) {
	if p.HasPersonalRoot() {
		rootID, err := s.folderRepo.GetPersonalRootID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if rootID == nil {
			s.logger.Debug("personal root not provisioned", "principal", p.ID, "class", p.Class)
			return &models.RootListing{Folders: []models.Folder{}, Provisioning: true}, nil
		}
		root, err := s.folderRepo.GetByID(ctx, *rootID)
		if err != nil {
			return nil, err
		}
		return &models.RootListing{Folders: []models.Folder{*root}}, nil
	}

	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	roots := []models.Folder{}
	for _, r := range view.Tree.Roots() {
		if !s.policy.IsHiddenRoot(r) {
			roots = append(roots, r)
		}
	}
	return &models.RootListing{Folders: roots}, nil
}

// AccessibleTree returns the ancestor-complete visible folder set
func (s *accessService) AccessibleTree(ctx context.Context, p *models.Principal) ([]models.AccessibleFolder, error) {
	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	return view.Accessible(), nil
}

// CanEdit reports edit rights on a visible folder; invisible folders are NotFound
func (s *accessService) CanEdit(ctx context.Context, p *models.Principal, folderID string) (bool, error) {
	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return false, err
	}
	if _, err := view.Folder(folderID); err != nil {
		return false, err
	}
	return view.Grants.CanEdit(folderID), nil
}
