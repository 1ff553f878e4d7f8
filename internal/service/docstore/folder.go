package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"opsconsole/internal/config"
	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/domain/repositories"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/tree"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type folderService struct {
	folderRepo docstoreRepo.FolderRepository
	fileRepo   docstoreRepo.FileRepository
	grantRepo  docstoreRepo.GrantRepository
	txManager  repositories.TransactionManager
	loader     *SubtreeLoader
	resolver   *PermissionResolver
	guard      *subtreeGuard
	policy     *config.AccessPolicy
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo docstoreRepo.FolderRepository,
	fileRepo docstoreRepo.FileRepository,
	grantRepo docstoreRepo.GrantRepository,
	txManager repositories.TransactionManager,
	loader *SubtreeLoader,
	resolver *PermissionResolver,
	locker *PathLocker,
	policy *config.AccessPolicy,
	logger *slog.Logger,
) docstoreSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		grantRepo:  grantRepo,
		txManager:  txManager,
		loader:     loader,
		resolver:   resolver,
		guard:      newSubtreeGuard(folderRepo, txManager, locker, logger),
		policy:     policy,
		logger:     logger,
	}
}

// CreateFolder creates a folder. Children inherit category and color from
// their parent; roots are reserved for elevated principals.
func (s *folderService) CreateFolder(ctx context.Context, p *models.Principal, req *docstoreSvc.CreateFolderRequest) (*models.Folder, error) {
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	req.Name = normalizeName(req.Name)
	if err := validateCreateFolderRequest(req); err != nil {
		return nil, err
	}

	var folder models.Folder
	if req.ParentID == nil {
		if !s.resolver.IsElevated(p) {
			return nil, domain.NewForbidden("only administrators can create root folders")
		}
		if !s.policy.HasCategory(req.Category) {
			return nil, domain.NewValidation("unknown category %q", req.Category)
		}
		folder = tree.NewRoot(req.Name, req.Category)
		s.stamp(&folder, p.ID, req)
		if err := s.folderRepo.Create(ctx, &folder); err != nil {
			return nil, err
		}
	} else {
		view, err := s.loader.Load(ctx, p)
		if err != nil {
			return nil, err
		}
		if _, err := view.RequireEditable(*req.ParentID); err != nil {
			return nil, err
		}

		// the parent is re-read under its subtree lock so the child path
		// cannot be derived from a parent that is mid-move
		err = s.guard.run(ctx, []string{*req.ParentID}, func(txCtx context.Context) error {
			parent, err := s.folderRepo.GetByID(txCtx, *req.ParentID)
			if err != nil {
				return err
			}
			if err := tree.CheckChildDepth(*parent); err != nil {
				return err
			}
			folder = tree.NewChild(*parent, req.Name)
			s.stamp(&folder, p.ID, req)
			return s.folderRepo.Create(txCtx, &folder)
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("folder created",
		"folder_id", folder.ID,
		"path", folder.Path,
		"depth", folder.Depth,
		"principal", p.ID,
	)
	return &folder, nil
}

func (s *folderService) stamp(f *models.Folder, createdBy string, req *docstoreSvc.CreateFolderRequest) {
	now := time.Now().UTC()
	f.ID = uuid.NewString()
	f.CreatedBy = createdBy
	f.CreatedAt = now
	f.UpdatedAt = now
	if req.Color != nil {
		f.Color = *req.Color
	}
	if req.Icon != nil {
		f.Icon = *req.Icon
	}
}

// ListChildren returns a visible folder's child folders and files.
// Folders visible only as ancestors of a granted subtree list their visible
// children but no files.
func (s *folderService) ListChildren(ctx context.Context, p *models.Principal, folderID string) (*models.FolderContents, error) {
	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	folder, err := view.Folder(folderID)
	if err != nil {
		return nil, err
	}

	contents := &models.FolderContents{
		Folder:  &folder,
		Folders: view.Tree.Children(folderID),
		Files:   []models.File{},
		CanEdit: view.CanEdit(folderID),
	}
	if view.CanSeeContents(folderID) {
		files, err := s.fileRepo.ListByFolder(ctx, folderID)
		if err != nil {
			return nil, fmt.Errorf("list files in folder %s: %w", folderID, err)
		}
		contents.Files = files
	}
	return contents, nil
}

// UpdateFolder applies a partial display update to an editable folder
func (s *folderService) UpdateFolder(ctx context.Context, p *models.Principal, folderID string, req *docstoreSvc.UpdateFolderRequest) (*models.Folder, error) {
	if err := validateUpdateFolderRequest(req); err != nil {
		return nil, err
	}
	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	if _, err := view.RequireEditable(folderID); err != nil {
		return nil, err
	}

	// re-read so a concurrent rename is not reverted
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	applyText(&folder.Color, req.Color)
	applyText(&folder.Icon, req.Icon)
	if req.SortOrder != nil {
		folder.SortOrder = *req.SortOrder
	}
	folder.UpdatedAt = time.Now().UTC()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}
	s.logger.Info("folder updated", "folder_id", folder.ID, "principal", p.ID)
	return folder, nil
}

func applyText(dst *string, opt docstoreSvc.OptionalText) {
	if !opt.Present {
		return
	}
	if opt.Value == nil {
		*dst = ""
		return
	}
	*dst = *opt.Value
}

// Breadcrumbs returns root → … → folder
func (s *folderService) Breadcrumbs(ctx context.Context, p *models.Principal, folderID string) ([]models.Folder, error) {
	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	if !view.CanSee(folderID) {
		return nil, domain.NewNotFound("folder", folderID)
	}
	return view.Tree.Breadcrumb(folderID)
}

// ProvisionPersonalRoot creates the owned root for a client or prospect.
// The root is a system folder; CanEdit additionally grants edit on it.
func (s *folderService) ProvisionPersonalRoot(ctx context.Context, req *docstoreSvc.ProvisionRootRequest) (*models.Folder, error) {
	req.Name = normalizeName(req.Name)
	if req.Category == "" {
		req.Category = models.CategoryClients
	}
	err := validationError(validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxFolderNameLength),
			validation.Match(noSlash).Error("folder name cannot contain slashes"),
			sluggable,
		),
	))
	if err != nil {
		return nil, err
	}
	if !s.policy.HasCategory(req.Category) {
		return nil, domain.NewValidation("unknown category %q", req.Category)
	}

	var root *models.Folder
	created := false
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existingID, err := s.folderRepo.GetPersonalRootID(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if existingID != nil {
			root, err = s.folderRepo.GetByID(txCtx, *existingID)
			return err
		}

		f := tree.NewRoot(req.Name, req.Category)
		now := time.Now().UTC()
		owner := req.UserID
		f.ID = uuid.NewString()
		f.OwnerID = &owner
		f.IsSystem = true
		f.CreatedBy = req.UserID
		f.CreatedAt = now
		f.UpdatedAt = now
		if err := s.folderRepo.Create(txCtx, &f); err != nil {
			return err
		}
		if req.CanEdit {
			if err := s.grantRepo.Upsert(txCtx, &models.FolderGrant{
				UserID:    req.UserID,
				FolderID:  f.ID,
				CanEdit:   true,
				CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("grant edit on personal root: %w", err)
			}
		}
		root = &f
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("personal root provisioned", "user_id", req.UserID, "folder_id", root.ID, "path", root.Path)
	}
	return root, nil
}
