package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/domain/repositories"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/objectstore"
	"opsconsole/internal/tree"
)

type itemService struct {
	folderRepo docstoreRepo.FolderRepository
	fileRepo   docstoreRepo.FileRepository
	grantRepo  docstoreRepo.GrantRepository
	objects    objectstore.Store
	loader     *SubtreeLoader
	guard      *subtreeGuard
	logger     *slog.Logger
}

// NewItemService creates the rename/move/delete service
func NewItemService(
	folderRepo docstoreRepo.FolderRepository,
	fileRepo docstoreRepo.FileRepository,
	grantRepo docstoreRepo.GrantRepository,
	objects objectstore.Store,
	txManager repositories.TransactionManager,
	loader *SubtreeLoader,
	locker *PathLocker,
	logger *slog.Logger,
) docstoreSvc.ItemService {
	return &itemService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		grantRepo:  grantRepo,
		objects:    objects,
		loader:     loader,
		guard:      newSubtreeGuard(folderRepo, txManager, locker, logger),
		logger:     logger,
	}
}

// Rename renames a folder or a file. A folder rename rewrites the path of the
// folder and every descendant.
func (s *itemService) Rename(ctx context.Context, p *models.Principal, req *docstoreSvc.RenameRequest) (*docstoreSvc.RenameResult, error) {
	req.Name = normalizeName(req.Name)
	if req.IsFolder {
		if err := validateFolderName(req.Name); err != nil {
			return nil, err
		}
	} else if err := validateFileName(req.Name); err != nil {
		return nil, err
	}

	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}

	if !req.IsFolder {
		file, err := s.editableFile(ctx, view, req.ItemID)
		if err != nil {
			return nil, err
		}
		file.Name = req.Name
		file.UpdatedAt = time.Now().UTC()
		if err := s.fileRepo.Update(ctx, file); err != nil {
			return nil, err
		}
		s.logger.Info("file renamed", "file_id", file.ID, "name", file.Name, "principal", p.ID)
		return &docstoreSvc.RenameResult{File: file}, nil
	}

	folder, err := view.RequireEditable(req.ItemID)
	if err != nil {
		return nil, err
	}
	if folder.IsSystem {
		return nil, domain.NewForbidden("folder %s is a system folder and cannot be renamed", folder.ID)
	}

	var plan *tree.Plan
	err = s.guard.run(ctx, []string{folder.ID}, func(txCtx context.Context) error {
		t, err := s.loadSubtree(txCtx, folder.ID)
		if err != nil {
			return err
		}
		_, plan, err = tree.ApplyRename(t, folder.ID, req.Name)
		if err != nil {
			return err
		}
		return s.folderRepo.UpdateTreeFields(txCtx, stamped(plan.Changed()))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed",
		"folder_id", folder.ID,
		"old_path", plan.OldPath,
		"new_path", plan.Folder.Path,
		"descendants", len(plan.Descendants),
		"principal", p.ID,
	)
	renamed := plan.Folder
	return &docstoreSvc.RenameResult{Folder: &renamed}, nil
}

// Move re-parents each payload folder under the target and reassigns each
// payload file. A target inside any payload folder's subtree rejects the
// whole request with *domain.CycleError before anything is written.
func (s *itemService) Move(ctx context.Context, p *models.Principal, req *docstoreSvc.MoveRequest) (*domain.BatchResult, error) {
	if err := validateBatch(len(req.Items)); err != nil {
		return nil, err
	}
	if req.TargetFolderID == "" {
		return nil, domain.NewValidation("target folder is required")
	}

	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	if _, err := view.RequireEditable(req.TargetFolderID); err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		if item.Kind != models.ItemFolder {
			continue
		}
		if item.ID == req.TargetFolderID || view.Tree.IsDescendant(req.TargetFolderID, item.ID) {
			return nil, &domain.CycleError{FolderID: item.ID, TargetID: req.TargetFolderID}
		}
	}

	result := domain.NewBatchResult()
	for _, item := range req.Items {
		var err error
		switch item.Kind {
		case models.ItemFolder:
			err = s.moveFolder(ctx, view, item.ID, req.TargetFolderID)
		case models.ItemFile:
			err = s.moveFile(ctx, view, item.ID, req.TargetFolderID)
		default:
			err = domain.NewValidation("unknown item kind %q", item.Kind)
		}
		if err != nil {
			s.logger.Warn("move item failed", "item", item.String(), "target", req.TargetFolderID, "error", err)
			result.Fail(item.ID, err)
			continue
		}
		result.Succeed(item.ID)
	}

	s.logger.Info("items moved",
		"target", req.TargetFolderID,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
		"principal", p.ID,
	)
	return result, result.Err()
}

func (s *itemService) moveFolder(ctx context.Context, view *View, folderID, targetID string) error {
	folder, err := view.RequireEditable(folderID)
	if err != nil {
		return err
	}
	if folder.ParentIDValue() == targetID {
		return nil
	}

	return s.guard.run(ctx, []string{folderID, targetID}, func(txCtx context.Context) error {
		self, err := s.folderRepo.GetByID(txCtx, folderID)
		if err != nil {
			return err
		}
		subtree, err := s.folderRepo.ListByPathPrefix(txCtx, self.Path)
		if err != nil {
			return err
		}
		ancestry, err := s.folderRepo.ListAncestry(txCtx, targetID, tree.MaxAncestorHops)
		if err != nil {
			return err
		}

		t := tree.New(dedupeFolders([]models.Folder{*self}, subtree, ancestry))
		_, plan, err := tree.ApplyMove(t, folderID, targetID)
		if err != nil {
			return err
		}
		if err := s.folderRepo.UpdateTreeFields(txCtx, stamped(plan.Changed())); err != nil {
			return err
		}
		s.logger.Debug("folder moved",
			"folder_id", folderID,
			"old_path", plan.OldPath,
			"new_path", plan.Folder.Path,
			"depth_delta", plan.DepthDelta(),
			"descendants", len(plan.Descendants),
		)
		return nil
	})
}

func (s *itemService) moveFile(ctx context.Context, view *View, fileID, targetID string) error {
	file, err := s.editableFile(ctx, view, fileID)
	if err != nil {
		return err
	}
	if file.FolderID == targetID {
		return nil
	}
	file.FolderID = targetID
	file.UpdatedAt = time.Now().UTC()
	return s.fileRepo.Update(ctx, file)
}

// Delete removes folders with their whole subtree and files. Metadata is
// removed first; stored objects are removed afterwards and a removal failure
// is reported in StorageFailures without failing the item.
func (s *itemService) Delete(ctx context.Context, p *models.Principal, req *docstoreSvc.DeleteRequest) (*domain.BatchResult, error) {
	if err := validateBatch(len(req.Items)); err != nil {
		return nil, err
	}

	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}

	result := domain.NewBatchResult()
	var folderIDs []string
	var fileItems []models.ItemRef
	for _, item := range req.Items {
		switch item.Kind {
		case models.ItemFolder:
			folderIDs = append(folderIDs, item.ID)
		case models.ItemFile:
			fileItems = append(fileItems, item)
		default:
			result.Fail(item.ID, domain.NewValidation("unknown item kind %q", item.Kind))
		}
	}

	// file records are read before any folder goes so that files removed with
	// their folder can be recognized afterwards
	files := make(map[string]*models.File, len(fileItems))
	for _, item := range fileItems {
		file, err := s.fileRepo.GetByID(ctx, item.ID)
		if err != nil {
			continue
		}
		files[item.ID] = file
	}

	deleted := s.deleteFolders(ctx, view, folderIDs, result)

	var removable []*models.File
	for _, item := range fileItems {
		file, ok := files[item.ID]
		switch {
		case ok && deleted[file.FolderID]:
			result.Succeed(item.ID)
		case !ok:
			result.Fail(item.ID, domain.NewNotFound("file", item.ID))
		default:
			if err := checkFileEditable(view, file); err != nil {
				result.Fail(item.ID, err)
				continue
			}
			removable = append(removable, file)
		}
	}
	s.deleteFiles(ctx, removable, result)

	s.logger.Info("items deleted",
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
		"storage_failures", len(result.StorageFailures),
		"principal", p.ID,
	)
	return result, result.Err()
}

// deleteFolders deletes each folder subtree in its own transaction, shallowest
// first. It returns the ids of every folder removed.
func (s *itemService) deleteFolders(ctx context.Context, view *View, folderIDs []string, result *domain.BatchResult) map[string]bool {
	deleted := make(map[string]bool)
	sort.SliceStable(folderIDs, func(i, j int) bool {
		a, _ := view.Tree.Get(folderIDs[i])
		b, _ := view.Tree.Get(folderIDs[j])
		return a.Depth < b.Depth
	})

	for _, id := range folderIDs {
		if deleted[id] {
			result.Succeed(id)
			continue
		}
		folder, err := view.RequireEditable(id)
		if err != nil {
			result.Fail(id, err)
			continue
		}
		if folder.IsSystem {
			result.Fail(id, domain.NewForbidden("folder %s is a system folder and cannot be deleted", id))
			continue
		}

		var removedIDs []string
		var storagePaths []string
		err = s.guard.run(ctx, []string{id}, func(txCtx context.Context) error {
			t, err := s.loadSubtree(txCtx, id)
			if err != nil {
				return err
			}
			removedIDs = []string{id}
			for _, d := range t.Descendants(id) {
				removedIDs = append(removedIDs, d.ID)
			}

			owned, err := s.fileRepo.ListByFolderIDs(txCtx, removedIDs)
			if err != nil {
				return err
			}
			fileIDs := make([]string, len(owned))
			storagePaths = make([]string, len(owned))
			for i, f := range owned {
				fileIDs[i] = f.ID
				storagePaths[i] = f.StoragePath
			}

			if len(fileIDs) > 0 {
				if _, err := s.fileRepo.DeleteByIDs(txCtx, fileIDs); err != nil {
					return fmt.Errorf("delete file records: %w", err)
				}
			}
			if err := s.grantRepo.DeleteByFolderIDs(txCtx, removedIDs); err != nil {
				return fmt.Errorf("delete folder grants: %w", err)
			}
			if _, err := s.folderRepo.DeleteByIDs(txCtx, removedIDs); err != nil {
				return fmt.Errorf("delete folders: %w", err)
			}
			return nil
		})
		if err != nil {
			s.logger.Warn("delete folder failed", "folder_id", id, "error", err)
			result.Fail(id, err)
			continue
		}

		for _, rid := range removedIDs {
			deleted[rid] = true
		}
		result.Succeed(id)
		if err := s.removeObjects(ctx, storagePaths); err != nil {
			result.StorageFail(id, err)
		}
		s.logger.Info("folder deleted",
			"folder_id", id,
			"path", folder.Path,
			"folders", len(removedIDs),
			"files", len(storagePaths),
		)
	}
	return deleted
}

// deleteFiles removes the file records in one statement, then attempts one
// storage removal per file
func (s *itemService) deleteFiles(ctx context.Context, files []*models.File, result *domain.BatchResult) {
	if len(files) == 0 {
		return
	}
	ids := make([]string, len(files))
	paths := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID
		paths[i] = f.StoragePath
	}

	if _, err := s.fileRepo.DeleteByIDs(ctx, ids); err != nil {
		for _, id := range ids {
			result.Fail(id, err)
		}
		return
	}
	for _, id := range ids {
		result.Succeed(id)
	}

	failures, err := s.objects.Remove(ctx, paths)
	if err != nil {
		s.logger.Warn("object store unavailable during delete", "objects", len(paths), "error", err)
		for _, id := range ids {
			result.StorageFail(id, &domain.StorageError{Op: "remove", Err: err})
		}
		return
	}
	for _, f := range files {
		if ferr, ok := failures[f.StoragePath]; ok {
			s.logger.Warn("stored object not removed", "file_id", f.ID, "storage_path", f.StoragePath, "error", ferr)
			result.StorageFail(f.ID, &domain.StorageError{Op: "remove", Path: f.StoragePath, Err: ferr})
		}
	}
}

// removeObjects removes stored objects and folds failures into one error
func (s *itemService) removeObjects(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	failures, err := s.objects.Remove(ctx, paths)
	if err != nil {
		s.logger.Warn("object store unavailable during delete", "objects", len(paths), "error", err)
		return &domain.StorageError{Op: "remove", Err: err}
	}
	if len(failures) == 0 {
		return nil
	}
	failed := make([]string, 0, len(failures))
	for path, ferr := range failures {
		s.logger.Warn("stored object not removed", "storage_path", path, "error", ferr)
		failed = append(failed, path)
	}
	sort.Strings(failed)
	return &domain.StorageError{
		Op:  "remove",
		Err: fmt.Errorf("%d object(s) not removed: %s", len(failed), strings.Join(failed, ", ")),
	}
}

// loadSubtree reads a folder and everything under its path into a tree
func (s *itemService) loadSubtree(ctx context.Context, folderID string) (*tree.Tree, error) {
	self, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	subtree, err := s.folderRepo.ListByPathPrefix(ctx, self.Path)
	if err != nil {
		return nil, err
	}
	return tree.New(dedupeFolders([]models.Folder{*self}, subtree)), nil
}

// editableFile loads a file the principal may change
func (s *itemService) editableFile(ctx context.Context, view *View, fileID string) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("file", fileID)
		}
		return nil, err
	}
	if err := checkFileEditable(view, file); err != nil {
		return nil, err
	}
	return file, nil
}

func checkFileEditable(view *View, file *models.File) error {
	if !view.CanSeeContents(file.FolderID) {
		return domain.NewNotFound("file", file.ID)
	}
	if !view.Grants.CanEdit(file.FolderID) {
		return domain.NewForbidden("no edit grant for folder %s", file.FolderID)
	}
	return nil
}

// stamped sets UpdatedAt on rewritten folders
func stamped(folders []models.Folder) []models.Folder {
	now := time.Now().UTC()
	for i := range folders {
		folders[i].UpdatedAt = now
	}
	return folders
}
