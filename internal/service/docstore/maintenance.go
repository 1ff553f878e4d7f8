package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/domain/repositories"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/objectstore"
	"opsconsole/internal/tree"
)

type maintenanceService struct {
	folderRepo docstoreRepo.FolderRepository
	fileRepo   docstoreRepo.FileRepository
	grantRepo  docstoreRepo.GrantRepository
	objects    objectstore.Store
	guard      *subtreeGuard
	now        func() time.Time
	logger     *slog.Logger
}

// NewMaintenanceService creates the administrative repair service
func NewMaintenanceService(
	folderRepo docstoreRepo.FolderRepository,
	fileRepo docstoreRepo.FileRepository,
	grantRepo docstoreRepo.GrantRepository,
	objects objectstore.Store,
	txManager repositories.TransactionManager,
	locker *PathLocker,
	logger *slog.Logger,
) docstoreSvc.MaintenanceService {
	return &maintenanceService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		grantRepo:  grantRepo,
		objects:    objects,
		guard:      newSubtreeGuard(folderRepo, txManager, locker, logger),
		now:        time.Now,
		logger:     logger,
	}
}

// RepairTree recomputes path and depth from parent_id under a whole-tree
// lock. Reachable folders are repaired even when some are unreachable; the
// unreachable ones are reported and logged at error level.
func (s *maintenanceService) RepairTree(ctx context.Context, dryRun bool) (*docstoreSvc.RepairReport, error) {
	report := &docstoreSvc.RepairReport{Changes: []docstoreSvc.PathChange{}}

	err := s.guard.runAll(ctx, func(txCtx context.Context) error {
		folders, err := s.folderRepo.ListAll(txCtx)
		if err != nil {
			return err
		}
		report.Scanned = len(folders)
		before := make(map[string]models.Folder, len(folders))
		for _, f := range folders {
			before[f.ID] = f
		}

		_, changed, err := tree.Recompute(folders)
		if err != nil {
			var corrupt *domain.CorruptTreeError
			if !errors.As(err, &corrupt) {
				return err
			}
			report.Unreachable = corrupt.Error()
			s.logger.Error("folder tree has unreachable folders", "folder_id", corrupt.FolderID, "error", corrupt)
		}

		for _, f := range changed {
			old := before[f.ID]
			report.Changes = append(report.Changes, docstoreSvc.PathChange{
				FolderID: f.ID,
				OldPath:  old.Path,
				NewPath:  f.Path,
				OldDepth: old.Depth,
				NewDepth: f.Depth,
			})
		}
		if dryRun || len(changed) == 0 {
			return nil
		}
		if err := s.folderRepo.UpdateTreeFields(txCtx, stamped(changed)); err != nil {
			return fmt.Errorf("write repaired paths: %w", err)
		}
		report.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tree repair finished",
		"scanned", report.Scanned,
		"changes", len(report.Changes),
		"applied", report.Applied,
		"dry_run", dryRun,
	)
	return report, nil
}

// SweepOrphans removes stored objects that no file record references.
// Objects younger than grace are kept so in-flight uploads are not reaped.
func (s *maintenanceService) SweepOrphans(ctx context.Context, dryRun bool, grace time.Duration) (*docstoreSvc.SweepReport, error) {
	var objects []objectstore.ObjectInfo
	var referenced []string

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		objects, err = s.objects.List(egCtx, "")
		if err != nil {
			return &domain.StorageError{Op: "list", Err: err}
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		referenced, err = s.fileRepo.ListStoragePaths(egCtx)
		if err != nil {
			return fmt.Errorf("list storage paths: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(referenced))
	for _, p := range referenced {
		known[p] = true
	}
	cutoff := s.now().Add(-grace)

	report := &docstoreSvc.SweepReport{Scanned: len(objects), Orphans: []string{}}
	for _, obj := range objects {
		if known[obj.Path] || obj.LastModified.After(cutoff) {
			continue
		}
		report.Orphans = append(report.Orphans, obj.Path)
	}
	sort.Strings(report.Orphans)

	if dryRun || len(report.Orphans) == 0 {
		return report, nil
	}

	failures, err := s.objects.Remove(ctx, report.Orphans)
	if err != nil {
		return nil, &domain.StorageError{Op: "remove", Err: err}
	}
	report.Removed = len(report.Orphans) - len(failures)
	if len(failures) > 0 {
		report.Failures = make(map[string]string, len(failures))
		for path, ferr := range failures {
			report.Failures[path] = ferr.Error()
		}
	}

	s.logger.Info("orphan sweep finished",
		"scanned", report.Scanned,
		"orphans", len(report.Orphans),
		"removed", report.Removed,
		"failures", len(report.Failures),
	)
	return report, nil
}

// Grant sets a per-folder grant, or the global edit grant when no folder is given
func (s *maintenanceService) Grant(ctx context.Context, req *docstoreSvc.GrantRequest) error {
	if err := validateGrantRequest(req); err != nil {
		return err
	}

	if req.FolderID == "" {
		if err := s.grantRepo.SetGlobalEdit(ctx, req.UserID, req.CanEdit); err != nil {
			return err
		}
		s.logger.Info("global edit grant set", "user_id", req.UserID, "can_edit", req.CanEdit)
		return nil
	}

	if _, err := s.folderRepo.GetByID(ctx, req.FolderID); err != nil {
		return err
	}
	err := s.grantRepo.Upsert(ctx, &models.FolderGrant{
		UserID:    req.UserID,
		FolderID:  req.FolderID,
		CanEdit:   req.CanEdit,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	s.logger.Info("folder grant set", "user_id", req.UserID, "folder_id", req.FolderID, "can_edit", req.CanEdit)
	return nil
}
