package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/domain/repositories"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
)

const maxLockAttempts = 3

var errPathsChanged = errors.New("folder paths changed while waiting for lock")

// subtreeGuard serializes subtree mutations. A mutation holds the in-process
// path lock for every affected prefix, then runs inside a metadata
// transaction that row-locks the same subtrees. If a folder's path changed
// between reading it and acquiring the lock, or the store aborted the
// transaction over a concurrent write, the attempt is retried.
type subtreeGuard struct {
	folders   docstoreRepo.FolderRepository
	txManager repositories.TransactionManager
	locker    *PathLocker
	logger    *slog.Logger
}

func newSubtreeGuard(
	folders docstoreRepo.FolderRepository,
	txManager repositories.TransactionManager,
	locker *PathLocker,
	logger *slog.Logger,
) *subtreeGuard {
	return &subtreeGuard{folders: folders, txManager: txManager, locker: locker, logger: logger}
}

// run locks the subtrees rooted at folderIDs and calls fn in a transaction
func (g *subtreeGuard) run(ctx context.Context, folderIDs []string, fn repositories.TxFn) error {
	for attempt := 1; attempt <= maxLockAttempts; attempt++ {
		paths, err := g.currentPaths(ctx, folderIDs)
		if err != nil {
			return err
		}

		err = g.attempt(ctx, folderIDs, paths, fn)
		if !errors.Is(err, errPathsChanged) && !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
		g.logger.Debug("subtree changed concurrently, retrying",
			"folder_ids", folderIDs,
			"attempt", attempt,
			"error", err,
		)
	}
	return &domain.ConflictError{
		Message:      "folder tree changed concurrently, retry the operation",
		ResourceType: "folder",
	}
}

// runAll locks the whole tree
func (g *subtreeGuard) runAll(ctx context.Context, fn repositories.TxFn) error {
	unlock, err := g.locker.Lock(ctx, "")
	if err != nil {
		return err
	}
	defer unlock()
	return g.txManager.ExecTx(ctx, fn)
}

func (g *subtreeGuard) attempt(ctx context.Context, folderIDs []string, paths map[string]string, fn repositories.TxFn) error {
	prefixes := make([]string, 0, len(paths))
	for _, p := range paths {
		prefixes = append(prefixes, p)
	}
	unlock, err := g.locker.Lock(ctx, prefixes...)
	if err != nil {
		return err
	}
	defer unlock()

	return g.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, p := range prefixes {
			if err := g.folders.LockSubtree(txCtx, p); err != nil {
				return fmt.Errorf("lock subtree %q: %w", p, err)
			}
		}
		now, err := g.currentPaths(txCtx, folderIDs)
		if err != nil {
			return err
		}
		for id, p := range paths {
			if now[id] != p {
				return errPathsChanged
			}
		}
		return fn(txCtx)
	})
}

// currentPaths maps each folder id to its stored path. A missing id is NotFound.
func (g *subtreeGuard) currentPaths(ctx context.Context, folderIDs []string) (map[string]string, error) {
	folders, err := g.folders.GetByIDs(ctx, folderIDs)
	if err != nil {
		return nil, err
	}
	paths := make(map[string]string, len(folders))
	for _, f := range folders {
		paths[f.ID] = f.Path
	}
	for _, id := range folderIDs {
		if _, ok := paths[id]; !ok {
			return nil, domain.NewNotFound("folder", id)
		}
	}
	return paths, nil
}

// dedupeFolders keeps the first occurrence of each id
func dedupeFolders(sets ...[]models.Folder) []models.Folder {
	seen := make(map[string]bool)
	var out []models.Folder
	for _, set := range sets {
		for _, f := range set {
			if seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			out = append(out, f)
		}
	}
	return out
}
