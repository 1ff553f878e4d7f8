package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"opsconsole/internal/config"
	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	"opsconsole/internal/tree"
)

// View is the folder set a principal can see, with their resolved grants.
// Tree is ancestor-complete: every visible folder's ancestors are present.
type View struct {
	Principal *models.Principal
	Tree      *tree.Tree
	Grants    *Grants

	// seeds are the folders whose subtrees are fully visible (personal roots
	// and granted folders). nil means every folder in Tree is fully visible.
	// Folders present only as ancestors of a seed show their name and place
	// in the tree but not their files or unrelated children.
	seeds map[string]bool
}

// CanSee reports whether folderID is part of the view
func (v *View) CanSee(folderID string) bool {
	return v.Tree.Has(folderID)
}

// CanSeeContents reports whether files in folderID are visible
func (v *View) CanSeeContents(folderID string) bool {
	if !v.Tree.Has(folderID) {
		return false
	}
	if v.seeds == nil || v.seeds[folderID] {
		return true
	}
	ancestors, err := v.Tree.Ancestors(folderID)
	if err != nil {
		return false
	}
	for _, a := range ancestors {
		if v.seeds[a.ID] {
			return true
		}
	}
	return false
}

// CanEdit reports whether the principal may edit a visible folder
func (v *View) CanEdit(folderID string) bool {
	return v.CanSee(folderID) && v.Grants.CanEdit(folderID)
}

// Folder returns a visible folder or a NotFound error
func (v *View) Folder(folderID string) (models.Folder, error) {
	f, ok := v.Tree.Get(folderID)
	if !ok {
		return models.Folder{}, domain.NewNotFound("folder", folderID)
	}
	return f, nil
}

// RequireEditable returns a visible folder the principal may edit:
// NotFound when invisible, Forbidden when visible but not editable
func (v *View) RequireEditable(folderID string) (models.Folder, error) {
	f, err := v.Folder(folderID)
	if err != nil {
		return f, err
	}
	if !v.Grants.CanEdit(folderID) {
		return f, domain.NewForbidden("no edit grant for folder %s", folderID)
	}
	return f, nil
}

// Accessible returns the view as a sorted, edit-annotated list
func (v *View) Accessible() []models.AccessibleFolder {
	folders := v.Tree.Folders()
	out := make([]models.AccessibleFolder, len(folders))
	for i, f := range folders {
		out[i] = models.AccessibleFolder{Folder: f, CanEdit: v.Grants.CanEdit(f.ID)}
	}
	return out
}

// SubtreeLoader builds the ancestor-complete folder view for a principal
type SubtreeLoader struct {
	folders  docstoreRepo.FolderRepository
	resolver *PermissionResolver
	policy   *config.AccessPolicy
	logger   *slog.Logger
}

// NewSubtreeLoader creates a loader
func NewSubtreeLoader(
	folders docstoreRepo.FolderRepository,
	resolver *PermissionResolver,
	policy *config.AccessPolicy,
	logger *slog.Logger,
) *SubtreeLoader {
	return &SubtreeLoader{
		folders:  folders,
		resolver: resolver,
		policy:   policy,
		logger:   logger,
	}
}

// Load fetches the principal's visible folders and grants concurrently,
// completes missing ancestors, and validates every parent chain. A cycle or
// an over-deep chain is returned as *domain.CorruptTreeError.
func (l *SubtreeLoader) Load(ctx context.Context, p *models.Principal) (*View, error) {
	elevated := l.resolver.IsElevated(p)
	scoped := p.HasPersonalRoot() && !elevated

	var folders []models.Folder
	var grants *Grants

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if scoped {
			folders, err = l.folders.ListAccessible(egCtx, p.ID)
		} else {
			folders, err = l.folders.ListAll(egCtx)
		}
		if err != nil {
			return fmt.Errorf("load folders: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		grants, err = l.resolver.Resolve(egCtx, p)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	folders, err := l.completeAncestors(ctx, folders)
	if err != nil {
		return nil, err
	}

	hideRoots := p.Class == models.PrincipalStaff && !elevated && len(l.policy.HiddenRoots) > 0
	kept, err := l.filter(tree.New(folders), hideRoots)
	if err != nil {
		var corrupt *domain.CorruptTreeError
		if errors.As(err, &corrupt) {
			l.logger.Error("corrupt folder tree",
				"principal", p.ID,
				"folder_id", corrupt.FolderID,
				"error", err,
			)
		}
		return nil, err
	}

	view := &View{Principal: p, Tree: tree.New(kept), Grants: grants}
	if scoped {
		view.seeds = make(map[string]bool)
		for _, f := range kept {
			if (f.OwnerID != nil && *f.OwnerID == p.ID) || grants.Granted(f.ID) {
				view.seeds[f.ID] = true
			}
		}
	}
	return view, nil
}

// completeAncestors fetches parents referenced by the set but missing from it
// until the set is closed under parent_id
func (l *SubtreeLoader) completeAncestors(ctx context.Context, folders []models.Folder) ([]models.Folder, error) {
	t := tree.New(folders)
	for i := 0; i < tree.MaxAncestorHops; i++ {
		missing := t.MissingParents()
		if len(missing) == 0 {
			return folders, nil
		}
		extra, err := l.folders.GetByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("load missing ancestors: %w", err)
		}
		if len(extra) == 0 {
			// parents deleted concurrently; filter drops the orphans
			l.logger.Warn("folders reference missing parents", "parent_ids", missing)
			return folders, nil
		}
		folders = append(folders, extra...)
		t = tree.New(folders)
	}
	return folders, nil
}

// filter validates every chain, drops folders whose chain ends at a missing
// parent and, when hideRoots is set, folders under an administratively
// hidden root
func (l *SubtreeLoader) filter(t *tree.Tree, hideRoots bool) ([]models.Folder, error) {
	all := t.Folders()
	kept := make([]models.Folder, 0, len(all))
	for _, f := range all {
		ancestors, err := t.Ancestors(f.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		root := f
		if len(ancestors) > 0 {
			root = ancestors[len(ancestors)-1]
		}
		if hideRoots && l.policy.IsHiddenRoot(root) {
			continue
		}
		kept = append(kept, f)
	}
	return kept, nil
}
