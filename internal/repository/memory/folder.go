package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/tree"
)

type folderRepo struct {
	s *Store
}

func (r *folderRepo) Create(ctx context.Context, folder *docstore.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.folders[folder.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("folder %s already exists", folder.ID),
			ResourceType: "folder",
			ResourceID:   folder.ID,
		}
	}
	if folder.ParentID != nil {
		if _, ok := r.s.folders[*folder.ParentID]; !ok {
			return fmt.Errorf("parent folder %s: %w", *folder.ParentID, domain.ErrNotFound)
		}
	}
	txLog(ctx).folder(r.s, folder.ID)
	r.s.folders[folder.ID] = cloneFolder(*folder)
	return nil
}

func (r *folderRepo) GetByID(ctx context.Context, id string) (*docstore.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	out := cloneFolder(f)
	return &out, nil
}

func (r *folderRepo) GetByIDs(ctx context.Context, ids []string) ([]docstore.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]docstore.Folder, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if f, ok := r.s.folders[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, cloneFolder(f))
		}
	}
	return out, nil
}

func (r *folderRepo) ListChildren(ctx context.Context, parentID *string) ([]docstore.Folder, error) {
	want := ""
	if parentID != nil {
		want = *parentID
	}
	return r.filter(func(f docstore.Folder) bool { return f.ParentIDValue() == want }), nil
}

func (r *folderRepo) ListAll(ctx context.Context) ([]docstore.Folder, error) {
	return r.filter(func(docstore.Folder) bool { return true }), nil
}

func (r *folderRepo) ListByPathPrefix(ctx context.Context, path string) ([]docstore.Folder, error) {
	return r.filter(func(f docstore.Folder) bool { return tree.HasPathPrefix(f.Path, path) }), nil
}

func (r *folderRepo) filter(keep func(docstore.Folder) bool) []docstore.Folder {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []docstore.Folder{}
	for _, f := range r.s.folders {
		if keep(f) {
			out = append(out, cloneFolder(f))
		}
	}
	tree.SortFolders(out)
	return out
}

// ListAncestry walks parent_id from id, stopping at a root, a missing parent,
// a revisited folder or maxHops.
func (r *folderRepo) ListAncestry(ctx context.Context, id string, maxHops int) ([]docstore.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	out := []docstore.Folder{cloneFolder(f)}
	seen := map[string]bool{id: true}
	for hops := 0; f.ParentID != nil && hops < maxHops; hops++ {
		parent, ok := r.s.folders[*f.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		out = append(out, cloneFolder(parent))
		f = parent
	}
	return out, nil
}

// ListAccessible evaluates the accessible-folders view: the user's personal
// root subtree and every granted subtree, plus all of their ancestors.
func (r *folderRepo) ListAccessible(ctx context.Context, userID string) ([]docstore.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seeds := make(map[string]bool)
	for _, f := range r.s.folders {
		if f.OwnerID != nil && *f.OwnerID == userID {
			seeds[f.ID] = true
		}
	}
	for k := range r.s.grants {
		if k.userID == userID {
			seeds[k.folderID] = true
		}
	}

	included := make(map[string]bool)
	for _, f := range r.s.folders {
		chain := r.chain(f)
		for _, id := range chain {
			if seeds[id] {
				// f is inside a seeded subtree; keep it and everything above it
				for _, above := range chain {
					included[above] = true
				}
				break
			}
		}
	}

	out := make([]docstore.Folder, 0, len(included))
	for id := range included {
		out = append(out, cloneFolder(r.s.folders[id]))
	}
	tree.SortFolders(out)
	return out, nil
}

// chain returns f's id followed by its ancestor ids, bounded by
// tree.MaxAncestorHops. Caller holds r.s.mu.
func (r *folderRepo) chain(f docstore.Folder) []string {
	ids := []string{f.ID}
	for hops := 0; f.ParentID != nil && hops < tree.MaxAncestorHops; hops++ {
		parent, ok := r.s.folders[*f.ParentID]
		if !ok {
			break
		}
		ids = append(ids, parent.ID)
		f = parent
	}
	return ids
}

func (r *folderRepo) GetPersonalRootID(ctx context.Context, userID string) (*string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found []docstore.Folder
	for _, f := range r.s.folders {
		if f.ParentID == nil && f.OwnerID != nil && *f.OwnerID == userID {
			found = append(found, f)
		}
	}
	if len(found) == 0 {
		return nil, nil
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.Before(found[j].CreatedAt) })
	id := found[0].ID
	return &id, nil
}

func (r *folderRepo) Update(ctx context.Context, folder *docstore.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.folders[folder.ID]
	if !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	existing.Name = folder.Name
	existing.Color = folder.Color
	existing.Icon = folder.Icon
	existing.SortOrder = folder.SortOrder
	existing.UpdatedAt = folder.UpdatedAt
	txLog(ctx).folder(r.s, folder.ID)
	r.s.folders[folder.ID] = existing
	return nil
}

func (r *folderRepo) UpdateTreeFields(ctx context.Context, folders []docstore.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range folders {
		if _, ok := r.s.folders[f.ID]; !ok {
			return fmt.Errorf("folder %s: %w", f.ID, domain.ErrNotFound)
		}
	}
	log := txLog(ctx)
	for _, f := range folders {
		log.folder(r.s, f.ID)
		existing := r.s.folders[f.ID]
		existing.Name = f.Name
		existing.ParentID = cloneFolder(f).ParentID
		existing.Path = f.Path
		existing.Depth = f.Depth
		existing.Category = f.Category
		if !f.UpdatedAt.IsZero() {
			existing.UpdatedAt = f.UpdatedAt
		}
		r.s.folders[f.ID] = existing
	}
	return nil
}

// LockSubtree is satisfied by ExecTx serialization.
func (r *folderRepo) LockSubtree(ctx context.Context, path string) error {
	return nil
}

func (r *folderRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	log := txLog(ctx)
	var n int64
	for _, id := range ids {
		if _, ok := r.s.folders[id]; ok {
			log.folder(r.s, id)
			delete(r.s.folders, id)
			n++
		}
	}
	return n, nil
}

func (r *folderRepo) SearchByName(ctx context.Context, query string, limit int) ([]docstore.Folder, error) {
	q := strings.ToLower(query)
	out := r.filter(func(f docstore.Folder) bool { return strings.Contains(strings.ToLower(f.Name), q) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
