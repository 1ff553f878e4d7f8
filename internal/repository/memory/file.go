package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

type fileRepo struct {
	s *Store
}

func (r *fileRepo) Create(ctx context.Context, file *docstore.File) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.folders[file.FolderID]; !ok {
		return fmt.Errorf("folder %s: %w", file.FolderID, domain.ErrNotFound)
	}
	if _, exists := r.s.files[file.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("file %s already exists", file.ID),
			ResourceType: "file",
			ResourceID:   file.ID,
		}
	}
	txLog(ctx).file(r.s, file.ID)
	r.s.files[file.ID] = cloneFile(*file)
	return nil
}

func (r *fileRepo) GetByID(ctx context.Context, id string) (*docstore.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	out := cloneFile(f)
	return &out, nil
}

func (r *fileRepo) ListByFolder(ctx context.Context, folderID string) ([]docstore.File, error) {
	return r.filter(func(f docstore.File) bool { return f.FolderID == folderID }), nil
}

func (r *fileRepo) ListByFolderIDs(ctx context.Context, folderIDs []string) ([]docstore.File, error) {
	want := make(map[string]bool, len(folderIDs))
	for _, id := range folderIDs {
		want[id] = true
	}
	return r.filter(func(f docstore.File) bool { return want[f.FolderID] }), nil
}

func (r *fileRepo) filter(keep func(docstore.File) bool) []docstore.File {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []docstore.File{}
	for _, f := range r.s.files {
		if keep(f) {
			out = append(out, cloneFile(f))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fileRepo) Update(ctx context.Context, file *docstore.File) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.files[file.ID]
	if !ok {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	if _, ok := r.s.folders[file.FolderID]; !ok {
		return fmt.Errorf("folder %s: %w", file.FolderID, domain.ErrNotFound)
	}
	existing.Name = file.Name
	existing.FolderID = file.FolderID
	existing.UpdatedAt = file.UpdatedAt
	txLog(ctx).file(r.s, file.ID)
	r.s.files[file.ID] = existing
	return nil
}

func (r *fileRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.files[id]; !ok {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	txLog(ctx).file(r.s, id)
	delete(r.s.files, id)
	return nil
}

func (r *fileRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	log := txLog(ctx)
	var n int64
	for _, id := range ids {
		if _, ok := r.s.files[id]; ok {
			log.file(r.s, id)
			delete(r.s.files, id)
			n++
		}
	}
	return n, nil
}

func (r *fileRepo) SearchByName(ctx context.Context, query string, limit int) ([]docstore.File, error) {
	q := strings.ToLower(query)
	out := r.filter(func(f docstore.File) bool { return strings.Contains(strings.ToLower(f.Name), q) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fileRepo) ListStoragePaths(ctx context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]string, 0, len(r.s.files))
	for _, f := range r.s.files {
		out = append(out, f.StoragePath)
	}
	sort.Strings(out)
	return out, nil
}
