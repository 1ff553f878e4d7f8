package memory

import (
	"context"
	"sort"

	"opsconsole/internal/domain/models/docstore"
)

type grantRepo struct {
	s *Store
}

func (r *grantRepo) ListByUser(ctx context.Context, userID string) ([]docstore.FolderGrant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []docstore.FolderGrant{}
	for k, g := range r.s.grants {
		if k.userID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FolderID < out[j].FolderID })
	return out, nil
}

func (r *grantRepo) Get(ctx context.Context, userID, folderID string) (*docstore.FolderGrant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.grants[grantKey{userID: userID, folderID: folderID}]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r *grantRepo) HasGlobalEdit(ctx context.Context, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.editors[userID], nil
}

func (r *grantRepo) Upsert(ctx context.Context, grant *docstore.FolderGrant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := grantKey{userID: grant.UserID, folderID: grant.FolderID}
	txLog(ctx).grant(r.s, key)
	r.s.grants[key] = *grant
	return nil
}

func (r *grantRepo) SetGlobalEdit(ctx context.Context, userID string, canEdit bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	txLog(ctx).editor(r.s, userID)
	if canEdit {
		r.s.editors[userID] = true
	} else {
		delete(r.s.editors, userID)
	}
	return nil
}

func (r *grantRepo) DeleteByFolderIDs(ctx context.Context, folderIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	drop := make(map[string]bool, len(folderIDs))
	for _, id := range folderIDs {
		drop[id] = true
	}
	log := txLog(ctx)
	for k := range r.s.grants {
		if drop[k.folderID] {
			log.grant(r.s, k)
			delete(r.s.grants, k)
		}
	}
	return nil
}
