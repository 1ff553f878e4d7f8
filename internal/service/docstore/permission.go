package docstore

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"opsconsole/internal/config"
	models "opsconsole/internal/domain/models/docstore"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
)

// PermissionResolver decides edit rights. A principal may edit a folder when
// they hold an elevated role, the document-store-wide edit grant, or an
// explicit can_edit grant on that folder id. Prospects are preview-only.
type PermissionResolver struct {
	grants docstoreRepo.GrantRepository
	policy *config.AccessPolicy
}

// NewPermissionResolver creates a resolver over the grant store
func NewPermissionResolver(grants docstoreRepo.GrantRepository, policy *config.AccessPolicy) *PermissionResolver {
	return &PermissionResolver{grants: grants, policy: policy}
}

// IsElevated reports whether p holds an elevated role
func (r *PermissionResolver) IsElevated(p *models.Principal) bool {
	return r.policy.IsElevated(p.Roles)
}

// Grants is a principal's resolved rights
type Grants struct {
	elevated  bool
	global    bool
	prospect  bool
	granted   map[string]bool // every folder with an explicit grant row
	perFolder map[string]bool // folders with can_edit = true
}

// CanEdit reports whether the resolved principal may edit folderID
func (g *Grants) CanEdit(folderID string) bool {
	switch {
	case g.elevated:
		return true
	case g.prospect:
		return false
	case g.global:
		return true
	}
	return g.perFolder[folderID]
}

// Elevated reports whether the principal holds an elevated role
func (g *Grants) Elevated() bool {
	return g.elevated
}

// Granted reports whether folderID carries an explicit grant row for the principal
func (g *Grants) Granted(folderID string) bool {
	return g.granted[folderID]
}

// Resolve loads the principal's global and per-folder grants in one pass
func (r *PermissionResolver) Resolve(ctx context.Context, p *models.Principal) (*Grants, error) {
	g := &Grants{
		elevated:  r.IsElevated(p),
		prospect:  p.Class == models.PrincipalProspect,
		granted:   make(map[string]bool),
		perFolder: make(map[string]bool),
	}
	if g.elevated {
		return g, nil
	}

	var folderGrants []models.FolderGrant
	eg, egCtx := errgroup.WithContext(ctx)
	if !g.prospect {
		eg.Go(func() error {
			global, err := r.grants.HasGlobalEdit(egCtx, p.ID)
			if err != nil {
				return fmt.Errorf("load global edit grant: %w", err)
			}
			g.global = global
			return nil
		})
	}
	eg.Go(func() error {
		list, err := r.grants.ListByUser(egCtx, p.ID)
		if err != nil {
			return fmt.Errorf("load folder grants: %w", err)
		}
		folderGrants = list
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, fg := range folderGrants {
		g.granted[fg.FolderID] = true
		if fg.CanEdit {
			g.perFolder[fg.FolderID] = true
		}
	}
	return g, nil
}

// CanEdit resolves a single (principal, folder) pair
func (r *PermissionResolver) CanEdit(ctx context.Context, p *models.Principal, folderID string) (bool, error) {
	if r.IsElevated(p) {
		return true, nil
	}
	if p.Class == models.PrincipalProspect {
		return false, nil
	}

	global, err := r.grants.HasGlobalEdit(ctx, p.ID)
	if err != nil {
		return false, fmt.Errorf("load global edit grant: %w", err)
	}
	if global {
		return true, nil
	}

	grant, err := r.grants.Get(ctx, p.ID, folderID)
	if err != nil {
		return false, fmt.Errorf("load folder grant: %w", err)
	}
	return grant != nil && grant.CanEdit, nil
}
