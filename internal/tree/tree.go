// Package tree is the in-memory folder index. Folders are held in an arena
// keyed by id with parent_id as a plain key; children, ancestors and
// descendants are derived by query rather than by following live pointers.
package tree

import (
	"fmt"
	"sort"
	"strings"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

// MaxAncestorHops bounds every parent_id walk. A longer chain is treated as
// a cycle in the underlying data.
const MaxAncestorHops = 64

// rootKey indexes depth-0 folders in the children map.
const rootKey = ""

// Tree is an immutable-by-convention index over folder records.
// Mutating operations (ApplyMove, ApplyRename) return a new Tree.
type Tree struct {
	nodes    map[string]docstore.Folder
	children map[string][]string
}

// New indexes folders. Later duplicates of the same id replace earlier ones.
func New(folders []docstore.Folder) *Tree {
	t := &Tree{
		nodes:    make(map[string]docstore.Folder, len(folders)),
		children: make(map[string][]string),
	}
	for _, f := range folders {
		t.put(f)
	}
	return t
}

func (t *Tree) put(f docstore.Folder) {
	if old, exists := t.nodes[f.ID]; exists {
		t.unlink(old)
	}
	t.nodes[f.ID] = f
	key := f.ParentIDValue()
	t.children[key] = append(t.children[key], f.ID)
}

func (t *Tree) unlink(f docstore.Folder) {
	key := f.ParentIDValue()
	ids := t.children[key]
	for i, id := range ids {
		if id == f.ID {
			t.children[key] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(t.children[key]) == 0 {
		delete(t.children, key)
	}
}

func (t *Tree) clone() *Tree {
	next := &Tree{
		nodes:    make(map[string]docstore.Folder, len(t.nodes)),
		children: make(map[string][]string, len(t.children)),
	}
	for id, f := range t.nodes {
		next.nodes[id] = f
	}
	for key, ids := range t.children {
		next.children[key] = append([]string(nil), ids...)
	}
	return next
}

// Len returns the number of indexed folders.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Get returns the folder with id.
func (t *Tree) Get(id string) (docstore.Folder, bool) {
	f, ok := t.nodes[id]
	return f, ok
}

// Has reports whether id is indexed.
func (t *Tree) Has(id string) bool {
	_, ok := t.nodes[id]
	return ok
}

// Folders returns every folder sorted by (sort_order, name, id).
func (t *Tree) Folders() []docstore.Folder {
	out := make([]docstore.Folder, 0, len(t.nodes))
	for _, f := range t.nodes {
		out = append(out, f)
	}
	SortFolders(out)
	return out
}

// Roots returns the depth-0 folders.
func (t *Tree) Roots() []docstore.Folder {
	return t.Children(rootKey)
}

// Children returns folders whose parent_id equals parentID ("" for roots).
func (t *Tree) Children(parentID string) []docstore.Folder {
	ids := t.children[parentID]
	out := make([]docstore.Folder, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.nodes[id])
	}
	SortFolders(out)
	return out
}

// Ancestors returns the chain from the immediate parent up to the root.
// A chain longer than MaxAncestorHops, or one that revisits a folder,
// yields *domain.CorruptTreeError. A parent missing from the index yields
// *domain.NotFoundError.
func (t *Tree) Ancestors(id string) ([]docstore.Folder, error) {
	f, ok := t.nodes[id]
	if !ok {
		return nil, domain.NewNotFound("folder", id)
	}

	var chain []docstore.Folder
	seen := map[string]bool{id: true}
	cur := f
	for hops := 0; cur.ParentID != nil; hops++ {
		if hops >= MaxAncestorHops {
			return nil, &domain.CorruptTreeError{FolderID: id, Hops: MaxAncestorHops}
		}
		parentID := *cur.ParentID
		if seen[parentID] {
			return nil, &domain.CorruptTreeError{
				FolderID: id,
				Hops:     hops + 1,
				Detail:   fmt.Sprintf("parent chain revisits folder %s", parentID),
			}
		}
		parent, ok := t.nodes[parentID]
		if !ok {
			return nil, &domain.NotFoundError{
				Message: fmt.Sprintf("ancestor %s of folder %s not found", parentID, id),
			}
		}
		seen[parentID] = true
		chain = append(chain, parent)
		cur = parent
	}
	return chain, nil
}

// Descendants returns every folder whose path has path(id) as a strict prefix
// segment and whose parent chain actually passes through id. The chain check
// disambiguates siblings that share a slug (and therefore a path).
// Results are ordered by depth, then path, so parents precede children.
func (t *Tree) Descendants(id string) []docstore.Folder {
	root, ok := t.nodes[id]
	if !ok {
		return nil
	}

	var out []docstore.Folder
	for _, f := range t.nodes {
		if f.ID == id || !HasPathPrefix(f.Path, root.Path) || f.Path == root.Path {
			continue
		}
		if t.chainContains(f, id) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// IsDescendant reports whether ancestorID appears on id's parent chain.
// The walk follows parent_id only, so it stays correct when paths are stale.
func (t *Tree) IsDescendant(id, ancestorID string) bool {
	f, ok := t.nodes[id]
	if !ok || id == ancestorID {
		return false
	}
	return t.chainContains(f, ancestorID)
}

func (t *Tree) chainContains(f docstore.Folder, ancestorID string) bool {
	cur := f
	for hops := 0; cur.ParentID != nil && hops < MaxAncestorHops; hops++ {
		if *cur.ParentID == ancestorID {
			return true
		}
		parent, ok := t.nodes[*cur.ParentID]
		if !ok {
			return false
		}
		cur = parent
	}
	return false
}

// MissingParents returns parent ids referenced by indexed folders but not
// present in the index, sorted.
func (t *Tree) MissingParents() []string {
	missing := make(map[string]bool)
	for _, f := range t.nodes {
		if f.ParentID != nil && !t.Has(*f.ParentID) {
			missing[*f.ParentID] = true
		}
	}
	out := make([]string, 0, len(missing))
	for id := range missing {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Breadcrumb returns the ordered chain root → … → id.
func (t *Tree) Breadcrumb(id string) ([]docstore.Folder, error) {
	ancestors, err := t.Ancestors(id)
	if err != nil {
		return nil, err
	}
	crumbs := make([]docstore.Folder, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		crumbs = append(crumbs, ancestors[i])
	}
	return append(crumbs, t.nodes[id]), nil
}

// SortFolders orders folders by (sort_order, name, id) for diff-stable rendering.
func SortFolders(folders []docstore.Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		a, b := folders[i], folders[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
			return an < bn
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
