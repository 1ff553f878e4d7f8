package tree

import (
	"fmt"
	"sort"
	"strings"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

// Recompute rebuilds path and depth for every folder reachable from a root by
// walking parent_id downward. It returns the repaired tree and the folders
// whose path or depth changed.
//
// Folders that cannot be reached from any root (parent missing, or part of a
// parent_id cycle) are left untouched and reported through a
// *domain.CorruptTreeError; the returned tree and changes are still valid for
// the reachable part.
func Recompute(folders []docstore.Folder) (*Tree, []docstore.Folder, error) {
	t := New(folders)
	next := t.clone()

	var changed []docstore.Folder
	visited := make(map[string]bool, len(t.nodes))

	type item struct {
		id         string
		parentPath string
		depth      int
	}
	var queue []item
	for _, root := range t.Roots() {
		queue = append(queue, item{id: root.ID})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true

		f := t.nodes[cur.id]
		path := ChildPath(cur.parentPath, f.Name)
		if f.Path != path || f.Depth != cur.depth {
			f.Path = path
			f.Depth = cur.depth
			next.put(f)
			changed = append(changed, f)
		}
		for _, childID := range t.children[cur.id] {
			queue = append(queue, item{id: childID, parentPath: path, depth: cur.depth + 1})
		}
	}

	if len(visited) == len(t.nodes) {
		return next, changed, nil
	}

	var unreachable []string
	for id := range t.nodes {
		if !visited[id] {
			unreachable = append(unreachable, id)
		}
	}
	sort.Strings(unreachable)
	return next, changed, &domain.CorruptTreeError{
		FolderID: unreachable[0],
		Detail: fmt.Sprintf("%d folder(s) unreachable from any root (cycle or missing parent): %s",
			len(unreachable), strings.Join(unreachable, ", ")),
	}
}
