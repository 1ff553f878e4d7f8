package tree

import (
	"opsconsole/internal/config"
	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

// Plan describes the field rewrites produced by a move or rename.
// Folder and Descendants carry their post-change values.
type Plan struct {
	OldPath     string
	OldDepth    int
	Folder      docstore.Folder
	Descendants []docstore.Folder
}

// Changed returns every rewritten folder, the moved folder first.
func (p *Plan) Changed() []docstore.Folder {
	out := make([]docstore.Folder, 0, len(p.Descendants)+1)
	out = append(out, p.Folder)
	return append(out, p.Descendants...)
}

// DepthDelta is depth(folder)_after - depth(folder)_before.
func (p *Plan) DepthDelta() int {
	return p.Folder.Depth - p.OldDepth
}

// ApplyMove re-parents folderID under newParentID and rewrites the path and
// depth of the folder and every descendant. The input tree is not modified.
//
// The move is rejected with *domain.CycleError when newParentID is the folder
// itself or one of its descendants. Descendants are captured before any field
// is overwritten. A move that would push any folder of the subtree past
// config.MaxFolderDepth is rejected with *domain.ValidationError.
func ApplyMove(t *Tree, folderID, newParentID string) (*Tree, *Plan, error) {
	folder, ok := t.nodes[folderID]
	if !ok {
		return nil, nil, domain.NewNotFound("folder", folderID)
	}
	parent, ok := t.nodes[newParentID]
	if !ok {
		return nil, nil, domain.NewNotFound("folder", newParentID)
	}
	if newParentID == folderID || t.IsDescendant(newParentID, folderID) {
		return nil, nil, &domain.CycleError{FolderID: folderID, TargetID: newParentID}
	}

	descendants := t.Descendants(folderID)
	deepest := folder.Depth
	for _, d := range descendants {
		if d.Depth > deepest {
			deepest = d.Depth
		}
	}
	if parent.Depth+1+(deepest-folder.Depth) > config.MaxFolderDepth {
		return nil, nil, domain.NewValidation("moving folder %s under %s would nest folders deeper than %d",
			folderID, newParentID, config.MaxFolderDepth)
	}

	plan := &Plan{OldPath: folder.Path, OldDepth: folder.Depth}
	moved := folder
	parentID := parent.ID
	moved.ParentID = &parentID
	moved.Path = ChildPath(parent.Path, folder.Name)
	moved.Depth = parent.Depth + 1
	moved.Category = parent.Category

	next := t.clone()
	next.put(moved)
	plan.Folder = moved
	plan.Descendants = rewriteDescendants(next, descendants, plan.OldPath, plan.OldDepth, moved)
	return next, plan, nil
}

// ApplyRename renames folderID and recomputes the path of the folder and its
// descendants so that path stays slug(name)-derived. Depth is unchanged.
func ApplyRename(t *Tree, folderID, newName string) (*Tree, *Plan, error) {
	folder, ok := t.nodes[folderID]
	if !ok {
		return nil, nil, domain.NewNotFound("folder", folderID)
	}

	plan := &Plan{OldPath: folder.Path, OldDepth: folder.Depth}
	descendants := t.Descendants(folderID)

	renamed := folder
	renamed.Name = newName
	renamed.Path = ChildPath(parentPathOf(folder), newName)

	next := t.clone()
	next.put(renamed)
	plan.Folder = renamed
	plan.Descendants = rewriteDescendants(next, descendants, plan.OldPath, plan.OldDepth, renamed)
	return next, plan, nil
}

// parentPathOf derives the parent's path from the folder's own path.
func parentPathOf(f docstore.Folder) string {
	if f.ParentID == nil {
		return ""
	}
	for i := len(f.Path) - 1; i >= 0; i-- {
		if f.Path[i] == '/' {
			return f.Path[:i]
		}
	}
	return ""
}

func rewriteDescendants(next *Tree, descendants []docstore.Folder, oldPath string, oldDepth int, moved docstore.Folder) []docstore.Folder {
	out := make([]docstore.Folder, 0, len(descendants))
	for _, d := range descendants {
		d.Path = moved.Path + d.Path[len(oldPath):]
		d.Depth = d.Depth - oldDepth + moved.Depth
		next.put(d)
		out = append(out, d)
	}
	return out
}
