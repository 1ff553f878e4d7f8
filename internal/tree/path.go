package tree

import (
	"strings"

	"opsconsole/internal/config"
	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

// Slug normalizes a folder name for use as a path segment:
// lowercased, whitespace runs collapsed to "-", slashes replaced.
//
// Examples:
//   - Slug("Q1") → "q1"
//   - Slug("  Client  Files ") → "client-files"
func Slug(name string) string {
	s := strings.ToLower(strings.ReplaceAll(name, "/", "-"))
	return strings.Join(strings.Fields(s), "-")
}

// ChildPath builds the materialized path of a child named name under parentPath.
// An empty parentPath yields a root path.
func ChildPath(parentPath, name string) string {
	if parentPath == "" {
		return Slug(name)
	}
	return parentPath + "/" + Slug(name)
}

// HasPathPrefix reports whether path equals prefix or continues it with "/".
// "projects/2024" is under "projects" but "projects-old" is not.
func HasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// NewRoot returns a depth-0 folder named name.
func NewRoot(name string, category docstore.Category) docstore.Folder {
	return docstore.Folder{
		Name:     name,
		Category: category,
		Path:     Slug(name),
		Depth:    0,
	}
}

// CheckChildDepth rejects a new child of parent that would sit deeper than
// config.MaxFolderDepth.
func CheckChildDepth(parent docstore.Folder) error {
	if parent.Depth+1 > config.MaxFolderDepth {
		return domain.NewValidation("folder %s is at depth %d; folders cannot be nested deeper than %d",
			parent.ID, parent.Depth, config.MaxFolderDepth)
	}
	return nil
}

// NewChild returns a folder named name placed under parent. Category and
// color are inherited from the parent.
func NewChild(parent docstore.Folder, name string) docstore.Folder {
	parentID := parent.ID
	return docstore.Folder{
		Name:     name,
		ParentID: &parentID,
		Category: parent.Category,
		Color:    parent.Color,
		Path:     ChildPath(parent.Path, name),
		Depth:    parent.Depth + 1,
	}
}
