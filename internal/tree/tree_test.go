package tree

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

func ptr(s string) *string { return &s }

func folder(id, name string, parentID *string, path string, depth int) docstore.Folder {
	return docstore.Folder{ID: id, Name: name, ParentID: parentID, Path: path, Depth: depth, Category: docstore.CategoryProjects}
}

// sampleTree:
//
//	projects
//	├── 2024
//	│   └── q1
//	└── projects-old (sibling root with a shared name prefix)
//	archive
func sampleTree() *Tree {
	return New([]docstore.Folder{
		folder("projects", "Projects", nil, "projects", 0),
		folder("2024", "2024", ptr("projects"), "projects/2024", 1),
		folder("q1", "Q1", ptr("2024"), "projects/2024/q1", 2),
		folder("projects-old", "Projects Old", nil, "projects-old", 0),
		{ID: "archive", Name: "Archive", Path: "archive", Category: docstore.CategoryArchive},
	})
}

func ids(folders []docstore.Folder) []string {
	out := make([]string, len(folders))
	for i, f := range folders {
		out[i] = f.ID
	}
	return out
}

func TestChildren(t *testing.T) {
	tr := sampleTree()

	tests := []struct {
		name     string
		parentID string
		want     []string
	}{
		{name: "roots", parentID: "", want: []string{"archive", "projects", "projects-old"}},
		{name: "single child", parentID: "projects", want: []string{"2024"}},
		{name: "leaf", parentID: "q1", want: []string{}},
		{name: "unknown parent", parentID: "nope", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tr.Children(tt.parentID)))
		})
	}
}

func TestChildrenSortOrder(t *testing.T) {
	a := folder("a", "Zeta", ptr("p"), "p/zeta", 1)
	b := folder("b", "alpha", ptr("p"), "p/alpha", 1)
	c := folder("c", "Mid", ptr("p"), "p/mid", 1)
	c.SortOrder = -1
	tr := New([]docstore.Folder{folder("p", "P", nil, "p", 0), a, b, c})

	assert.Equal(t, []string{"c", "b", "a"}, ids(tr.Children("p")))
}

func TestAncestors(t *testing.T) {
	tr := sampleTree()

	chain, err := tr.Ancestors("q1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024", "projects"}, ids(chain))

	chain, err = tr.Ancestors("projects")
	require.NoError(t, err)
	assert.Empty(t, chain)

	_, err = tr.Ancestors("missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAncestorsDetectsCycle(t *testing.T) {
	tr := New([]docstore.Folder{
		folder("a", "A", ptr("b"), "b/a", 1),
		folder("b", "B", ptr("a"), "a/b", 1),
	})

	_, err := tr.Ancestors("a")
	var corrupt *domain.CorruptTreeError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, "a", corrupt.FolderID)
}

func TestAncestorsHopBound(t *testing.T) {
	// A straight chain one longer than the bound.
	var folders []docstore.Folder
	var parent *string
	path := ""
	for i := 0; i <= MaxAncestorHops+1; i++ {
		id := "f" + strings.Repeat("x", i)
		path = ChildPath(path, id)
		folders = append(folders, folder(id, id, parent, path, i))
		parent = ptr(id)
	}
	tr := New(folders)
	deepest := folders[len(folders)-1].ID

	_, err := tr.Ancestors(deepest)
	assert.True(t, errors.Is(err, domain.ErrCorruptTree))

	// Exactly at the bound still resolves.
	chain, err := tr.Ancestors(folders[MaxAncestorHops].ID)
	require.NoError(t, err)
	assert.Len(t, chain, MaxAncestorHops)
}

func TestDescendants(t *testing.T) {
	tr := sampleTree()

	assert.Equal(t, []string{"2024", "q1"}, ids(tr.Descendants("projects")))
	assert.Equal(t, []string{"q1"}, ids(tr.Descendants("2024")))
	assert.Empty(t, tr.Descendants("q1"))
	assert.Empty(t, tr.Descendants("missing"))
}

func TestDescendantsSkipsSharedNamePrefix(t *testing.T) {
	tr := New([]docstore.Folder{
		folder("p", "Projects", nil, "projects", 0),
		folder("po", "Projects Old", nil, "projects-old", 0),
		folder("po-child", "X", ptr("po"), "projects-old/x", 1),
	})

	assert.Empty(t, tr.Descendants("p"))
}

func TestDescendantsDisambiguatesDuplicatePaths(t *testing.T) {
	tr := New([]docstore.Folder{
		folder("root", "Root", nil, "root", 0),
		folder("dup1", "Docs", ptr("root"), "root/docs", 1),
		folder("dup2", "docs", ptr("root"), "root/docs", 1),
		folder("c1", "A", ptr("dup1"), "root/docs/a", 2),
		folder("c2", "B", ptr("dup2"), "root/docs/b", 2),
	})

	assert.Equal(t, []string{"c1"}, ids(tr.Descendants("dup1")))
	assert.Equal(t, []string{"c2"}, ids(tr.Descendants("dup2")))
	assert.False(t, tr.IsDescendant("c2", "dup1"))
	assert.True(t, tr.IsDescendant("c2", "dup2"))
}

func TestBreadcrumb(t *testing.T) {
	tr := sampleTree()

	crumbs, err := tr.Breadcrumb("q1")
	require.NoError(t, err)
	assert.Equal(t, []string{"projects", "2024", "q1"}, ids(crumbs))

	crumbs, err = tr.Breadcrumb("archive")
	require.NoError(t, err)
	assert.Equal(t, []string{"archive"}, ids(crumbs))
}

func TestMissingParents(t *testing.T) {
	tr := New([]docstore.Folder{
		folder("a", "A", ptr("gone"), "x/a", 1),
		folder("b", "B", ptr("a"), "x/a/b", 2),
		folder("c", "C", ptr("also-gone"), "y/c", 1),
	})

	assert.Equal(t, []string{"also-gone", "gone"}, tr.MissingParents())
}

func TestDepthMatchesAncestorCount(t *testing.T) {
	tr := sampleTree()

	for _, f := range tr.Folders() {
		chain, err := tr.Ancestors(f.ID)
		require.NoError(t, err)
		assert.Equal(t, f.Depth, len(chain), "depth of %s", f.ID)

		segments := []string{Slug(f.Name)}
		for _, a := range chain {
			segments = append([]string{Slug(a.Name)}, segments...)
		}
		assert.Equal(t, strings.Join(segments, "/"), f.Path, "path of %s", f.ID)
	}
}
