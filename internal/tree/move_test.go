package tree

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/config"
	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

func TestApplyMoveScenario(t *testing.T) {
	tr := sampleTree()

	next, plan, err := ApplyMove(tr, "2024", "archive")
	require.NoError(t, err)

	moved, _ := next.Get("2024")
	assert.Equal(t, "archive/2024", moved.Path)
	assert.Equal(t, 1, moved.Depth)
	assert.Equal(t, "archive", *moved.ParentID)
	assert.Equal(t, docstore.CategoryArchive, moved.Category)

	q1, _ := next.Get("q1")
	assert.Equal(t, "archive/2024/q1", q1.Path)
	assert.Equal(t, 2, q1.Depth)

	assert.Equal(t, "projects/2024", plan.OldPath)
	assert.Equal(t, []string{"2024", "q1"}, ids(plan.Changed()))
	assert.Equal(t, 0, plan.DepthDelta())

	assert.Empty(t, next.Children("projects"))
	assert.Equal(t, []string{"2024"}, ids(next.Children("archive")))

	// input tree untouched
	orig, _ := tr.Get("2024")
	assert.Equal(t, "projects/2024", orig.Path)
	assert.Equal(t, []string{"2024"}, ids(tr.Children("projects")))
}

func TestApplyMoveRejectsCycles(t *testing.T) {
	tr := sampleTree()

	tests := []struct {
		name   string
		folder string
		target string
	}{
		{name: "into itself", folder: "2024", target: "2024"},
		{name: "into child", folder: "projects", target: "2024"},
		{name: "into grandchild", folder: "projects", target: "q1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, plan, err := ApplyMove(tr, tt.folder, tt.target)
			assert.True(t, errors.Is(err, domain.ErrCycle))
			assert.Nil(t, next)
			assert.Nil(t, plan)

			f, _ := tr.Get(tt.folder)
			assert.Equal(t, sampleTree().nodes[tt.folder], f)
		})
	}
}

func TestApplyMoveMissing(t *testing.T) {
	tr := sampleTree()

	_, _, err := ApplyMove(tr, "missing", "archive")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, _, err = ApplyMove(tr, "2024", "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestApplyMoveLeafTouchesOnlyItself(t *testing.T) {
	tr := sampleTree()

	_, plan, err := ApplyMove(tr, "q1", "archive")
	require.NoError(t, err)
	assert.Empty(t, plan.Descendants)
	assert.Equal(t, "archive/q1", plan.Folder.Path)
	assert.Equal(t, -1, plan.DepthDelta())
}

func TestApplyMoveRewritesDeepSubtree(t *testing.T) {
	tr := New([]docstore.Folder{
		folder("a", "A", nil, "a", 0),
		folder("b", "B", ptr("a"), "a/b", 1),
		folder("c", "C", ptr("b"), "a/b/c", 2),
		folder("d", "D", ptr("c"), "a/b/c/d", 3),
		folder("e", "E", ptr("b"), "a/b/e", 2),
		folder("x", "X", nil, "x", 0),
		folder("y", "Y", ptr("x"), "x/y", 1),
		folder("z", "Z", ptr("y"), "x/y/z", 2),
	})
	before := tr.Descendants("b")

	next, plan, err := ApplyMove(tr, "b", "z")
	require.NoError(t, err)

	newB, _ := next.Get("b")
	assert.True(t, strings.HasPrefix(newB.Path, "x/y/z/"))
	for _, d := range before {
		after, ok := next.Get(d.ID)
		require.True(t, ok)
		assert.Equal(t, newB.Path+strings.TrimPrefix(d.Path, "a/b"), after.Path)
		assert.Equal(t, plan.DepthDelta(), after.Depth-d.Depth)
		// category of descendants is left as created
		assert.Equal(t, d.Category, after.Category)
	}

	// invariants hold on the whole result
	_, changed, err := Recompute(next.Folders())
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestApplyRename(t *testing.T) {
	tr := sampleTree()

	next, plan, err := ApplyRename(tr, "2024", "Fiscal 2024")
	require.NoError(t, err)

	f, _ := next.Get("2024")
	assert.Equal(t, "Fiscal 2024", f.Name)
	assert.Equal(t, "projects/fiscal-2024", f.Path)
	assert.Equal(t, 1, f.Depth)

	q1, _ := next.Get("q1")
	assert.Equal(t, "projects/fiscal-2024/q1", q1.Path)
	assert.Equal(t, 0, plan.DepthDelta())

	next, _, err = ApplyRename(tr, "projects", "Active Projects")
	require.NoError(t, err)
	q1, _ = next.Get("q1")
	assert.Equal(t, "active-projects/2024/q1", q1.Path)
}

// chain returns folders prefix0..prefix(n-1), each the child of the previous.
func chain(prefix string, n int) []docstore.Folder {
	out := make([]docstore.Folder, 0, n)
	var parentID *string
	path := ""
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		if path == "" {
			path = id
		} else {
			path += "/" + id
		}
		out = append(out, folder(id, id, parentID, path, i))
		parentID = ptr(id)
	}
	return out
}

func TestApplyMoveDepthLimit(t *testing.T) {
	// deep target: t0..t(MaxFolderDepth) so the last one sits at the limit
	folders := chain("t", config.MaxFolderDepth+1)
	// three-level subtree s0/s1/s2
	folders = append(folders, chain("s", 3)...)
	tr := New(folders)

	tests := []struct {
		name    string
		folder  string
		target  string
		wantErr error
	}{
		{name: "subtree fits", folder: "s0", target: fmt.Sprintf("t%d", config.MaxFolderDepth-3), wantErr: nil},
		{name: "deepest descendant over limit", folder: "s0", target: fmt.Sprintf("t%d", config.MaxFolderDepth-2), wantErr: domain.ErrValidation},
		{name: "leaf under folder at limit", folder: "s2", target: fmt.Sprintf("t%d", config.MaxFolderDepth), wantErr: domain.ErrValidation},
		{name: "leaf one above limit", folder: "s2", target: fmt.Sprintf("t%d", config.MaxFolderDepth-1), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, plan, err := ApplyMove(tr, tt.folder, tt.target)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, next)
				assert.Nil(t, plan)
				return
			}
			require.NoError(t, err)
			for _, f := range plan.Changed() {
				assert.LessOrEqual(t, f.Depth, config.MaxFolderDepth)
				_, err := next.Ancestors(f.ID)
				assert.NoError(t, err)
			}
		})
	}
}
