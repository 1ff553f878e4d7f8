package docstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/config"
	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/tree"
)

func TestMoveRewritesSubtree(t *testing.T) {
	f := newFixture(t)
	f.projects()

	result, err := f.svc.Item.Move(f.ctx, admin, &docstoreSvc.MoveRequest{
		Items:          []models.ItemRef{models.FolderRef("2024")},
		TargetFolderID: "archive",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024"}, result.Succeeded)

	moved := f.folder("2024")
	assert.Equal(t, "archive/2024", moved.Path)
	assert.Equal(t, 1, moved.Depth)
	assert.Equal(t, "archive", *moved.ParentID)

	q1 := f.folder("q1")
	assert.Equal(t, "archive/2024/q1", q1.Path)
	assert.Equal(t, 2, q1.Depth)
	assert.Equal(t, "archive/2024/q2", f.folder("q2").Path)
}

func TestMoveIntoDescendantIsRejectedWithoutMutation(t *testing.T) {
	tests := []struct {
		name   string
		items  []models.ItemRef
		target string
	}{
		{"into itself", []models.ItemRef{models.FolderRef("2024")}, "2024"},
		{"into child", []models.ItemRef{models.FolderRef("projects")}, "2024"},
		{"into grandchild", []models.ItemRef{models.FolderRef("projects")}, "q1"},
		{"one bad item poisons the batch", []models.ItemRef{models.FolderRef("archive"), models.FolderRef("2024")}, "q1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.projects()
			before, err := f.store.Folders().ListAll(f.ctx)
			require.NoError(t, err)

			_, err = f.svc.Item.Move(f.ctx, admin, &docstoreSvc.MoveRequest{Items: tt.items, TargetFolderID: tt.target})
			var cycle *domain.CycleError
			require.ErrorAs(t, err, &cycle)

			after, err := f.store.Folders().ListAll(f.ctx)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestMoveMixedBatchReportsPerItem(t *testing.T) {
	f := newFixture(t)
	f.projects()
	f.file("notes", "notes.txt", "q1")

	result, err := f.svc.Item.Move(f.ctx, admin, &docstoreSvc.MoveRequest{
		Items: []models.ItemRef{
			models.FolderRef("q2"),
			models.FileRef("notes"),
			models.FolderRef("gone"),
		},
		TargetFolderID: "archive",
	})

	var partial *domain.PartialBatchFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"q2", "notes"}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "gone", result.Failed[0].ID)

	assert.Equal(t, "archive/q2", f.folder("q2").Path)
	moved, err := f.store.Files().GetByID(f.ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, "archive", moved.FolderID)
}

func TestMoveNestedPayloadFolders(t *testing.T) {
	f := newFixture(t)
	f.projects()

	result, err := f.svc.Item.Move(f.ctx, admin, &docstoreSvc.MoveRequest{
		Items:          []models.ItemRef{models.FolderRef("2024"), models.FolderRef("q1")},
		TargetFolderID: "archive",
	})
	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 2)

	assert.Equal(t, "archive/2024", f.folder("2024").Path)
	assert.Equal(t, "archive/q1", f.folder("q1").Path)
	assert.Equal(t, 1, f.folder("q1").Depth)
	assert.Equal(t, "archive/2024/q2", f.folder("q2").Path)
}

func TestMoveRequiresEditOnTarget(t *testing.T) {
	f := newFixture(t)
	f.projects()

	_, err := f.svc.Item.Move(f.ctx, staff, &docstoreSvc.MoveRequest{
		Items:          []models.ItemRef{models.FolderRef("q1")},
		TargetFolderID: "archive",
	})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, "projects/2024/q1", f.folder("q1").Path)
}

func TestRenameFolderRewritesDescendantPaths(t *testing.T) {
	f := newFixture(t)
	f.projects()

	res, err := f.svc.Item.Rename(f.ctx, admin, &docstoreSvc.RenameRequest{
		ItemID:   "projects",
		IsFolder: true,
		Name:     "  Client Work ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Client Work", res.Folder.Name)
	assert.Equal(t, "client-work", res.Folder.Path)

	assert.Equal(t, "client-work/2024", f.folder("2024").Path)
	assert.Equal(t, "client-work/2024/q1", f.folder("q1").Path)
	assert.Equal(t, 2, f.folder("q1").Depth)
	assert.Equal(t, "archive", f.folder("archive").Path)
}

func TestRenameValidation(t *testing.T) {
	f := newFixture(t)
	f.projects()
	f.file("notes", "notes.txt", "q1")

	tests := []struct {
		name    string
		req     docstoreSvc.RenameRequest
		wantErr error
	}{
		{"empty folder name", docstoreSvc.RenameRequest{ItemID: "q1", IsFolder: true, Name: "   "}, domain.ErrValidation},
		{"slash in folder name", docstoreSvc.RenameRequest{ItemID: "q1", IsFolder: true, Name: "a/b"}, domain.ErrValidation},
		{"slash in file name", docstoreSvc.RenameRequest{ItemID: "notes", Name: "a/b.txt"}, domain.ErrValidation},
		{"missing folder", docstoreSvc.RenameRequest{ItemID: "nope", IsFolder: true, Name: "X"}, domain.ErrNotFound},
		{"missing file", docstoreSvc.RenameRequest{ItemID: "nope", Name: "x.txt"}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.Item.Rename(f.ctx, admin, &req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestRenameFile(t *testing.T) {
	f := newFixture(t)
	f.projects()
	f.file("notes", "notes.txt", "q1")

	res, err := f.svc.Item.Rename(f.ctx, admin, &docstoreSvc.RenameRequest{ItemID: "notes", Name: "minutes.txt"})
	require.NoError(t, err)
	assert.Equal(t, "minutes.txt", res.File.Name)
	assert.Equal(t, "q1/notes", res.File.StoragePath)
}

func TestSystemFolderIsProtected(t *testing.T) {
	f := newFixture(t)
	f.projects()
	shared := tree.NewRoot("Shared", models.CategoryGeneral)
	shared.ID = "shared"
	shared.IsSystem = true
	require.NoError(t, f.store.Folders().Create(f.ctx, &shared))

	_, err := f.svc.Item.Rename(f.ctx, admin, &docstoreSvc.RenameRequest{ItemID: "shared", IsFolder: true, Name: "Other"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	result, err := f.svc.Item.Delete(f.ctx, admin, &docstoreSvc.DeleteRequest{Items: []models.ItemRef{models.FolderRef("shared")}})
	assert.True(t, errors.Is(err, domain.ErrPartialBatch))
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "shared", f.folder("shared").ID)

	// system folders may still be moved
	_, err = f.svc.Item.Move(f.ctx, admin, &docstoreSvc.MoveRequest{
		Items:          []models.ItemRef{models.FolderRef("shared")},
		TargetFolderID: "archive",
	})
	require.NoError(t, err)
	assert.Equal(t, "archive/shared", f.folder("shared").Path)
}

func TestMoveRejectsSubtreePastDepthLimit(t *testing.T) {
	f := newFixture(t)
	f.projects()

	// archive/d1/.../d(MaxFolderDepth-1)
	parentID := "archive"
	for depth := 1; depth < config.MaxFolderDepth; depth++ {
		id := fmt.Sprintf("d%d", depth)
		f.child(id, id, parentID)
		parentID = id
	}

	// 2024 carries q1 and q2 one level below it, so it would land at the
	// limit with its children past it
	result, err := f.svc.Item.Move(f.ctx, admin, &docstoreSvc.MoveRequest{
		Items:          []models.ItemRef{models.FolderRef("2024"), models.FolderRef("q1")},
		TargetFolderID: parentID,
	})
	var partial *domain.PartialBatchFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"q1"}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "2024", result.Failed[0].ID)

	assert.Equal(t, "projects/2024", f.folder("2024").Path)
	assert.Equal(t, "projects/2024/q2", f.folder("q2").Path)
	assert.Equal(t, config.MaxFolderDepth, f.folder("q1").Depth)

	_, err = f.svc.Access.AccessibleTree(f.ctx, admin)
	assert.NoError(t, err)
}
