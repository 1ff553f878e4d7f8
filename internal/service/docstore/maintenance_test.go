package docstore

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
)

func TestRepairTreeFixesStalePaths(t *testing.T) {
	f := newFixture(t)
	f.projects()

	stale := f.folder("q1")
	stale.Path = "old/q1"
	stale.Depth = 7
	require.NoError(t, f.store.Folders().UpdateTreeFields(f.ctx, []models.Folder{stale}))

	report, err := f.svc.Maintenance.RepairTree(f.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Scanned)
	assert.False(t, report.Applied)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, docstoreSvc.PathChange{
		FolderID: "q1",
		OldPath:  "old/q1",
		NewPath:  "projects/2024/q1",
		OldDepth: 7,
		NewDepth: 2,
	}, report.Changes[0])
	assert.Equal(t, "old/q1", f.folder("q1").Path)

	report, err = f.svc.Maintenance.RepairTree(f.ctx, false)
	require.NoError(t, err)
	assert.True(t, report.Applied)
	assert.Equal(t, "projects/2024/q1", f.folder("q1").Path)
	assert.Equal(t, 2, f.folder("q1").Depth)

	report, err = f.svc.Maintenance.RepairTree(f.ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Changes)
	assert.False(t, report.Applied)
}

func TestRepairTreeReportsUnreachable(t *testing.T) {
	f := newFixture(t)
	f.projects()

	looped := f.folder("2024")
	looped.ParentID = strPtr("q1")
	require.NoError(t, f.store.Folders().UpdateTreeFields(f.ctx, []models.Folder{looped}))

	report, err := f.svc.Maintenance.RepairTree(f.ctx, false)
	require.NoError(t, err)
	assert.Contains(t, report.Unreachable, "3 folder(s) unreachable")
	assert.Empty(t, report.Changes)
}

func TestSweepOrphans(t *testing.T) {
	f := newFixture(t)
	f.projects()
	kept := f.file("kept", "kept.txt", "q1")

	f.objects.SetClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	require.NoError(t, f.objects.Put(f.ctx, "q1/old-orphan", []byte("x"), "text/plain"))
	f.objects.SetClock(time.Now)
	require.NoError(t, f.objects.Put(f.ctx, "q1/in-flight", []byte("x"), "text/plain"))

	report, err := f.svc.Maintenance.SweepOrphans(f.ctx, true, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, []string{"q1/old-orphan"}, report.Orphans)
	assert.Zero(t, report.Removed)
	assert.True(t, f.objects.Has("q1/old-orphan"))

	report, err = f.svc.Maintenance.SweepOrphans(f.ctx, false, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Removed)
	assert.Empty(t, report.Failures)
	assert.False(t, f.objects.Has("q1/old-orphan"))
	assert.True(t, f.objects.Has("q1/in-flight"))
	assert.True(t, f.objects.Has(kept.StoragePath))
}

func TestGrant(t *testing.T) {
	f := newFixture(t)
	folderID := uuid.NewString()
	userID := uuid.NewString()
	f.root(folderID, "Shared")

	require.NoError(t, f.svc.Maintenance.Grant(f.ctx, &docstoreSvc.GrantRequest{UserID: userID, FolderID: folderID, CanEdit: true}))
	grant, err := f.store.Grants().Get(f.ctx, userID, folderID)
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.True(t, grant.CanEdit)

	require.NoError(t, f.svc.Maintenance.Grant(f.ctx, &docstoreSvc.GrantRequest{UserID: userID, CanEdit: true}))
	global, err := f.store.Grants().HasGlobalEdit(f.ctx, userID)
	require.NoError(t, err)
	assert.True(t, global)

	err = f.svc.Maintenance.Grant(f.ctx, &docstoreSvc.GrantRequest{UserID: "not-a-uuid"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	err = f.svc.Maintenance.Grant(f.ctx, &docstoreSvc.GrantRequest{UserID: userID, FolderID: uuid.NewString()})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
