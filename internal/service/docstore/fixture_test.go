package docstore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"opsconsole/internal/config"
	models "opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/objectstore"
	"opsconsole/internal/repository/memory"
	"opsconsole/internal/tree"
)

var (
	admin    = &models.Principal{ID: "admin-1", Class: models.PrincipalStaff, Roles: []string{"admin"}}
	staff    = &models.Principal{ID: "staff-1", Class: models.PrincipalStaff}
	client   = &models.Principal{ID: "client-1", Class: models.PrincipalClient}
	prospect = &models.Principal{ID: "prospect-1", Class: models.PrincipalProspect}
)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *memory.Store
	objects *objectstore.MemoryStore
	policy  *config.AccessPolicy
	svc     *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	objects := objectstore.NewMemoryStore()
	policy := config.DefaultAccessPolicy()
	policy.HiddenRoots = []string{"vault"}
	cfg := &config.Config{MaxUploadBytes: 1 << 10, SignedURLTTL: time.Minute}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := SetupServices(Repositories{
		Folders:   store.Folders(),
		Files:     store.Files(),
		Grants:    store.Grants(),
		TxManager: store.TxManager(),
	}, objects, cfg, policy, logger)

	return &fixture{
		t:       t,
		ctx:     context.Background(),
		store:   store,
		objects: objects,
		policy:  policy,
		svc:     svc,
	}
}

// root adds a depth-0 folder
func (f *fixture) root(id, name string) models.Folder {
	f.t.Helper()
	folder := tree.NewRoot(name, models.CategoryProjects)
	folder.ID = id
	folder.CreatedAt = time.Now()
	require.NoError(f.t, f.store.Folders().Create(f.ctx, &folder))
	return folder
}

// child adds a folder under parentID
func (f *fixture) child(id, name, parentID string) models.Folder {
	f.t.Helper()
	parent, err := f.store.Folders().GetByID(f.ctx, parentID)
	require.NoError(f.t, err)
	folder := tree.NewChild(*parent, name)
	folder.ID = id
	require.NoError(f.t, f.store.Folders().Create(f.ctx, &folder))
	return folder
}

// file adds a file record and its stored object
func (f *fixture) file(id, name, folderID string) models.File {
	f.t.Helper()
	file := models.File{
		ID:          id,
		Name:        name,
		FolderID:    folderID,
		StoragePath: folderID + "/" + id,
		MimeType:    "text/plain",
		Kind:        models.FileKindDocument,
	}
	require.NoError(f.t, f.objects.Put(f.ctx, file.StoragePath, []byte(name), file.MimeType))
	require.NoError(f.t, f.store.Files().Create(f.ctx, &file))
	return file
}

func (f *fixture) grant(userID, folderID string, canEdit bool) {
	f.t.Helper()
	require.NoError(f.t, f.store.Grants().Upsert(f.ctx, &models.FolderGrant{
		UserID: userID, FolderID: folderID, CanEdit: canEdit,
	}))
}

func (f *fixture) folder(id string) models.Folder {
	f.t.Helper()
	folder, err := f.store.Folders().GetByID(f.ctx, id)
	require.NoError(f.t, err)
	return *folder
}

// projects builds Projects/2024/{Q1,Q2} and an unrelated Archive root
func (f *fixture) projects() {
	f.root("projects", "Projects")
	f.child("2024", "2024", "projects")
	f.child("q1", "Q1", "2024")
	f.child("q2", "Q2", "2024")
	f.root("archive", "Archive")
}

func folderIDs(folders []models.Folder) []string {
	out := make([]string, len(folders))
	for i, f := range folders {
		out[i] = f.ID
	}
	return out
}
