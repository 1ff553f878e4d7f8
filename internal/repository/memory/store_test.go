package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

func ptr(s string) *string { return &s }

func seed(t *testing.T, s *Store, folders ...docstore.Folder) {
	t.Helper()
	for i := range folders {
		require.NoError(t, s.Folders().Create(context.Background(), &folders[i]))
	}
}

func TestExecTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, docstore.Folder{ID: "root", Name: "Root", Path: "root"})

	boom := errors.New("boom")
	err := s.TxManager().ExecTx(ctx, func(ctx context.Context) error {
		f := docstore.Folder{ID: "child", Name: "Child", ParentID: ptr("root"), Path: "root/child", Depth: 1}
		require.NoError(t, s.Folders().Create(ctx, &f))
		require.NoError(t, s.Grants().SetGlobalEdit(ctx, "u1", true))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Folders().GetByID(ctx, "child")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	ok, _ := s.Grants().HasGlobalEdit(ctx, "u1")
	assert.False(t, ok)
}

func TestExecTxRollbackKeepsWritesOutsideTx(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s,
		docstore.Folder{ID: "root", Name: "Root", Path: "root"},
		docstore.Folder{ID: "docs", Name: "Docs", ParentID: ptr("root"), Path: "root/docs", Depth: 1},
	)

	boom := errors.New("boom")
	err := s.TxManager().ExecTx(ctx, func(txCtx context.Context) error {
		moved := docstore.Folder{ID: "docs", Name: "Docs", Path: "docs"}
		require.NoError(t, s.Folders().UpdateTreeFields(txCtx, []docstore.Folder{moved}))
		_, err := s.Files().DeleteByIDs(txCtx, []string{"missing"})
		require.NoError(t, err)

		// another request writes while the transaction is open
		upload := docstore.File{ID: "upload", Name: "report.pdf", FolderID: "root", StoragePath: "root/upload"}
		require.NoError(t, s.Files().Create(ctx, &upload))
		require.NoError(t, s.Grants().Upsert(ctx, &docstore.FolderGrant{UserID: "u1", FolderID: "root"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	docs, err := s.Folders().GetByID(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "root/docs", docs.Path)
	assert.Equal(t, 1, docs.Depth)
	require.NotNil(t, docs.ParentID)
	assert.Equal(t, "root", *docs.ParentID)

	upload, err := s.Files().GetByID(ctx, "upload")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", upload.Name)
	g, err := s.Grants().Get(ctx, "u1", "root")
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestExecTxNestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	tm := s.TxManager()

	err := tm.ExecTx(ctx, func(ctx context.Context) error {
		return tm.ExecTx(ctx, func(ctx context.Context) error {
			f := docstore.Folder{ID: "a", Name: "A", Path: "a"}
			return s.Folders().Create(ctx, &f)
		})
	})
	require.NoError(t, err)

	_, err = s.Folders().GetByID(ctx, "a")
	assert.NoError(t, err)
}

func TestListAccessibleIsAncestorComplete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s,
		docstore.Folder{ID: "clients", Name: "Clients", Path: "clients"},
		docstore.Folder{ID: "acme", Name: "Acme", ParentID: ptr("clients"), Path: "clients/acme", Depth: 1},
		docstore.Folder{ID: "contracts", Name: "Contracts", ParentID: ptr("acme"), Path: "clients/acme/contracts", Depth: 2},
		docstore.Folder{ID: "signed", Name: "Signed", ParentID: ptr("contracts"), Path: "clients/acme/contracts/signed", Depth: 3},
		docstore.Folder{ID: "globex", Name: "Globex", ParentID: ptr("clients"), Path: "clients/globex", Depth: 1},
		docstore.Folder{ID: "home", Name: "Acme Portal", Path: "acme-portal", OwnerID: ptr("u1")},
		docstore.Folder{ID: "inbox", Name: "Inbox", ParentID: ptr("home"), Path: "acme-portal/inbox", Depth: 1},
	)
	require.NoError(t, s.Grants().Upsert(ctx, &docstore.FolderGrant{UserID: "u1", FolderID: "contracts"}))

	folders, err := s.Folders().ListAccessible(ctx, "u1")
	require.NoError(t, err)

	var got []string
	for _, f := range folders {
		got = append(got, f.ID)
	}
	assert.ElementsMatch(t, []string{"clients", "acme", "contracts", "signed", "home", "inbox"}, got)
}

func TestGetPersonalRootID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	id, err := s.Folders().GetPersonalRootID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, id)

	seed(t, s,
		docstore.Folder{ID: "late", Name: "B", Path: "b", OwnerID: ptr("u1"), CreatedAt: time.Unix(200, 0)},
		docstore.Folder{ID: "early", Name: "A", Path: "a", OwnerID: ptr("u1"), CreatedAt: time.Unix(100, 0)},
	)
	id, err = s.Folders().GetPersonalRootID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "early", *id)
}

func TestListAncestryStopsAtCycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.folders["a"] = docstore.Folder{ID: "a", ParentID: ptr("b")}
	s.folders["b"] = docstore.Folder{ID: "b", ParentID: ptr("a")}

	chain, err := s.Folders().ListAncestry(ctx, "a", 64)
	require.NoError(t, err)
	assert.Len(t, chain, 2)
}

func TestDeleteByFolderIDsDropsGrants(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	grants := s.Grants()
	require.NoError(t, grants.Upsert(ctx, &docstore.FolderGrant{UserID: "u1", FolderID: "f1", CanEdit: true}))
	require.NoError(t, grants.Upsert(ctx, &docstore.FolderGrant{UserID: "u1", FolderID: "f2"}))

	require.NoError(t, grants.DeleteByFolderIDs(ctx, []string{"f1"}))

	list, err := grants.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "f2", list[0].FolderID)

	g, err := grants.Get(ctx, "u1", "f1")
	require.NoError(t, err)
	assert.Nil(t, g)
}
