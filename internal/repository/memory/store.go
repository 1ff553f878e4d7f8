// Package memory is an in-process metadata store implementing the docstore
// repositories and TransactionManager. It backs tests and METADATA_BACKEND=memory.
package memory

import (
	"context"
	"sync"

	"opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/domain/repositories"
	repos "opsconsole/internal/domain/repositories/docstore"
)

type grantKey struct {
	userID   string
	folderID string
}

// Store holds every table. Transactions are serialized on txMu and roll back
// through a per-transaction undo log.
type Store struct {
	mu      sync.RWMutex
	folders map[string]docstore.Folder
	files   map[string]docstore.File
	grants  map[grantKey]docstore.FolderGrant
	editors map[string]bool

	txMu sync.Mutex
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		folders: make(map[string]docstore.Folder),
		files:   make(map[string]docstore.File),
		grants:  make(map[grantKey]docstore.FolderGrant),
		editors: make(map[string]bool),
	}
}

// Folders returns the folder repository view of the store.
func (s *Store) Folders() repos.FolderRepository { return &folderRepo{s: s} }

// Files returns the file repository view of the store.
func (s *Store) Files() repos.FileRepository { return &fileRepo{s: s} }

// Grants returns the grant repository view of the store.
func (s *Store) Grants() repos.GrantRepository { return &grantRepo{s: s} }

// TxManager returns the store's transaction manager.
func (s *Store) TxManager() repositories.TransactionManager { return &txManager{s: s} }

type inTxKey struct{}

type txManager struct {
	s *Store
}

// ExecTx runs fn with exclusive transactional access. Nested calls join the
// outer transaction. On error only the keys fn wrote are reverted, so writes
// made outside the transaction in the meantime survive the rollback.
func (tm *txManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}

	tm.s.txMu.Lock()
	defer tm.s.txMu.Unlock()

	log := newUndoLog()
	if err := fn(context.WithValue(ctx, inTxKey{}, log)); err != nil {
		tm.s.rollback(log)
		return err
	}
	return nil
}

// prior is a key's value before the transaction first wrote it.
type prior[V any] struct {
	value   V
	present bool
}

// undoLog records the prior value of every key a transaction writes.
// A nil *undoLog (no transaction) records nothing.
type undoLog struct {
	folders map[string]prior[docstore.Folder]
	files   map[string]prior[docstore.File]
	grants  map[grantKey]prior[docstore.FolderGrant]
	editors map[string]prior[bool]
}

func newUndoLog() *undoLog {
	return &undoLog{
		folders: make(map[string]prior[docstore.Folder]),
		files:   make(map[string]prior[docstore.File]),
		grants:  make(map[grantKey]prior[docstore.FolderGrant]),
		editors: make(map[string]prior[bool]),
	}
}

func txLog(ctx context.Context) *undoLog {
	log, _ := ctx.Value(inTxKey{}).(*undoLog)
	return log
}

// remember keeps the first prior value seen for key. Caller holds s.mu.
func remember[K comparable, V any](log map[K]prior[V], table map[K]V, key K) {
	if _, seen := log[key]; seen {
		return
	}
	v, ok := table[key]
	log[key] = prior[V]{value: v, present: ok}
}

func revert[K comparable, V any](table map[K]V, log map[K]prior[V]) {
	for k, p := range log {
		if p.present {
			table[k] = p.value
		} else {
			delete(table, k)
		}
	}
}

func (u *undoLog) folder(s *Store, id string) {
	if u != nil {
		remember(u.folders, s.folders, id)
	}
}

func (u *undoLog) file(s *Store, id string) {
	if u != nil {
		remember(u.files, s.files, id)
	}
}

func (u *undoLog) grant(s *Store, key grantKey) {
	if u != nil {
		remember(u.grants, s.grants, key)
	}
}

func (u *undoLog) editor(s *Store, userID string) {
	if u != nil {
		remember(u.editors, s.editors, userID)
	}
}

func (s *Store) rollback(log *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	revert(s.folders, log.folders)
	revert(s.files, log.files)
	revert(s.grants, log.grants)
	revert(s.editors, log.editors)
}

func cloneFolder(f docstore.Folder) docstore.Folder {
	if f.ParentID != nil {
		p := *f.ParentID
		f.ParentID = &p
	}
	if f.OwnerID != nil {
		o := *f.OwnerID
		f.OwnerID = &o
	}
	return f
}

func cloneFile(f docstore.File) docstore.File {
	if f.Metadata != nil {
		m := make(map[string]interface{}, len(f.Metadata))
		for k, v := range f.Metadata {
			m[k] = v
		}
		f.Metadata = m
	}
	if f.ThumbnailPath != nil {
		p := *f.ThumbnailPath
		f.ThumbnailPath = &p
	}
	return f
}
