package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/domain/repositories"
	"opsconsole/internal/repository/postgres"
)

// batchTx records batches sent through it. Only SendBatch is implemented.
type batchTx struct {
	pgx.Tx
	batches  []*pgx.Batch
	affected []int64
	closed   int
}

func (tx *batchTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	tx.batches = append(tx.batches, b)
	return &batchResults{tx: tx}
}

type batchResults struct {
	tx   *batchTx
	next int
}

func (r *batchResults) Exec() (pgconn.CommandTag, error) {
	n := r.tx.affected[r.next]
	r.next++
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", n)), nil
}

func (r *batchResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *batchResults) QueryRow() pgx.Row        { return nil }
func (r *batchResults) Close() error {
	r.tx.closed++
	return nil
}

func newTestFolderRepo() *PostgresFolderRepository {
	return &PostgresFolderRepository{tables: postgres.NewTableNames("test_")}
}

func TestUpdateTreeFieldsSendsOneBatch(t *testing.T) {
	parent := "archive"
	folders := []models.Folder{
		{ID: "2024", Name: "2024", ParentID: &parent, Path: "archive/2024", Depth: 1, Category: models.CategoryArchive},
		{ID: "q1", Name: "Q1", ParentID: ptr("2024"), Path: "archive/2024/q1", Depth: 2, Category: models.CategoryProjects},
	}

	tx := &batchTx{affected: []int64{1, 1}}
	ctx := repositories.SetTx(context.Background(), tx)

	require.NoError(t, newTestFolderRepo().UpdateTreeFields(ctx, folders))

	require.Len(t, tx.batches, 1)
	queued := tx.batches[0].QueuedQueries
	require.Len(t, queued, 2)
	assert.Contains(t, queued[0].SQL, "UPDATE test_folders")
	assert.Equal(t, "archive/2024/q1", queued[1].Arguments[2])
	assert.Equal(t, 2, queued[1].Arguments[3])
	assert.Equal(t, "q1", queued[1].Arguments[5])
	assert.Positive(t, tx.closed)
}

func TestUpdateTreeFieldsMissingRow(t *testing.T) {
	folders := []models.Folder{
		{ID: "a", Name: "A", Path: "a"},
		{ID: "gone", Name: "Gone", Path: "gone"},
	}
	tx := &batchTx{affected: []int64{1, 0}}
	ctx := repositories.SetTx(context.Background(), tx)

	err := newTestFolderRepo().UpdateTreeFields(ctx, folders)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
	assert.Contains(t, err.Error(), "gone")
}

func TestUpdateTreeFieldsEmpty(t *testing.T) {
	tx := &batchTx{}
	ctx := repositories.SetTx(context.Background(), tx)

	require.NoError(t, newTestFolderRepo().UpdateTreeFields(ctx, nil))
	assert.Empty(t, tx.batches)
}

func ptr(s string) *string { return &s }
