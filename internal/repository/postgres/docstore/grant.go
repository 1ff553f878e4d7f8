package docstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	models "opsconsole/internal/domain/models/docstore"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	"opsconsole/internal/repository/postgres"
)

// PostgresGrantRepository implements the GrantRepository interface
type PostgresGrantRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewGrantRepository creates a new grant repository
func NewGrantRepository(config *postgres.RepositoryConfig) docstoreRepo.GrantRepository {
	return &PostgresGrantRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func (r *PostgresGrantRepository) ListByUser(ctx context.Context, userID string) ([]models.FolderGrant, error) {
	query := fmt.Sprintf(`
		SELECT user_id, folder_id, can_edit, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY folder_id
	`, r.tables.FolderPermissions)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	grants, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.FolderGrant])
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	return grants, nil
}

func (r *PostgresGrantRepository) Get(ctx context.Context, userID, folderID string) (*models.FolderGrant, error) {
	query := fmt.Sprintf(`
		SELECT user_id, folder_id, can_edit, created_at
		FROM %s
		WHERE user_id = $1 AND folder_id = $2
	`, r.tables.FolderPermissions)

	var g models.FolderGrant
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID, folderID).Scan(&g.UserID, &g.FolderID, &g.CanEdit, &g.CreatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grant: %w", err)
	}
	return &g, nil
}

func (r *PostgresGrantRepository) HasGlobalEdit(ctx context.Context, userID string) (bool, error) {
	query := fmt.Sprintf(`SELECT can_edit FROM %s WHERE user_id = $1`, r.tables.DocstoreEditors)

	var canEdit bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID).Scan(&canEdit); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return false, nil
		}
		return false, fmt.Errorf("get global edit grant: %w", err)
	}
	return canEdit, nil
}

func (r *PostgresGrantRepository) Upsert(ctx context.Context, grant *models.FolderGrant) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_id, can_edit, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, folder_id) DO UPDATE SET can_edit = EXCLUDED.can_edit
	`, r.tables.FolderPermissions)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, grant.UserID, grant.FolderID, grant.CanEdit, grant.CreatedAt); err != nil {
		return fmt.Errorf("upsert grant: %w", err)
	}
	return nil
}

func (r *PostgresGrantRepository) SetGlobalEdit(ctx context.Context, userID string, canEdit bool) error {
	var query string
	if canEdit {
		query = fmt.Sprintf(`
			INSERT INTO %s (user_id, can_edit) VALUES ($1, TRUE)
			ON CONFLICT (user_id) DO UPDATE SET can_edit = TRUE
		`, r.tables.DocstoreEditors)
	} else {
		query = fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.tables.DocstoreEditors)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("set global edit grant: %w", err)
	}
	return nil
}

func (r *PostgresGrantRepository) DeleteByFolderIDs(ctx context.Context, folderIDs []string) error {
	if len(folderIDs) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE folder_id = ANY($1)`, r.tables.FolderPermissions)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, folderIDs); err != nil {
		return fmt.Errorf("delete grants: %w", err)
	}
	return nil
}
