package docstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	"opsconsole/internal/repository/postgres"
	"opsconsole/internal/tree"
)

const folderColumns = `id, name, category, parent_id, path, depth, color, icon, sort_order, is_system, owner_id, created_by, created_at, updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) docstoreRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanFolder(row pgx.Row) (models.Folder, error) {
	var f models.Folder
	var category string
	err := row.Scan(
		&f.ID,
		&f.Name,
		&category,
		&f.ParentID,
		&f.Path,
		&f.Depth,
		&f.Color,
		&f.Icon,
		&f.SortOrder,
		&f.IsSystem,
		&f.OwnerID,
		&f.CreatedBy,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	f.Category = models.Category(category)
	return f, err
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

// Create inserts a folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, category, parent_id, path, depth, color, icon, sort_order, is_system, owner_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.Name,
		string(folder.Category),
		folder.ParentID,
		folder.Path,
		folder.Depth,
		folder.Color,
		folder.Icon,
		folder.SortOrder,
		folder.IsSystem,
		folder.OwnerID,
		folder.CreatedBy,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %s already exists", folder.ID),
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder %s: %w", folder.ParentIDValue(), domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	f, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &f, nil
}

func (r *PostgresFolderRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Folder, error) {
	if len(ids) == 0 {
		return []models.Folder{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1)`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get folders: %w", err)
	}
	return collectFolders(rows)
}

// ListChildren lists immediate child folders; nil lists roots
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE parent_id IS NULL
			ORDER BY sort_order, name, id
		`, folderColumns, r.tables.Folders)
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE parent_id = $1
			ORDER BY sort_order, name, id
		`, folderColumns, r.tables.Folders)
		args = append(args, *parentID)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return collectFolders(rows)
}

func (r *PostgresFolderRepository) ListAll(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY depth, sort_order, name, id`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return collectFolders(rows)
}

// ListByPathPrefix returns the folders at path and below it. Siblings that
// merely share a name prefix ("projects-old" vs "projects") are excluded by
// requiring the "/" separator.
func (r *PostgresFolderRepository) ListByPathPrefix(ctx context.Context, path string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE path = $1 OR path LIKE $2
		ORDER BY depth, sort_order, name, id
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, path, postgres.PrefixPattern(path))
	if err != nil {
		return nil, fmt.Errorf("list subtree: %w", err)
	}
	return collectFolders(rows)
}

// ListAncestry returns the folder followed by up to maxHops ancestors.
// The walk is bounded in SQL, so a parent_id cycle returns repeated rows
// instead of recursing forever; callers detect the cycle.
func (r *PostgresFolderRepository) ListAncestry(ctx context.Context, id string, maxHops int) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE chain AS (
			SELECT id, parent_id, 0 AS hops FROM %[2]s WHERE id = $1
			UNION ALL
			SELECT p.id, p.parent_id, c.hops + 1
			FROM %[2]s p
			JOIN chain c ON p.id = c.parent_id
			WHERE c.hops < $2
		)
		SELECT %[1]s FROM (
			SELECT DISTINCT ON (f.id) f.*, c.hops
			FROM chain c
			JOIN %[2]s f ON f.id = c.id
			ORDER BY f.id, c.hops
		) ordered
		ORDER BY hops
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, id, maxHops)
	if err != nil {
		return nil, fmt.Errorf("list ancestry: %w", err)
	}
	folders, err := collectFolders(rows)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return folders, nil
}

// ListAccessible evaluates the accessible-folders view for a client or
// prospect: the personal root subtree and every granted subtree, walked by
// parent_id, plus every ancestor of a seed folder.
func (r *PostgresFolderRepository) ListAccessible(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE seeds AS (
			SELECT id FROM %[2]s WHERE owner_id = $1
			UNION
			SELECT folder_id FROM %[3]s WHERE user_id = $1
		),
		subtree AS (
			SELECT f.id, 0 AS hops FROM %[2]s f JOIN seeds s ON s.id = f.id
			UNION
			SELECT c.id, st.hops + 1
			FROM %[2]s c
			JOIN subtree st ON c.parent_id = st.id
			WHERE st.hops < $2
		),
		ancestors AS (
			SELECT f.id, f.parent_id, 0 AS hops FROM %[2]s f JOIN seeds s ON s.id = f.id
			UNION
			SELECT p.id, p.parent_id, a.hops + 1
			FROM %[2]s p
			JOIN ancestors a ON p.id = a.parent_id
			WHERE a.hops < $2
		)
		SELECT %[1]s FROM %[2]s
		WHERE id IN (SELECT id FROM subtree UNION SELECT id FROM ancestors)
		ORDER BY sort_order, name, id
	`, folderColumns, r.tables.Folders, r.tables.FolderPermissions)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, tree.MaxAncestorHops)
	if err != nil {
		return nil, fmt.Errorf("list accessible folders: %w", err)
	}
	return collectFolders(rows)
}

// GetPersonalRootID returns the oldest root owned by userID, nil if none
func (r *PostgresFolderRepository) GetPersonalRootID(ctx context.Context, userID string) (*string, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE owner_id = $1 AND parent_id IS NULL
		ORDER BY created_at
		LIMIT 1
	`, r.tables.Folders)

	var id string
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID).Scan(&id); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get personal root: %w", err)
	}
	return &id, nil
}

// Update writes the display fields
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, color = $2, icon = $3, sort_order = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.Color,
		folder.Icon,
		folder.SortOrder,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateTreeFields rewrites the structural fields of each folder in a single
// batch round-trip. Callers run it inside ExecTx so a move or rename lands as
// one unit.
func (r *PostgresFolderRepository) UpdateTreeFields(ctx context.Context, folders []models.Folder) error {
	if len(folders) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, path = $3, depth = $4, category = $5, updated_at = NOW()
		WHERE id = $6
	`, r.tables.Folders)

	batch := &pgx.Batch{}
	for _, f := range folders {
		batch.Queue(query,
			f.Name,
			f.ParentID,
			f.Path,
			f.Depth,
			string(f.Category),
			f.ID,
		)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	results := executor.SendBatch(ctx, batch)
	defer results.Close()

	for _, f := range folders {
		tag, err := results.Exec()
		if err != nil {
			return fmt.Errorf("update tree fields of %s: %w", f.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("folder %s: %w", f.ID, domain.ErrNotFound)
		}
	}
	return results.Close()
}

// LockSubtree takes FOR UPDATE row locks on the folder at path and every
// folder below it. Without a transaction in the context the locks are
// released immediately, so callers must use ExecTx.
func (r *PostgresFolderRepository) LockSubtree(ctx context.Context, path string) error {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE path = $1 OR path LIKE $2
		ORDER BY id
		FOR UPDATE
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, path, postgres.PrefixPattern(path)); err != nil {
		return fmt.Errorf("lock subtree %s: %w", path, err)
	}
	return nil
}

// DeleteByIDs removes folders in one statement so the parent_id foreign key
// is checked against the final state
func (r *PostgresFolderRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return 0, fmt.Errorf("folder still referenced: %w", domain.ErrConflict)
		}
		return 0, fmt.Errorf("delete folders: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresFolderRepository) SearchByName(ctx context.Context, query string, limit int) ([]models.Folder, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name ILIKE $1
		ORDER BY depth, sort_order, name, id
		LIMIT $2
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, sql, postgres.ContainsPattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search folders: %w", err)
	}
	return collectFolders(rows)
}
