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
)

const fileColumns = `id, name, original_name, folder_id, storage_path, mime_type, kind, size_bytes, metadata, thumbnail_path, created_by, created_at, updated_at`

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *postgres.RepositoryConfig) docstoreRepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanFile(row pgx.Row) (models.File, error) {
	var f models.File
	var kind string
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.OriginalName,
		&f.FolderID,
		&f.StoragePath,
		&f.MimeType,
		&kind,
		&f.SizeBytes,
		&f.Metadata,
		&f.ThumbnailPath,
		&f.CreatedBy,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	f.Kind = models.FileKind(kind)
	return f, err
}

func collectFiles(rows pgx.Rows) ([]models.File, error) {
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, original_name, folder_id, storage_path, mime_type, kind, size_bytes, metadata, thumbnail_path, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		file.ID,
		file.Name,
		file.OriginalName,
		file.FolderID,
		file.StoragePath,
		file.MimeType,
		string(file.Kind),
		file.SizeBytes,
		file.Metadata,
		file.ThumbnailPath,
		file.CreatedBy,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("folder %s: %w", file.FolderID, domain.ErrNotFound)
		}
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file %s already exists", file.ID),
				ResourceType: "file",
				ResourceID:   file.ID,
			}
		}
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	f, err := scanFile(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return &f, nil
}

func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE folder_id = $1 ORDER BY name, id`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return collectFiles(rows)
}

func (r *PostgresFileRepository) ListByFolderIDs(ctx context.Context, folderIDs []string) ([]models.File, error) {
	if len(folderIDs) == 0 {
		return []models.File{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE folder_id = ANY($1) ORDER BY name, id`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return collectFiles(rows)
}

func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, folder_id = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, file.Name, file.FolderID, file.UpdatedAt, file.ID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("folder %s: %w", file.FolderID, domain.ErrNotFound)
		}
		return fmt.Errorf("update file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresFileRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete files: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresFileRepository) SearchByName(ctx context.Context, query string, limit int) ([]models.File, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name ILIKE $1
		ORDER BY name, id
		LIMIT $2
	`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, sql, postgres.ContainsPattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search files: %w", err)
	}
	return collectFiles(rows)
}

func (r *PostgresFileRepository) ListStoragePaths(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT storage_path FROM %s ORDER BY storage_path`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list storage paths: %w", err)
	}
	paths, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list storage paths: %w", err)
	}
	return paths, nil
}
