package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements returns the DDL for the document store tables. Table and
// index names carry the environment prefix, so the statements are built at
// runtime rather than shipped as static migration files.
func schemaStatements(t *TableNames) []string {
	return []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL CHECK (length(name) BETWEEN 1 AND 255),
			category    TEXT NOT NULL DEFAULT 'general',
			parent_id   UUID REFERENCES %[1]s(id),
			path        TEXT NOT NULL,
			depth       INTEGER NOT NULL DEFAULT 0 CHECK (depth >= 0),
			color       TEXT NOT NULL DEFAULT '',
			icon        TEXT NOT NULL DEFAULT '',
			sort_order  INTEGER NOT NULL DEFAULT 0,
			is_system   BOOLEAN NOT NULL DEFAULT FALSE,
			owner_id    UUID,
			created_by  TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK ((parent_id IS NULL) = (depth = 0))
		)`, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]sfolders_parent_idx ON %[2]s (parent_id)`, t.Prefix, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]sfolders_path_idx ON %[2]s (path text_pattern_ops)`, t.Prefix, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]sfolders_owner_idx ON %[2]s (owner_id) WHERE owner_id IS NOT NULL`, t.Prefix, t.Folders),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id             UUID PRIMARY KEY,
			name           TEXT NOT NULL,
			original_name  TEXT NOT NULL DEFAULT '',
			folder_id      UUID NOT NULL REFERENCES %[2]s(id),
			storage_path   TEXT NOT NULL UNIQUE,
			mime_type      TEXT NOT NULL DEFAULT 'application/octet-stream',
			kind           TEXT NOT NULL DEFAULT 'other',
			size_bytes     BIGINT NOT NULL DEFAULT 0,
			metadata       JSONB,
			thumbnail_path TEXT,
			created_by     TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Files, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]sfiles_folder_idx ON %[2]s (folder_id)`, t.Prefix, t.Files),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			user_id    UUID NOT NULL,
			folder_id  UUID NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
			can_edit   BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, folder_id)
		)`, t.FolderPermissions, t.Folders),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			user_id    UUID PRIMARY KEY,
			can_edit   BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.DocstoreEditors),
	}
}

// EnsureSchema creates the document store tables and indexes if missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) error {
	for _, stmt := range schemaStatements(tables) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	logger.Info("schema ensured",
		"folders", tables.Folders,
		"files", tables.Files,
		"folder_permissions", tables.FolderPermissions,
		"docstore_editors", tables.DocstoreEditors,
	)
	return nil
}
