// Package bootstrap opens the metadata and object stores selected by config.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"opsconsole/internal/config"
	"opsconsole/internal/objectstore"
	"opsconsole/internal/repository/memory"
	"opsconsole/internal/repository/postgres"
	postgresDocstore "opsconsole/internal/repository/postgres/docstore"
	docstoreService "opsconsole/internal/service/docstore"
)

// Backends holds the opened stores. Close releases the database pool.
type Backends struct {
	Repos   docstoreService.Repositories
	Objects objectstore.Store

	// set only for the postgres backend
	Pool   *pgxpool.Pool
	Tables *postgres.TableNames
}

// Close releases held connections
func (b *Backends) Close() {
	if b.Pool != nil {
		b.Pool.Close()
	}
}

// Open connects the configured backends. The memory backends keep all
// state in process and exist for local development and tests.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}

	switch cfg.MetadataBackend {
	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL, postgres.PoolOptions{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		b.Pool = pool
		b.Tables = postgres.NewTableNames(cfg.TablePrefix)
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)

		if cfg.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool, b.Tables, logger); err != nil {
				pool.Close()
				return nil, err
			}
		}

		repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: b.Tables, Logger: logger}
		b.Repos = docstoreService.Repositories{
			Folders:   postgresDocstore.NewFolderRepository(repoConfig),
			Files:     postgresDocstore.NewFileRepository(repoConfig),
			Grants:    postgresDocstore.NewGrantRepository(repoConfig),
			TxManager: postgres.NewTransactionManager(repoConfig),
		}
	case "memory":
		store := memory.NewStore()
		b.Repos = docstoreService.Repositories{
			Folders:   store.Folders(),
			Files:     store.Files(),
			Grants:    store.Grants(),
			TxManager: store.TxManager(),
		}
		logger.Warn("using in-memory metadata store; data is lost on exit")
	default:
		return nil, fmt.Errorf("unknown METADATA_BACKEND %q", cfg.MetadataBackend)
	}

	switch cfg.ObjectBackend {
	case "s3":
		objects, err := objectstore.NewS3Store(ctx, objectstore.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			KeyPrefix:       cfg.S3.KeyPrefix,
			MaxRetries:      cfg.S3.MaxRetries,
		})
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect object store: %w", err)
		}
		b.Objects = objects
		logger.Info("object store connected", "bucket", cfg.S3.Bucket, "prefix", cfg.S3.KeyPrefix)
	case "memory":
		b.Objects = objectstore.NewMemoryStore()
		logger.Warn("using in-memory object store; data is lost on exit")
	default:
		b.Close()
		return nil, fmt.Errorf("unknown OBJECT_BACKEND %q", cfg.ObjectBackend)
	}

	return b, nil
}
