// Package storage opens the local SQLite database, applies migrations and
// wires up the repositories the client runs on.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/dirkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/dirkeeper/internal/client/repositories/metadata"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the persistence layer handed to services.
type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if necessary) the SQLite database at dsn,
// runs migrations and returns the repository bundle. The caller owns the
// returned DB handle and should close it on shutdown.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}
