package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/compras-api/migrations"
)

// OpenMigrator abre una conexión database/sql sobre pgx y el provider de goose con las migraciones embebidas.
// El llamador cierra el *sql.DB.
func OpenMigrator(ctx context.Context, dsn string, opts ...goose.ProviderOption) (*goose.Provider, *sql.DB, error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse DSN: %w", err)
	}
	db := stdlib.OpenDB(*connCfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping DB: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.EmbedMigrations, opts...)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, db, nil
}

// MigrateUp aplica todas las migraciones pendientes.
func MigrateUp(ctx context.Context, dsn string) error {
	provider, db, err := OpenMigrator(ctx, dsn, goose.WithLogger(goose.NopLogger()))
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
