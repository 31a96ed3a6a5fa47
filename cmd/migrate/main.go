// migrate aplica el esquema versionado (migrations/*.sql) con goose.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down [versión]
//	go run ./cmd/migrate status
//
// El DSN sale de --dsn o, si no se indica, de la configuración (DATABASE_URL / DB_*).
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/jhoicas/compras-api/internal/infrastructure/postgres"
	"github.com/jhoicas/compras-api/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Migraciones de base de datos",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("dsn", "", "connection string de PostgreSQL (por defecto la configuración)")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica todas las migraciones pendientes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProvider(cmd, func(p *goose.Provider) error {
					results, err := p.Up(cmd.Context())
					for _, r := range results {
						cmd.Printf("OK %s (%s)\n", r.Source.Path, r.Duration.Round(time.Millisecond))
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "down [versión]",
			Short: "Revierte la última migración o hasta la versión indicada",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withProvider(cmd, func(p *goose.Provider) error {
					if len(args) == 0 {
						r, err := p.Down(cmd.Context())
						if r != nil {
							cmd.Printf("revertida %s\n", r.Source.Path)
						}
						return err
					}
					version, err := strconv.ParseInt(args[0], 10, 64)
					if err != nil || version < 0 {
						return fmt.Errorf("versión inválida: %q", args[0])
					}
					results, err := p.DownTo(cmd.Context(), version)
					for _, r := range results {
						cmd.Printf("revertida %s\n", r.Source.Path)
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Muestra el estado de cada migración",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProvider(cmd, func(p *goose.Provider) error {
					statuses, err := p.Status(cmd.Context())
					if err != nil {
						return err
					}
					for _, s := range statuses {
						appliedAt := "Pendiente"
						if s.State == goose.StateApplied {
							appliedAt = s.AppliedAt.Format(time.RFC3339)
						}
						cmd.Printf("%-25s %s\n", appliedAt, s.Source.Path)
					}
					return nil
				})
			},
		},
	)
	return root
}

func withProvider(cmd *cobra.Command, fn func(*goose.Provider) error) error {
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dsn = cfg.DB.ConnectionString()
	}
	provider, db, err := postgres.OpenMigrator(cmd.Context(), dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(provider)
}
