// seed_superadmin crea el superadmin inicial o promueve la cuenta que ya tenga ese email.
//
// Uso: SUPER_USERNAME=admin SUPER_EMAIL=admin@empresa.com SUPER_PASSWORD=... go run ./cmd/seed_superadmin
// Los flags --username, --email y --password tienen prioridad sobre las variables de entorno.
package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/infrastructure/postgres"
	"github.com/jhoicas/compras-api/pkg/config"
	"github.com/jhoicas/compras-api/pkg/logger"
)

func main() {
	if err := newCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SUPER_USERNAME", "admin")
	v.SetDefault("SUPER_EMAIL", "admin@admin.com")

	cmd := &cobra.Command{
		Use:          "seed_superadmin",
		Short:        "Crea o promueve el superadmin",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v.GetString("SUPER_USERNAME"), v.GetString("SUPER_EMAIL"), v.GetString("SUPER_PASSWORD"))
		},
	}
	cmd.Flags().String("username", "", "username del superadmin (SUPER_USERNAME)")
	cmd.Flags().String("email", "", "email del superadmin (SUPER_EMAIL)")
	cmd.Flags().String("password", "", "contraseña del superadmin (SUPER_PASSWORD)")
	_ = v.BindPFlag("SUPER_USERNAME", cmd.Flags().Lookup("username"))
	_ = v.BindPFlag("SUPER_EMAIL", cmd.Flags().Lookup("email"))
	_ = v.BindPFlag("SUPER_PASSWORD", cmd.Flags().Lookup("password"))
	return cmd
}

func run(ctx context.Context, username, email, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return err
	}
	defer pool.Close()

	users := usecase.NewUserUseCase(usecase.UserUseCaseConfig{
		Users:     postgres.NewUserRepository(pool),
		Companies: postgres.NewCompanyRepository(pool),
		Logger:    log,
	})
	created, err := users.EnsureSuperadmin(ctx, username, email, password)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("seed del superadmin")
		return err
	}
	if created {
		log.Info().Str("username", username).Str("email", email).Msg("superadmin creado")
	} else {
		log.Info().Str("email", email).Msg("cuenta existente promovida a superadmin")
	}
	return nil
}
