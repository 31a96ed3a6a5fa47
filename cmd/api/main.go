package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/compras-api/internal/application/auth"
	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	infraai "github.com/jhoicas/compras-api/internal/infrastructure/ai"
	"github.com/jhoicas/compras-api/internal/infrastructure/cache"
	"github.com/jhoicas/compras-api/internal/infrastructure/export"
	"github.com/jhoicas/compras-api/internal/infrastructure/mail"
	"github.com/jhoicas/compras-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/compras-api/internal/interfaces/http"
	"github.com/jhoicas/compras-api/pkg/config"
	"github.com/jhoicas/compras-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	depotRepo := postgres.NewDepotRepository(pool)
	lineRepo := postgres.NewPurchaseLineRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Revocación de sesiones: Redis si está configurado; si no, memoria (una sola instancia).
	var revocations ports.TokenRevocationStore
	if cfg.Redis.Enabled() {
		redisStore, err := cache.NewRedisRevocationStore(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStore.Close()
		revocations = redisStore
	} else {
		log.Warn().Msg("REDIS_HOST vacío: revocación de sesiones en memoria")
		revocations = cache.NewMemoryRevocationStore()
	}

	mailer := mail.New(cfg.SMTP, cfg.App.PublicBaseURL, log)

	// El escaneo es opcional: sin API key la ruta responde 502.
	extractor, err := infraai.NewExtractor(cfg.AI)
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.AI.Provider).Msg("escaneo de facturas deshabilitado")
		extractor = nil
	}

	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, revocations, jwtCfg, cfg.Auth.RequireEmailVerification)
	userUC := usecase.NewUserUseCase(usecase.UserUseCaseConfig{
		Users:                    userRepo,
		Companies:                companyRepo,
		Cascade:                  txRunner,
		Mailer:                   mailer,
		Revocations:              revocations,
		SessionTTL:               jwtCfg.TTL(),
		RequireEmailVerification: cfg.Auth.RequireEmailVerification,
		Logger:                   log,
	})
	companyUC := usecase.NewCompanyUseCase(companyRepo, txRunner)
	itemUC := usecase.NewCatalogUseCase(entity.KindItem, catalogRepo, txRunner)
	unitUC := usecase.NewCatalogUseCase(entity.KindUnit, catalogRepo, txRunner)
	moneyTypeUC := usecase.NewCatalogUseCase(entity.KindMoneyType, catalogRepo, txRunner)
	depotUC := usecase.NewDepotUseCase(depotRepo, txRunner)
	lineUC := usecase.NewPurchaseLineUseCase(lineRepo, catalogRepo, depotRepo)
	ledgerUC := usecase.NewLedgerUseCase(lineRepo, depotRepo, catalogRepo, export.All())
	scanUC := usecase.NewScanUseCase(extractor, catalogRepo, cfg.Scan.DefaultCurrency)

	maxImage := int64(cfg.Scan.MaxImageBytes)
	if maxImage <= 0 {
		maxImage = httpRouter.DefaultMaxImageBytes
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 40,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(maxImage) + 1<<20,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Compras API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CompanyUC:      companyUC,
		UserUC:         userUC,
		ItemUC:         itemUC,
		UnitUC:         unitUC,
		MoneyTypeUC:    moneyTypeUC,
		DepotUC:        depotUC,
		PurchaseLineUC: lineUC,
		LedgerUC:       ledgerUC,
		ScanUC:         scanUC,
		MaxImageBytes:  maxImage,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
