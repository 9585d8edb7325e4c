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

	"github.com/eraam/booksaloon-api/internal/application/auth"
	"github.com/eraam/booksaloon-api/internal/application/usecase"
	"github.com/eraam/booksaloon-api/internal/infrastructure/email"
	"github.com/eraam/booksaloon-api/internal/infrastructure/postgres"
	httpRouter "github.com/eraam/booksaloon-api/internal/interfaces/http"
	"github.com/eraam/booksaloon-api/pkg/config"
	"github.com/eraam/booksaloon-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
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

	userRepo := postgres.NewUserRepository(pool)
	bookRepo := postgres.NewBookRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := email.NewSMTPNotifier(cfg.SMTP)

	authUC := auth.NewUseCase(userRepo, notifier, auth.Config{
		JWT: auth.JWTConfig{
			Secret:     cfg.Auth.JWTSecret,
			ExpMinutes: cfg.Auth.JWTExpiration,
			Issuer:     cfg.Auth.JWTIssuer,
		},
		HashCost: cfg.Auth.HashCost,
		BaseURL:  cfg.App.BaseURL,
	}, log)
	userUC := usecase.NewUserUseCase(userRepo)
	bookUC := usecase.NewBookUseCase(bookRepo)
	reviewUC := usecase.NewReviewUseCase(reviewRepo, bookRepo, txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Book Saloon API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		BookUC:    bookUC,
		ReviewUC:  reviewUC,
		Resolver:  userRepo,
		JWTSecret: cfg.Auth.JWTSecret,
		Cookie: httpRouter.CookieConfig{
			ExpirationDays: cfg.Auth.CookieExpiration,
			Secure:         cfg.App.Env == "production",
		},
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
