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

	"github.com/jhoicas/stock-uploader/internal/application/reconcile"
	"github.com/jhoicas/stock-uploader/internal/infrastructure/auditlog"
	"github.com/jhoicas/stock-uploader/internal/infrastructure/woocommerce"
	httpRouter "github.com/jhoicas/stock-uploader/internal/interfaces/http"
	"github.com/jhoicas/stock-uploader/pkg/config"
	"github.com/jhoicas/stock-uploader/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("site", cfg.Woo.SiteURL).
		Msg("iniciando aplicación")

	audit, err := auditlog.NewWriter(cfg.Logs.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de logs de auditoría")
	}

	client := woocommerce.NewClient(cfg.Woo, log)

	// Índice de SKUs de variación: uno solo para toda la vida del proceso,
	// compartido entre corridas.
	index := reconcile.NewSKUIndex()
	resolver := reconcile.NewResolver(client, index, cfg.Woo.PageDelay, log)
	reconcileUC := reconcile.NewUseCase(resolver, client, audit, cfg.Woo.ChunkDelay, log)

	uploadHandler := httpRouter.NewUploadHandler(reconcileUC, audit, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024, // planillas grandes
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Uploader API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Upload: uploadHandler,
		Auth:   cfg.Auth,
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
