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

	"github.com/Felix-F07/gudang-online/internal/application/ledger"
	infrapdf "github.com/Felix-F07/gudang-online/internal/infrastructure/pdf"
	httpRouter "github.com/Felix-F07/gudang-online/internal/interfaces/http"
	"github.com/Felix-F07/gudang-online/pkg/config"
	"github.com/Felix-F07/gudang-online/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStore(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.close()

	// La zona ya fue validada en config.Load.
	loc, _ := cfg.Ledger.Location()

	zl := log.Zerolog()
	mutator := ledger.NewStockMutator(store.txRunner, zl)
	reader := ledger.NewStockReader(store.productRepo, store.levelRepo, store.txRepo, ledger.ReaderOptions{
		Locale:             cfg.Ledger.LanguageTag(),
		ExcludedCategories: cfg.Ledger.ExcludedCategories,
	})
	bulk := ledger.NewBulkRecorder(mutator, cfg.Ledger.BatchWorkers, zl)

	// PDF: reporte diario de ventas
	pdfGenerator := infrapdf.NewMarotoReportGenerator(cfg.App.Name)
	dailyReport := ledger.NewDailyReportUseCase(reader, loc, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Gudang Online API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Mutator:     mutator,
		Reader:      reader,
		Bulk:        bulk,
		DailyReport: dailyReport,
		Log:         zl,
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
