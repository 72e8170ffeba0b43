package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"proposalbuilder/collections"
	"proposalbuilder/config"
	"proposalbuilder/handlers"
	"proposalbuilder/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Collections setup and seeding still report through the std logger.
	restoreStdLog := zap.RedirectStdLog(logger)
	defer restoreStdLog()

	app := pocketbase.New()
	deps := &handlers.Deps{
		App:    app,
		Logger: logger,
		Layout: layoutConfig(cfg),
		Printer: services.NewPDFPrinter(services.PrintOptions{
			Timeout:      cfg.Render.PrintTimeout,
			ChromiumPath: cfg.Render.ChromiumPath,
		}),
		PrintRetries: cfg.Render.PrintRetries,
		Numbering: collections.Numbering{
			Prefix: cfg.Quote.NumberPrefix,
			Type:   services.NumberingType(cfg.Quote.NumberType),
		},
	}

	app.RootCmd.AddCommand(newRenderCommand(deps.Layout))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.SeedDefaultSettings(app); err != nil {
			logger.Warn("seed default settings failed", zap.Error(err))
		}
		if err := collections.MigrateBusinessStatus(app); err != nil {
			logger.Warn("business status migration failed", zap.Error(err))
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.RequestIDMiddleware())
		se.Router.BindFunc(handlers.RequestLoggerMiddleware(logger))

		// ── Quotes ───────────────────────────────────────────────
		se.Router.POST("/quotes/preview", handlers.HandleQuotePreview(deps))
		se.Router.POST("/quotes/save", handlers.HandleQuoteSave(deps))
		se.Router.GET("/quotes/stats", handlers.HandleQuoteStats(deps))
		se.Router.POST("/quotes/{code}/status", handlers.HandleQuoteStatus(deps))
		se.Router.GET("/quotes/{code}/export/{format}", handlers.HandleQuoteExport(deps))
		se.Router.GET("/quotes/items/template", handlers.HandleItemTemplate(deps))
		se.Router.POST("/quotes/items/import", handlers.HandleItemImport(deps))

		// ── Calculators ──────────────────────────────────────────
		se.Router.POST("/calculators/import", handlers.HandleImportCalculator(deps))
		se.Router.POST("/calculators/services", handlers.HandleServiceCalculator(deps))

		// ── Settings ─────────────────────────────────────────────
		se.Router.GET("/settings", handlers.HandleSettingsList(deps))
		se.Router.POST("/settings", handlers.HandleSettingsSave(deps))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// layoutConfig applies the configured overrides to the engine defaults.
func layoutConfig(cfg *config.Config) services.LayoutConfig {
	lc := services.DefaultLayoutConfig()
	if cfg.Layout.BottomThreshold > 0 {
		lc.BottomThreshold = cfg.Layout.BottomThreshold
	}
	if cfg.Layout.WrapColumns > 0 {
		lc.WrapColumns = cfg.Layout.WrapColumns
	}
	lc.CertificatesShowQuantity = cfg.Layout.CertificatesShowQuantity
	if cfg.Render.Branding != "" {
		lc.Branding = cfg.Render.Branding
	}
	return lc
}
