package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"search-indexer/core/loader"
	"search-indexer/core/logger"
	"search-indexer/core/middleware/auth"
	"search-indexer/core/middleware/rayid"
	"search-indexer/core/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "search-indexer/docs/swagger"
)

// @title Search Indexer API
// @version 1.0
// @description API for triggering and inspecting text search index reconciliation.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the indexer service",
	Long:  `Starts the HTTP server and the periodic reconciliation scheduler.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(a.feature)

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		if a.cfg.Server.MetricsPath != "" {
			app.Get(a.cfg.Server.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
		}

		app.Use(auth.New(auth.Config{
			ApiKey:      a.cfg.Server.ApiKey,
			PublicPaths: a.cfg.Server.PublicPaths(),
		}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		coordinator := a.feature.Coordinator()
		sched := scheduler.New("textsearch-refresh", a.cfg.Indexer.Interval, a.cfg.Indexer.RunOnStart,
			func(ctx context.Context) error {
				_, err := coordinator.Run(ctx)
				return err
			}, logg)
		sched.Start(ctx)

		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		<-ctx.Done()
		logg.Info("Shutting down server...")
		sched.Stop()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
