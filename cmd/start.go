package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"medialink/core/loader"
	"medialink/core/logger"
	"medialink/core/middleware/auth"
	"medialink/core/middleware/rayid"
	"medialink/core/reconcile"
	"medialink/feature/integrity"
	"medialink/feature/journal"
	"medialink/feature/links"
	"medialink/feature/manifest"
	"medialink/feature/watch"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "medialink/docs/swagger"
)

// @title Medialink API
// @version 1.0
// @description API for inspecting and driving the media link organizer.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the organizer and its HTTP server",
	Long: `Runs a full pass over every organize entry, then watches the source
directories and serves the HTTP API until interrupted.`,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Build engine and recorders
	a, err := newApp(options{recorders: true})
	if err != nil {
		return err
	}
	logg := a.logger
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	// 2. Take the engine lock
	unlock, err := a.lock()
	if err != nil {
		return err
	}
	defer unlock()

	// 3. Initial pass
	results, err := a.engine.OrganizeAll(ctx, reconcile.PassOptions{})
	summary := reconcile.Summarize(results)
	if err != nil {
		logg.Error("Initial pass finished with errors", zap.Error(err))
	}
	logg.Info("Initial pass completed",
		zap.Int("entries", summary.Entries),
		zap.Int("created", summary.Created),
		zap.Int("overridden", summary.Overridden),
		zap.Int("unchanged", summary.Unchanged))

	if a.manifests != nil {
		if removed, err := a.manifests.Prune(ctx, len(a.cfg.Organize)); err != nil {
			logg.Warn("Failed to prune stale manifests", zap.Error(err))
		} else if len(removed) > 0 {
			logg.Info("Pruned stale manifests", zap.Strings("objects", removed))
		}
	}

	// 4. Start watchers
	watchDone := make(chan error, 1)
	if a.cfg.Watch.Enabled {
		var targets []watch.Target
		for _, layer := range a.engine.Layers() {
			if layer.Entry().IsEnabled() {
				targets = append(targets, layer)
			}
		}
		w, err := watch.New(a.cfg.Watch, targets, a.engine.Registry(), logg)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		go func() { watchDone <- w.Run(ctx) }()
	} else {
		logg.Info("Filesystem watcher disabled")
		close(watchDone)
	}

	// 5. Initialize Fiber App
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

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
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/metrics"}}))

	// 6. Load Features
	mgr := loader.NewManager()
	mgr.Register(links.NewFeature(links.NewService(a.engine, logg)))
	mgr.Register(integrity.NewFeature(integrity.NewService(a.engine, a.fs, a.journal, a.manifests, logg)))
	mgr.Register(journal.NewFeature(a.journal))
	mgr.Register(manifest.NewFeature(a.manifests))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return err
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	// 7. Start Server
	serveErr := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
		serveErr <- app.Listen(a.cfg.Server.Address())
	}()

	// 8. Graceful Shutdown
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		stop()
		<-watchDone
		return fmt.Errorf("server failed: %w", err)
	}

	logg.Info("Shutting down server...")
	_ = app.Shutdown()
	if err := <-watchDone; err != nil {
		logg.Error("Watcher failed", zap.Error(err))
	}
	return nil
}
