package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "image-optimizer/docs"

	"image-optimizer/internal/delivery/http/handlers"
	"image-optimizer/internal/delivery/http/presenter"
	"image-optimizer/internal/delivery/http/routers"
	"image-optimizer/internal/infrastructure/archive"
	"image-optimizer/internal/infrastructure/processor"
	"image-optimizer/internal/infrastructure/queue"
	"image-optimizer/internal/pkg/config"
	"image-optimizer/internal/pkg/logger"
	"image-optimizer/internal/usecases"
	"image-optimizer/pkg/errors/i18n"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title        Image Optimizer API
// @version      1.0
// @description  Batch image resize and WebP conversion.
// @host         localhost:3000
// @BasePath     /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config could not be loaded: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger could not be created: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if err := i18n.Load(cfg.Locale); err != nil {
		zlog.Warn("locale not available, falling back to built-in messages", zap.String("locale", cfg.Locale), zap.Error(err))
	}

	imageProcessor, err := processor.NewImageProcessor(cfg.Optimizer.Quality)
	if err != nil {
		zlog.Fatal("image processor could not be created", zap.Error(err))
	}
	pool := queue.NewWorkerPool(cfg.Optimizer.Workers, cfg.Optimizer.QueueSize, imageProcessor, zlog)
	defer pool.Shutdown()

	optimizeService := usecases.NewOptimizeService(
		pool,
		usecases.NewDirectiveResolver(cfg.Optimizer.DefaultWidth),
		archive.NewZipPackager(),
		cfg.Optimizer.MaxFiles,
		zlog,
	)

	encoder, err := presenter.NewEncoder(cfg.Optimizer.ResponseMode, cfg.Optimizer.ArchiveName)
	if err != nil {
		zlog.Fatal("response encoder could not be created", zap.Error(err))
	}

	app := routers.NewApp(cfg.Server)
	optimizeHandler := handlers.NewOptimizeHandler(optimizeService, encoder, cfg.Optimizer.RequestTimeout, zlog)
	routers.SetupOptimizeRoutes(app, optimizeHandler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		zlog.Info("server starting",
			zap.String("addr", cfg.Addr()),
			zap.String("response_mode", encoder.Mode()),
			zap.Int("workers", pool.Workers()))
		return app.Listen(cfg.Addr())
	})
	group.Go(func() error {
		<-groupCtx.Done()
		zlog.Info("shutdown signal received, stopping server")

		ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(ctxShut)
	})

	if err := group.Wait(); err != nil {
		zlog.Error("server stopped with error", zap.Error(err))
		pool.Shutdown()
		os.Exit(1)
	}
	zlog.Info("server stopped cleanly")
}
