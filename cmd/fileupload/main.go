package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sir_venger/file_upload/internal/app/webhttp"
	"github.com/sir_venger/file_upload/internal/config"
	"github.com/sir_venger/file_upload/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

// main поднимает веб-сервис загрузки файлов и обеспечивает корректное завершение по сигналу.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("fatal error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := storage.NewFileSystem(cfg.RootLocation, storage.Options{
		MaxBytes: cfg.MaxUploadBytes,
		Logger:   logger,
	})
	// Без корневого каталога сервис не запускаем.
	if err := fs.Init(ctx); err != nil {
		return err
	}
	if cfg.ResetOnStart {
		if err := fs.Reset(ctx); err != nil {
			return err
		}
	}

	// Фоновая очистка временных файлов незавершённых загрузок.
	stopJanitor := fs.StartJanitor(cfg.TempTTL, cfg.JanitorInterval)
	defer stopJanitor()

	handler, _, err := webhttp.NewServer(webhttp.Deps{
		Storage:        fs,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes,
		AdminEnabled:   cfg.AdminEnabled,
		TempTTL:        cfg.TempTTL,
		Version:        version,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("root", fs.Root()),
			zap.Int64("max_upload_bytes", cfg.MaxUploadBytes),
			zap.Bool("admin", cfg.AdminEnabled),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	// Сценарий graceful shutdown при получении SIGTERM/SIGINT.
	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	return eg.Wait()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	return zc.Build()
}
