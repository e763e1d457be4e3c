package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-ticketing/internal/pkg/config"
	"github.com/FACorreiaa/go-ticketing/internal/server"
	"github.com/FACorreiaa/go-ticketing/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), zap.String("service", cfg.Observability.ServiceName)); err != nil {
		return err
	}
	defer func() { _ = logger.Log.Sync() }()
	zlog := logger.Log

	otelShutdown, err := server.InitObservability(cfg.Observability, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			zlog.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(cfg, zlog)
	if err != nil {
		return err
	}
	httpServer := srv.HTTPServer()
	pprofServer := server.NewPprofServer(cfg.Observability.PprofAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	zlog.Info("Server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("api_base_url", cfg.API.BaseURL),
	)
	g.Go(func() error {
		return server.Serve(httpServer, zlog)
	})
	g.Go(func() error {
		// pprof is optional; losing it must not take the site down
		if err := server.Serve(pprofServer, zlog.Named("pprof")); err != nil {
			zlog.Warn("pprof server failed", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		err := server.GracefulShutdown(gctx, zlog, httpServer, pprofServer)
		stop()
		return err
	})

	if err := g.Wait(); err != nil {
		zlog.Error("Server error", zap.Error(err))
		return err
	}
	zlog.Info("Graceful shutdown complete")
	return nil
}
