package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockfeed/internal/app"
	"stockfeed/internal/infra/alphavantage"
	"stockfeed/internal/server"
	"stockfeed/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize("configs/config.yaml"); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Background Asset Sync (symbol metadata and logos)
	go bootstrap.SyncAssets(ctx)

	// 5. Wire the feed: quote provider over the seeded cache
	cfg := bootstrap.Config
	provider := alphavantage.NewClient(cfg, bootstrap.Cache)
	charts := service.NewChartService(rand.New(rand.NewSource(time.Now().UnixNano())))

	srv := server.New(cfg, provider, charts, bootstrap.Cache, bootstrap.Storage)

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			slog.Error("HTTP server failed", slog.Any("error", err))
			stop()
		}
	}()

	slog.InfoContext(ctx, "✨ Stockfeed fully operational. Press Ctrl+C to exit.",
		slog.String("addr", cfg.Server.ListenAddr),
		slog.Int("symbols", len(cfg.API.AlphaVantage.Symbols)))

	// Wait for shutdown signal
	<-ctx.Done()

	slog.Info("👋 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", slog.Any("error", err))
	}
}
