package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stockfeed/internal/domain"
	"stockfeed/internal/infra"
	"stockfeed/internal/infra/storage"
	"stockfeed/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config     *infra.Config
	Storage    *storage.Storage
	Downloader *infra.LogoDownloader
	Cache      *service.QuoteCache
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, DB, cache)
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping stockfeed...")

	// 1. Load Config; a missing file falls back to defaults so the
	// service runs with the provider demo key.
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		slog.Warn("Config file not found, using defaults", slog.String("path", configPath))
		cfg = infra.DefaultConfig()
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (symbol metadata)
	store, err := storage.NewStorage("")
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Initialize Logo Downloader
	baseDir, err := os.UserConfigDir()
	if err != nil {
		return err
	}
	downloader, err := infra.NewLogoDownloader(cfg, filepath.Join(baseDir, "stockfeed"))
	if err != nil {
		return err
	}
	b.Downloader = downloader
	slog.Info("✅ Logo downloader ready")

	// 5. Seed the quote cache with one placeholder per universe symbol
	seed := make([]domain.Quote, 0, len(cfg.API.AlphaVantage.Symbols))
	for _, sc := range cfg.API.AlphaVantage.Symbols {
		seed = append(seed, domain.PlaceholderQuote(sc.Symbol, sc.Name))
	}
	b.Cache = service.NewQuoteCache(seed)
	slog.Info("✅ Quote cache seeded", slog.Int("symbols", len(seed)))

	return nil
}

// SyncAssets synchronizes symbol metadata and logos in the background
func (b *Bootstrap) SyncAssets(ctx context.Context) {
	slog.Info("🔄 Starting asset synchronization...")

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 5) // Limit concurrent downloads

	for _, sc := range b.Config.API.AlphaVantage.Symbols {
		wg.Add(1)
		go func(symbol, name string) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}: // Acquire
			}
			defer func() { <-semaphore }() // Release

			info := &domain.SymbolInfo{
				Symbol:    symbol,
				Name:      name,
				IsActive:  true,
				UpdatedAt: time.Now(),
			}

			// Preserve favorite status and logo path across restarts
			if existing, _ := b.Storage.GetSymbol(symbol); existing != nil {
				info.IsFavorite = existing.IsFavorite
				info.LogoPath = existing.LogoPath
				info.LastSyncedAt = existing.LastSyncedAt
			}

			if err := b.Storage.UpsertSymbol(info); err != nil {
				slog.Error("Failed to upsert symbol", slog.String("symbol", symbol), slog.Any("error", err))
			}

			path, err := b.Downloader.DownloadLogo(symbol)
			if err != nil {
				slog.Warn("Failed to download logo", slog.String("symbol", symbol), slog.Any("error", err))
			} else if path != "" {
				info.LogoPath = path
				info.LastSyncedAt = time.Now()
				b.Storage.UpsertSymbol(info)
			}
		}(sc.Symbol, sc.Name)
	}

	wg.Wait()
	slog.Info("✨ Asset synchronization completed")
}
