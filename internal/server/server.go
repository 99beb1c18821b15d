package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"stockfeed/internal/domain"
	"stockfeed/internal/feed"
	"stockfeed/internal/infra"
	"stockfeed/internal/service"

	"github.com/gorilla/websocket"
)

// Server exposes the live feed over websocket plus the REST surface
// (chart data, symbol listing, metrics, health).
type Server struct {
	cfg      *infra.Config
	provider domain.QuoteProvider
	charts   *service.ChartService
	quotes   *service.QuoteCache
	symbols  domain.SymbolRepository
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// New creates a server. The quote cache and symbol repository may be
// nil when the corresponding endpoint is disabled.
func New(cfg *infra.Config, provider domain.QuoteProvider, charts *service.ChartService, quotes *service.QuoteCache, symbols domain.SymbolRepository) *Server {
	s := &Server{
		cfg:      cfg,
		provider: provider,
		charts:   charts,
		quotes:   quotes,
		symbols:  symbols,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.httpSrv = &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: s.Handler(),
	}
	return s
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/feed", s.handleFeed)
	mux.HandleFunc("GET /charts/data", s.handleChartData)
	mux.HandleFunc("GET /api/quotes", s.handleQuotes)
	mux.HandleFunc("GET /api/symbols", s.handleSymbols)
	mux.HandleFunc("POST /api/symbols/{symbol}/favorite", s.handleToggleFavorite)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe runs the HTTP server until Shutdown
func (s *Server) ListenAndServe() error {
	slog.Info("HTTP server listening", slog.String("addr", s.cfg.Server.ListenAddr))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains active ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// handleFeed upgrades the connection and binds it to a fresh pipeline
// run. The run lives exactly as long as the connection.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", slog.Any("error", err))
		return
	}

	infra.GlobalMetrics.IncrementSubscribers()
	defer infra.GlobalMetrics.DecrementSubscribers()
	slog.Info("Subscriber connected", slog.String("remote", conn.RemoteAddr().String()))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := newSubscription(conn, s.cfg.Feed.SendBuffer, cancel)

	// Each subscriber gets its own pipeline instance and random source
	synth := service.NewTradeSynthesizer(rand.New(rand.NewSource(time.Now().UnixNano())), nil)
	pipeline := feed.New(s.provider, synth,
		time.Duration(s.cfg.Feed.TickIntervalMS)*time.Millisecond)

	pipeline.Start(ctx, sub.onTick)
	go sub.readPump()
	sub.writePump(ctx)

	// Write pump exit means the connection is gone; stop the pipeline
	// before releasing the subscription.
	pipeline.Stop()
	slog.Info("Subscriber disconnected", slog.String("remote", conn.RemoteAddr().String()))
}

// handleRoot redirects the bare root to the feed endpoint. "/" is the
// mux catch-all, so anything else unmatched is a plain 404.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/feed", http.StatusFound)
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	chartType := r.URL.Query().Get("type")
	if chartType == "" {
		chartType = "line"
	}
	writeJSON(w, s.charts.FetchData(chartType))
}

// handleQuotes serves the last known quote per universe symbol, in
// universe order. Placeholders appear until the first successful sample.
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if s.quotes == nil {
		http.Error(w, "quote cache disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, s.quotes.Snapshot())
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	if s.symbols == nil {
		// Fall back to the configured universe when persistence is off
		infos := make([]domain.SymbolInfo, 0, len(s.cfg.API.AlphaVantage.Symbols))
		for _, sc := range s.cfg.API.AlphaVantage.Symbols {
			infos = append(infos, domain.SymbolInfo{Symbol: sc.Symbol, Name: sc.Name, IsActive: true})
		}
		writeJSON(w, infos)
		return
	}

	infos, err := s.symbols.GetAllSymbols()
	if err != nil {
		http.Error(w, "failed to load symbols", http.StatusInternalServerError)
		return
	}
	writeJSON(w, infos)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if s.symbols == nil {
		http.Error(w, "symbol store disabled", http.StatusNotFound)
		return
	}

	symbol := r.PathValue("symbol")
	isFavorite, err := s.symbols.ToggleFavorite(symbol)
	if err != nil {
		http.Error(w, "unknown symbol", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"symbol": symbol, "is_favorite": isFavorite})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, infra.GlobalMetrics.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "app": s.cfg.App.Name})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", slog.Any("error", err))
	}
}
