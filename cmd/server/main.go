// Package main runs the launchpad service: bonding-curve markets over
// HTTP, a websocket feed of settled trades, and Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pump-launchpad/internal/curve"
	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/feed"
	"pump-launchpad/internal/lookup"
	"pump-launchpad/internal/metrics"
	"pump-launchpad/internal/observability"
	"pump-launchpad/internal/solana"
	"pump-launchpad/internal/storage"
	chstore "pump-launchpad/internal/storage/clickhouse"
	"pump-launchpad/internal/storage/memory"
	"pump-launchpad/internal/storage/migrations"
	pgstore "pump-launchpad/internal/storage/postgres"
	"pump-launchpad/internal/trading"
)

// Server binds the trade executor and its stores to the HTTP surface.
type Server struct {
	executor   *trading.Executor
	stores     *allStores
	aggregator *metrics.Aggregator
	hub        *feed.Hub
	logger     *log.Logger
	started    time.Time
}

// allStores holds all storage implementations.
type allStores struct {
	marketStore  storage.MarketStore
	tradeStore   storage.TradeRecordStore
	profileStore storage.TraderProfileStore
	priceStore   storage.PriceHistoryStore
}

func main() {
	loadEnvFile()

	listenAddr := flag.String("listen-addr", ":8080", "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")

	feeRateBps := flag.Uint64("fee-bps", 100, "Platform fee in basis points")
	whaleTaxBps := flag.Uint64("whale-tax-bps", 500, "Whale tax in basis points")
	whaleThreshold := flag.Uint64("whale-threshold", 100_000_000_000, "Whale threshold in lamports")
	maxTradeSize := flag.Uint64("max-trade-size", 1_000_000_000_000, "Maximum single trade in lamports")
	maxSlippageBps := flag.Uint64("max-slippage-bps", 500, "Maximum caller slippage tolerance in basis points")

	tradeCooldown := flag.Duration("trade-cooldown", 0, "Per-trader cooldown between trades (0 disables)")
	tradesPerMinute := flag.Int("trades-per-minute", 0, "Per-trader trades per minute (0 disables)")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, recorders, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	hub := feed.NewHub(feed.DefaultConfig(), log.New(os.Stdout, "[feed] ", log.LstdFlags))
	defer hub.Close()

	var gate trading.SecurityGate
	if *tradeCooldown > 0 || *tradesPerMinute > 0 {
		gate = trading.NewRateLimitGate(*tradeCooldown, *tradesPerMinute)
	}

	executor := trading.NewExecutor(stores.marketStore, trading.ExecutorOptions{
		Gate:      gate,
		Profiles:  stores.profileStore,
		Recorders: append(recorders, hub),
		Notifier:  hub,
		Policy: domain.FeePolicy{
			FeeRateBps:     *feeRateBps,
			WhaleTaxBps:    *whaleTaxBps,
			WhaleThreshold: *whaleThreshold,
			MaxTradeSize:   *maxTradeSize,
			MaxSlippageBps: *maxSlippageBps,
		},
	})

	server := &Server{
		executor:   executor,
		stores:     stores,
		aggregator: metrics.NewAggregator(stores.tradeStore),
		hub:        hub,
		logger:     logger,
		started:    time.Now(),
	}

	httpServer := &http.Server{
		Addr:              *listenAddr,
		Handler:           server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
		hub.Close()
	}()

	logger.Printf("Listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores plus the trade recorders
// that mirror settled trades into them.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, []trading.Recorder, func(), error) {
	if useMemory {
		stores := &allStores{
			marketStore:  memory.NewMarketStore(),
			tradeStore:   memory.NewTradeRecordStore(),
			profileStore: memory.NewTraderProfileStore(),
			priceStore:   memory.NewPriceHistoryStore(),
		}
		recorders := []trading.Recorder{
			trading.NewTradeStoreRecorder(stores.tradeStore),
			trading.NewPricePointRecorder(stores.priceStore),
		}
		return stores, recorders, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		marketStore:  pgstore.NewMarketStore(pool),
		tradeStore:   pgstore.NewTradeRecordStore(pool),
		profileStore: pgstore.NewTraderProfileStore(pool),
		priceStore:   chstore.NewPriceHistoryStore(chConn),
	}
	recorders := []trading.Recorder{
		trading.NewTradeStoreRecorder(stores.tradeStore),
		trading.NewPricePointRecorder(stores.priceStore),
		chstore.NewTradeHistoryStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, recorders, cleanup, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /ws", s.hub)

	mux.HandleFunc("POST /api/markets", s.handleCreateMarket)
	mux.HandleFunc("GET /api/markets", s.handleListMarkets)
	mux.HandleFunc("GET /api/markets/{id}", s.handleGetMarket)
	mux.HandleFunc("GET /api/markets/{id}/trades", s.handleMarketTrades)
	mux.HandleFunc("GET /api/markets/{id}/quote", s.handleQuote)
	mux.HandleFunc("GET /api/markets/{id}/price", s.handleMarketPrice)
	mux.HandleFunc("GET /api/markets/{id}/stats", s.handleMarketStats)
	mux.HandleFunc("GET /api/traders/{trader}/stats", s.handleTraderStats)
	mux.HandleFunc("POST /api/trades", s.handleExecuteTrade)

	return mux
}

// CreateMarketRequest is the JSON body for POST /api/markets.
type CreateMarketRequest struct {
	Mint    string `json:"mint"`
	Creator string `json:"creator"`

	CurveType           string `json:"curve_type"`
	InitialPrice        uint64 `json:"initial_price"`
	Slope               uint64 `json:"slope,omitempty"`
	GrowthFactor        uint64 `json:"growth_factor,omitempty"`
	Scale               uint64 `json:"scale,omitempty"`
	Steepness           uint64 `json:"steepness,omitempty"`
	Midpoint            uint64 `json:"midpoint,omitempty"`
	MaxPrice            uint64 `json:"max_price,omitempty"`
	GraduationThreshold uint64 `json:"graduation_threshold"`
	VolatilityDamper    uint64 `json:"volatility_damper"`
	InitialSupply       uint64 `json:"initial_supply"`
	MaxSupply           uint64 `json:"max_supply,omitempty"`
}

func (s *Server) handleCreateMarket(w http.ResponseWriter, r *http.Request) {
	var req CreateMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	market, err := s.executor.CreateMarket(r.Context(), trading.LaunchRequest{
		Mint:    req.Mint,
		Creator: req.Creator,
		Params: domain.CurveParameters{
			CurveType:           domain.CurveType(req.CurveType),
			InitialPrice:        req.InitialPrice,
			Slope:               req.Slope,
			GrowthFactor:        req.GrowthFactor,
			Scale:               req.Scale,
			Steepness:           req.Steepness,
			Midpoint:            req.Midpoint,
			MaxPrice:            req.MaxPrice,
			GraduationThreshold: req.GraduationThreshold,
			VolatilityDamper:    req.VolatilityDamper,
			InitialSupply:       req.InitialSupply,
			MaxSupply:           req.MaxSupply,
		},
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusCreated, market)
}

func (s *Server) handleListMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := s.stores.marketStore.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, markets)
}

func (s *Server) handleGetMarket(w http.ResponseWriter, r *http.Request) {
	market, err := s.stores.marketStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, market)
}

func (s *Server) handleMarketTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.stores.tradeStore.GetByMarketID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	direction := domain.TradeDirection(strings.ToUpper(r.URL.Query().Get("direction")))
	var amount uint64
	if _, err := fmt.Sscanf(r.URL.Query().Get("amount"), "%d", &amount); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid amount: %w", err))
		return
	}

	calc, err := s.executor.Quote(r.Context(), r.PathValue("id"), direction, amount)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

// handleMarketPrice resolves the recorded price point at an optional
// "at" millisecond timestamp. Without "at" it returns the latest point.
func (s *Server) handleMarketPrice(w http.ResponseWriter, r *http.Request) {
	points, err := s.stores.priceStore.GetByMarketID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var point *domain.PricePoint
	if at := r.URL.Query().Get("at"); at != "" {
		var target int64
		if _, err := fmt.Sscanf(at, "%d", &target); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid at timestamp: %w", err))
			return
		}
		point, err = lookup.PointAt(target, points)
	} else {
		point, err = lookup.Latest(points)
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, point)
}

func (s *Server) handleMarketStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.aggregator.ComputeMarketSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTraderStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.aggregator.ComputeTraderSummary(r.Context(), r.PathValue("trader"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ExecuteTradeRequest is the JSON body for POST /api/trades.
type ExecuteTradeRequest struct {
	MarketID             string `json:"market_id"`
	Trader               string `json:"trader"`
	Direction            string `json:"direction"`
	AmountIn             uint64 `json:"amount_in"`
	MinOut               uint64 `json:"min_out,omitempty"`
	SlippageToleranceBps uint64 `json:"slippage_tolerance_bps,omitempty"`
}

func (s *Server) handleExecuteTrade(w http.ResponseWriter, r *http.Request) {
	var req ExecuteTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if err := solana.ValidateWallet(req.Trader); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("trader: %w", err))
		return
	}

	record, err := s.executor.Execute(r.Context(), domain.TradeRequest{
		MarketID:             req.MarketID,
		Trader:               req.Trader,
		Direction:            domain.TradeDirection(strings.ToUpper(req.Direction)),
		AmountIn:             req.AmountIn,
		MinOut:               req.MinOut,
		SlippageToleranceBps: req.SlippageToleranceBps,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	FeedClients int    `json:"feed_clients"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := "running"
	if s.executor.Paused() {
		status = "paused"
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:      status,
		Uptime:      time.Since(s.started).String(),
		FeedClients: s.hub.ClientCount(),
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, metrics.ErrNoTrades),
		errors.Is(err, lookup.ErrNoPriceData):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, trading.ErrSlippageExceeded),
		errors.Is(err, trading.ErrMarketGraduated):
		return http.StatusConflict
	case errors.Is(err, trading.ErrTradeDenied):
		return http.StatusTooManyRequests
	case errors.Is(err, trading.ErrTradingPaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, trading.ErrMaxTradeSizeExceeded),
		errors.Is(err, trading.ErrInvalidSlippageTolerance),
		errors.Is(err, curve.ErrInvalidAmount),
		errors.Is(err, curve.ErrInvalidCurveParams),
		errors.Is(err, curve.ErrInsufficientLiquidity),
		errors.Is(err, curve.ErrInsufficientBalance),
		errors.Is(err, solana.ErrInvalidAddress),
		errors.Is(err, solana.ErrNotOnCurve):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
