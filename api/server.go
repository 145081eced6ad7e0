package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	clog "cosmossdk.io/log"

	"github.com/openalpha/lbp-dex/metrics"
	"github.com/openalpha/lbp-dex/x/lbp/types"
)

// Server exposes the lbp engine over HTTP and WebSocket
type Server struct {
	httpServer *http.Server
	hub        *Hub
	service    *KeeperService
	config     *Config
	collector  *metrics.Collector
}

// Config contains server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// NewServer creates a new API server backed by a fresh in-memory keeper
func NewServer(config *Config, logger clog.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}

	service, err := NewKeeperService(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create keeper service: %w", err)
	}

	return &Server{
		hub:       NewHub(),
		service:   service,
		config:    config,
		collector: metrics.GetCollector(),
	}, nil
}

// Service returns the underlying keeper service
func (s *Server) Service() *KeeperService {
	return s.service
}

// Start starts the API server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/health", s.handleHealth)

	mux.HandleFunc("/v1/pools", s.handlePools)
	mux.HandleFunc("/v1/pools/", s.handlePoolRoutes)

	mux.HandleFunc("/v1/config", s.handleConfig)
	mux.HandleFunc("/v1/config/fees", s.handleSetFees)
	mux.HandleFunc("/v1/config/owner/nominate", s.handleNominateOwner)
	mux.HandleFunc("/v1/config/owner/accept", s.handleAcceptOwner)

	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/ws", s.hub.ServeWS)

	handler := corsMiddleware(s.metricsMiddleware(mux))

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go s.hub.Run()

	log.Printf("API server starting on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"warning":   "This API uses in-memory storage. For production, connect to a running chain.",
	})
}

// handlePools handles /v1/pools: GET lists, POST creates
func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"pools": s.service.ListPools(),
		})

	case http.MethodPost:
		var req CreatePoolRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		view, err := s.service.CreatePool(&req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		s.hub.Publish("pools", view)
		writeJSON(w, http.StatusCreated, view)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handlePoolRoutes dispatches /v1/pools/{poolId} and its sub-resources
func (s *Server) handlePoolRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/pools/")
	parts := strings.Split(rest, "/")
	poolID := parts[0]
	if poolID == "" {
		writeError(w, http.StatusBadRequest, "missing pool id")
		return
	}

	if len(parts) == 1 {
		s.handlePool(w, r, poolID)
		return
	}

	switch parts[1] {
	case "preview":
		s.handlePreview(w, r, poolID)
	case "swap":
		s.handleSwap(w, r, poolID)
	case "redeem":
		s.handleRedeem(w, r, poolID)
	case "close":
		s.handleClose(w, r, poolID)
	case "history":
		s.handleHistory(w, r, poolID, false)
	case "candles":
		s.handleHistory(w, r, poolID, true)
	case "users":
		if len(parts) != 3 || parts[2] == "" {
			writeError(w, http.StatusBadRequest, "missing user address")
			return
		}
		s.handleUserState(w, r, poolID, parts[2])
	default:
		writeError(w, http.StatusNotFound, "unknown resource")
	}
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request, poolID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view, err := s.service.GetPool(poolID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handlePreview handles GET /v1/pools/{poolId}/preview?side=...&amount=...
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request, poolID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	side := r.URL.Query().Get("side")
	amount, err := strconv.ParseUint(r.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	quote, err := s.service.Preview(poolID, side, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// handleSwap handles POST /v1/pools/{poolId}/swap
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request, poolID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.Swap(poolID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.hub.Publish("swaps", result)
	s.hub.Publish("swaps:"+poolID, result)
	writeJSON(w, http.StatusOK, result)
}

// handleRedeem handles POST /v1/pools/{poolId}/redeem
func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request, poolID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.Redeem(poolID, req.Caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.hub.Publish("redemptions", result)
	writeJSON(w, http.StatusOK, result)
}

// handleClose handles POST /v1/pools/{poolId}/close
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request, poolID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ClosePoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := s.service.ClosePool(poolID, req.Caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.hub.Publish("pools", view)
	writeJSON(w, http.StatusOK, view)
}

// handleHistory handles GET /v1/pools/{poolId}/history and /candles with
// optional from, to and limit query parameters
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, poolID string, candles bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parseInt := func(name string, fallback int64) int64 {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fallback
		}
		return v
	}

	from := parseInt("from", 0)
	to := parseInt("to", time.Now().Unix()+1)
	limit := int(parseInt("limit", 1000))

	if candles {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"pool_id": poolID,
			"candles": s.service.Candles(poolID, from, to, limit),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pool_id": poolID,
		"history": s.service.PriceHistory(poolID, from, to, limit),
	})
}

func (s *Server) handleUserState(w http.ResponseWriter, r *http.Request, poolID, user string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	state, err := s.service.UserState(poolID, user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleConfig handles /v1/config: GET reads, POST initializes
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := s.service.GetConfig()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)

	case http.MethodPost:
		var req ConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		cfg, err := s.service.InitConfig(&req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, cfg)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSetFees handles POST /v1/config/fees
func (s *Server) handleSetFees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg, err := s.service.SetFees(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleNominateOwner handles POST /v1/config/owner/nominate
func (s *Server) handleNominateOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req OwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.service.NominateOwner(&req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "nominated"})
}

// handleAcceptOwner handles POST /v1/config/owner/accept
func (s *Server) handleAcceptOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req OwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.service.AcceptOwner(&req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

// writeServiceError maps keeper errors onto HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, types.ErrPoolNotFound), errors.Is(err, types.ErrConfigNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrUnauthorized), errors.Is(err, types.ErrCallerDisallowed):
		status = http.StatusForbidden
	case errors.Is(err, types.ErrPoolAlreadyExists), errors.Is(err, types.ErrConfigAlreadyExists):
		status = http.StatusConflict
	}
	writeError(w, status, err.Error())
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		timer := metrics.NewTimer()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.collector.RecordAPIRequest(r.Method, r.URL.Path, strconv.Itoa(recorder.status), timer.ElapsedMs())
	})
}
