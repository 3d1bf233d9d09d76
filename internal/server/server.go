// Package server exposes the signal lifecycle over HTTP: a trigger endpoint
// for price and candle events plus an admin surface for managing signals.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/quantgate/signal-sentinel/internal/auth"
	"github.com/quantgate/signal-sentinel/internal/evaluator"
	"github.com/quantgate/signal-sentinel/internal/logger"
	"github.com/quantgate/signal-sentinel/internal/store"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/quantgate/signal-sentinel/pkg/errors"
	"go.uber.org/zap"
)

// Server hosts the HTTP API.
type Server struct {
	evaluator *evaluator.Evaluator
	store     store.SignalStore
	logger    *logger.Logger
	auth      auth.JWT

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a Server. authSecret may be empty, which disables the
// admin surface entirely.
func NewServer(eval *evaluator.Evaluator, signalStore store.SignalStore, log *logger.Logger, authSecret string) *Server {
	return &Server{
		evaluator:  eval,
		store:      signalStore,
		logger:     log,
		auth:       auth.JWT{Secret: []byte(authSecret), TokenTTL: 24 * time.Hour},
		httpServer: nil,
		listener:   nil,
	}
}

// Start starts the server on the given address.
// If address is empty or ":0", a random available port is used.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeServerStartFailed, err, "failed to listen on %s", address)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *Server) BaseURL() string {
	return "http://" + s.Address()
}

// Router builds the API routes. Exposed for tests.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/v1/events", s.handleEvent).Methods("POST")
	router.HandleFunc("/api/v1/signals", s.requireAuth(s.handleCreateSignal)).Methods("POST")
	router.HandleFunc("/api/v1/signals", s.handleListSignals).Methods("GET")
	router.HandleFunc("/api/v1/signals/{id}", s.handleGetSignal).Methods("GET")
	router.HandleFunc("/api/v1/signals/{id}/events", s.handleListEvents).Methods("GET")

	return router
}

// requireAuth gates a handler behind a bearer token. With no configured
// secret every request is rejected.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.auth.Secret) == 0 {
			writeError(w, http.StatusUnauthorized, "admin api disabled")
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		if _, err := s.auth.Verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvent handles POST /api/v1/events. The body is a trigger in one of
// two shapes, discriminated by the event field.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var trigger types.TriggerEvent
	if err := json.NewDecoder(r.Body).Decode(&trigger); err != nil {
		writeError(w, http.StatusBadRequest, "unparseable event body")
		return
	}

	if err := s.evaluator.Evaluate(r.Context(), trigger); err != nil {
		if errors.HasCode(err, errors.ErrCodeLoadSignalsFailed) {
			s.logger.Error("failed to load signals", zap.String("ticker", trigger.Ticker), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load signals")
			return
		}

		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleCreateSignal handles POST /api/v1/signals.
func (s *Server) handleCreateSignal(w http.ResponseWriter, r *http.Request) {
	var signal types.Signal
	if err := json.NewDecoder(r.Body).Decode(&signal); err != nil {
		writeError(w, http.StatusBadRequest, "unparseable signal body")
		return
	}

	if signal.ID == "" {
		signal.ID = uuid.New().String()
	}
	if signal.Status == "" {
		signal.Status = types.SignalStatusActive
	}
	if signal.HitTargets == nil {
		signal.HitTargets = []int{}
	}

	if err := signal.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateSignal(r.Context(), signal); err != nil {
		s.logger.Error("failed to create signal", zap.String("id", signal.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create signal")
		return
	}

	writeJSON(w, http.StatusCreated, signal)
}

// handleListSignals handles GET /api/v1/signals with optional ticker and
// status query filters.
func (s *Server) handleListSignals(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{
		Ticker: r.URL.Query().Get("ticker"),
		Status: types.SignalStatus(r.URL.Query().Get("status")),
	}

	if filter.Status != "" && filter.Status != types.SignalStatusActive && filter.Status != types.SignalStatusClosed {
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	signals, err := s.store.ListSignals(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list signals", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list signals")
		return
	}

	if signals == nil {
		signals = []types.Signal{}
	}

	writeJSON(w, http.StatusOK, signals)
}

func (s *Server) handleGetSignal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	signal, err := s.store.GetSignal(r.Context(), id)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeSignalNotFound) {
			writeError(w, http.StatusNotFound, "signal not found")
			return
		}

		s.logger.Error("failed to get signal", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get signal")
		return
	}

	writeJSON(w, http.StatusOK, signal)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := s.store.GetSignal(r.Context(), id); err != nil {
		if errors.HasCode(err, errors.ErrCodeSignalNotFound) {
			writeError(w, http.StatusNotFound, "signal not found")
			return
		}

		s.logger.Error("failed to get signal", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get signal")
		return
	}

	events, err := s.store.ListEvents(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to list events", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	if events == nil {
		events = []types.SignalEvent{}
	}

	writeJSON(w, http.StatusOK, events)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
