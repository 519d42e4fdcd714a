package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bem/internal/core/app"
	domainerrors "bem/internal/core/errors"
	"bem/internal/engine/bem"
)

// Server exposes class-name resolution over HTTP, plus health and metrics.
type Server struct {
	addr          string
	app           *app.App
	healthService *app.HealthService
	server        *http.Server
	listener      net.Listener
}

func New(addr string, a *app.App) *Server {
	return &Server{
		addr:          addr,
		app:           a,
		healthService: app.NewHealthService(a),
	}
}

// Handler builds the HTTP routes. /metrics is mounted only when metrics are enabled.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.app.Config == nil || s.app.Config.Observability.EnableMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/resolve", s.handleResolve)
	mux.HandleFunc("/keys", s.handleKeys)

	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("class-name server starting", "addr", ln.Addr().String())

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("class-name server failed", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

type resolveResponse struct {
	Class string `json:"class"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleResolve serves GET /resolve?block=btn[&element=label][&external=x][&modifier=a&modifier=b].
// Empty modifier values are treated as absent.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, domainerrors.New(domainerrors.CodeNotSupported, "method not allowed"))
		return
	}
	q := r.URL.Query()
	block := q.Get("block")
	element := q.Get("element")
	external := q.Get("external")
	modifiers := bem.Mods(q["modifier"]...)

	var (
		class string
		err   error
	)
	if element != "" {
		class, err = s.app.Registry.Element(block, element, external, modifiers...)
	} else {
		class, err = s.app.Registry.Block(block, external, modifiers...)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{Class: class})
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := s.app.Registry.Keys(r.URL.Query().Get("pattern"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.healthService.Check(r.Context())
	code := http.StatusOK
	if status.Status != "up" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func writeError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domainerrors.CodeUnknownKey, domainerrors.CodeNotFound:
		status = http.StatusNotFound
	case domainerrors.CodeInvalidArgument, domainerrors.CodeValidationError:
		status = http.StatusBadRequest
	case domainerrors.CodeNotSupported:
		status = http.StatusMethodNotAllowed
	case "":
		code = domainerrors.CodeInternal
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}
