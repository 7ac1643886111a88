package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mull2536/voice-agent/internal/config"
	"github.com/mull2536/voice-agent/internal/segment"
)

// HTTPServer exposes monitoring endpoints: Prometheus metrics, a health
// check, and a JSON status snapshot. It binds loopback by default and never
// touches the protocol stream.
type HTTPServer struct {
	server    *http.Server
	logger    *slog.Logger
	pipeline  *segment.Pipeline
	startTime time.Time
}

// NewHTTPServer creates the monitoring HTTP server
func NewHTTPServer(cfg config.HTTPConfig, logger *slog.Logger, pipeline *segment.Pipeline) *HTTPServer {
	h := &HTTPServer{
		logger:    logger,
		pipeline:  pipeline,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/status", h.handleStatus)
	mux.Handle("/metrics", promhttp.Handler())

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// Start begins serving in a background goroutine
func (h *HTTPServer) Start() error {
	go func() {
		h.logger.Info("monitoring server listening", slog.String("address", h.server.Addr))
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("monitoring server failed", slog.String("error", err.Error()))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully
func (h *HTTPServer) Stop(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"status":         "ok",
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

func (h *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.pipeline.GetStats())
}

func (h *HTTPServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
