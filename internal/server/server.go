// Package server hosts the webhook gateway over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/voxgate/voxgate/internal/dispatch"
	"github.com/voxgate/voxgate/internal/platform"
	"github.com/voxgate/voxgate/internal/track"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
	Verbose  bool // log every request
}

// Server exposes the dispatcher on a chi router.
type Server struct {
	cfg        Config
	dispatcher *dispatch.Dispatcher
	console    *track.Console
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server. console may be nil, in which case the /console
// endpoint is not mounted.
func New(cfg Config, d *dispatch.Dispatcher, console *track.Console) *Server {
	s := &Server{cfg: cfg, dispatcher: d, console: console}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.cfg.Verbose {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/webhook", s.handleWebhook)

	if s.console != nil {
		r.Get("/console", s.console.ServeHTTP)
	}

	return r
}

// Router returns the chi router, for tests and for embedding.
func (s *Server) Router() chi.Router { return s.router }

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	sink := &httpSink{w: w}
	accessor := platform.NewAccessor(body, r.Header)

	err = s.dispatcher.Handle(r.Context(), body, accessor, sink)
	switch {
	case err == nil:
		if !sink.wrote {
			w.WriteHeader(http.StatusNoContent)
		}
	case errors.Is(err, dispatch.ErrRequestNotSupported):
		http.Error(w, "unsupported request", http.StatusBadRequest)
	case errors.Is(err, dispatch.ErrVerificationFailed):
		// The verifier may already own the response.
		if !sink.wrote {
			http.Error(w, "verification failed", http.StatusUnauthorized)
		}
	default:
		log.Printf("webhook: %v", err)
		if !sink.wrote {
			http.Error(w, "processing error", http.StatusInternalServerError)
		}
	}
}

// httpSink delivers the single response payload for one request.
type httpSink struct {
	w     http.ResponseWriter
	wrote bool
}

func (s *httpSink) Deliver(payload any) error {
	if s.wrote {
		return fmt.Errorf("response already delivered")
	}
	s.wrote = true
	s.w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(s.w).Encode(payload)
}

func (s *httpSink) Reject(status int, msg string) error {
	if s.wrote {
		return fmt.Errorf("response already delivered")
	}
	s.wrote = true
	http.Error(s.w, msg, status)
	return nil
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("voxgate listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
