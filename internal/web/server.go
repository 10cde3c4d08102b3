// Package web serves the photo listing, camera classification and upload
// check endpoints over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anatolykoptev/go-camerafy"
)

// Options configures a Server.
type Options struct {
	Gate           *camerafy.Config // upload gate; its Engine also serves /api/classify
	Photos         []camerafy.Photo // archive listing
	RequestTimeout time.Duration    // default: 60s
	ReadTimeout    time.Duration    // default: 15s
	WriteTimeout   time.Duration    // default: 60s
	ShutdownGrace  time.Duration    // default: 10s
}

// Server is the HTTP server for camerafy.
type Server struct {
	gate   *camerafy.Config
	engine *camerafy.Engine
	photos []camerafy.Photo
	opts   Options
	router *chi.Mux
}

// NewServer creates a Server with its middleware and routes installed.
func NewServer(opts Options) *Server {
	if opts.Gate == nil {
		opts.Gate = &camerafy.Config{}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = 10 * time.Second
	}

	engine := opts.Gate.Engine
	if engine == nil {
		engine = camerafy.NewEngine(nil)
	}

	s := &Server{
		gate:   opts.Gate,
		engine: engine,
		photos: opts.Photos,
		opts:   opts,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.opts.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/photos", s.handlePhotos)
		r.Get("/classify", s.handleClassify)
		r.Post("/uploads/check", s.handleUploadCheck)
	})
}

// Router returns the underlying chi router.
func (s *Server) Router() http.Handler {
	return s.router
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured grace period.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("camerafy: listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownGrace)
	defer cancel()
	slog.Info("camerafy: shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("camerafy: json encode failed", "error", err.Error())
	}
}

// errorResponse is the body of every API error.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	slog.Warn("camerafy: request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", message,
		"request_id", middleware.GetReqID(r.Context()),
	)
	writeJSON(w, status, errorResponse{Error: message})
}
