package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/JakeFAU/algoviz/internal/bubblesort"
	"github.com/JakeFAU/algoviz/internal/config"
	"github.com/JakeFAU/algoviz/internal/metrics"
	"github.com/JakeFAU/algoviz/internal/prime"
)

// PrimeChecker runs a traced primality check.
type PrimeChecker interface {
	Check(ctx context.Context, n int64) prime.Result
}

// Sorter runs a traced bubble sort.
type Sorter interface {
	Sort(ctx context.Context, input []int) bubblesort.Result
}

// IDGenerator issues request IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Server wires HTTP handlers to the algorithm components.
type Server struct {
	router  chi.Router
	checker PrimeChecker
	sorter  Sorter
	idGen   IDGenerator
	cfg     config.Config
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	checker PrimeChecker,
	sorter Sorter,
	idGen IDGenerator,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	s := &Server{
		checker: checker,
		sorter:  sorter,
		idGen:   idGen,
		cfg:     cfg,
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(compressMiddleware)
	// Route patterns are resolved inside the timeout goroutine, so metrics must
	// run there too.
	r.Use(timeoutMiddleware(cfg.Server.RequestTimeout))
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/prime", func(r chi.Router) {
			r.Use(corsMiddleware(cfg.CORS.PrimeOrigins, http.MethodGet))
			r.Get("/check", s.checkPrime)
		})
		r.Route("/sort", func(r chi.Router) {
			r.Use(corsMiddleware(cfg.CORS.SortOrigins, http.MethodPost))
			r.Post("/bubble", s.bubbleSort)
		})
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// Computations have no downstream dependencies.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func corsMiddleware(origins []string, method string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{method, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler
}

// compressMiddleware gzips responses for clients that accept it. Sort traces
// grow quadratically with input size.
func compressMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
