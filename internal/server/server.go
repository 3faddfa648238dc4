// Package server exposes the aggregation pipeline over HTTP. It is a thin
// layer: all domain logic lives in the service package.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"StockBoard/internal/model"
)

// StockService is the pipeline surface the HTTP layer needs.
type StockService interface {
	Complete(ctx context.Context) *model.Response
	Quick(ctx context.Context) *model.Response
	StockByID(ctx context.Context, id string, includeTechnical bool) *model.Stock
	Latest() *model.Response
}

// Server wraps the HTTP server and its routes.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	service StockService
	started time.Time
}

// New creates the HTTP server. The long request timeout accommodates a full
// pipeline run, which fetches dozens of upstream pages with pacing delays.
func New(addr string, svc StockService) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: svc,
		started: time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(5 * time.Minute))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/summary", s.handleSummary)
		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", s.handleStocks)
			r.Get("/quick", s.handleStocksQuick)
			r.Get("/latest", s.handleStocksLatest)
			r.Get("/{id}", s.handleStockByID)
		})
	})
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	log.Printf("[INFO] http server listening on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("[INFO] shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("[INFO] %s %s -> %d (%s)",
			r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}
