// Package server provides the HTTP REST API for the listing optimizer.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcus/listing-optimizer/internal/acquire"
	"github.com/marcus/listing-optimizer/internal/config"
	"github.com/marcus/listing-optimizer/internal/db"
	"github.com/marcus/listing-optimizer/internal/optimize"
	"github.com/marcus/listing-optimizer/internal/pipeline"
	"github.com/marcus/listing-optimizer/internal/server/ratelimit"
)

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	cfg         *config.Config
	rateLimiter *ratelimit.Limiter

	// run executes one optimization cycle; swapped out in tests.
	run func(ctx context.Context, identifier string, save bool) (*pipeline.Result, error)
}

// New creates a new server instance. The database is optional: without
// DATABASE_URL the server runs, but history endpoints return 503 and save
// requests are ignored.
func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		cfg:         cfg,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}
	s.run = s.runPipeline

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(context.Background()); err != nil {
			database.Close()
			return nil, err
		}
		s.db = database
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /optimize", s.handleOptimize)
	mux.HandleFunc("GET /optimizations", s.handleListOptimizations)
	mux.HandleFunc("GET /optimizations/{id}", s.handleGetOptimization)
	mux.HandleFunc("DELETE /optimizations/{id}", s.handleDeleteOptimization)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withCORS(s.withLogging(s.withRateLimit(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	return s, nil
}

// Start runs the server until an interrupt or termination signal arrives,
// then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// runPipeline executes one acquisition-and-optimization cycle. The AI client
// is created per request and closed with it; persistence is attached only
// when the caller asked to save and a database is configured.
func (s *Server) runPipeline(ctx context.Context, identifier string, save bool) (*pipeline.Result, error) {
	client, err := optimize.NewGeminiClient(ctx, s.cfg.APIKey, s.cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	defer func() { _ = client.Close() }()

	p := &pipeline.Pipeline{
		Source:     s.newSource(),
		Client:     client,
		Normalizer: optimize.Normalizer{StrictSchema: s.cfg.StrictSchema},
		Verbose:    s.cfg.Verbose,
	}
	if save && s.db != nil {
		p.Recorder = s.db
	}

	return p.Run(ctx, identifier)
}

// newSource builds the configured acquisition strategy.
func (s *Server) newSource() acquire.Source {
	switch s.cfg.Strategy {
	case config.StrategyStatic:
		return &acquire.Static{Timeout: s.cfg.AcquireTimeout, UserAgent: acquire.DefaultUserAgent}
	default:
		return &acquire.Browser{Timeout: s.cfg.AcquireTimeout, UserAgent: acquire.DefaultUserAgent}
	}
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit enforces per-client budgets. Optimization requests count
// against the smaller expensive-request budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expensive := r.Method == http.MethodPost && r.URL.Path == "/optimize"
		if !s.rateLimiter.Allow(extractClientID(r), expensive) {
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request. For now
// this is the IP from RemoteAddr.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
