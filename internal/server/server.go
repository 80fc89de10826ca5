// Package server provides the HTTP REST API for the draft assistant.
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
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/draft-assistant/internal/config"
	"github.com/jonathan/draft-assistant/internal/db"
	"github.com/jonathan/draft-assistant/internal/draftstore"
	"github.com/jonathan/draft-assistant/internal/events"
	"github.com/jonathan/draft-assistant/internal/ingestion"
	"github.com/jonathan/draft-assistant/internal/orchestrator"
	"github.com/jonathan/draft-assistant/internal/server/middleware"
	"github.com/jonathan/draft-assistant/internal/server/ratelimit"
)

// ProfileStore reads and writes candidate profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (json.RawMessage, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, profile json.RawMessage) error
}

// PostingStore persists ingested job postings.
type PostingStore interface {
	SaveJobPosting(ctx context.Context, userID uuid.UUID, posting *ingestion.JobPosting) error
	GetJobPosting(ctx context.Context, userID uuid.UUID, jobID string) (*ingestion.JobPosting, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	store       draftstore.Persistence
	profiles    ProfileStore
	postings    PostingStore
	gen         orchestrator.Generator
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService

	// One orchestrator per user, created on first generation request.
	orchMu sync.Mutex
	orchs  map[uuid.UUID]*userRun
}

// userRun pairs a user's orchestrator with the bus its events flow through.
type userRun struct {
	orch *orchestrator.Orchestrator
	bus  *events.Bus
}

// Config holds server configuration. Database is the shared connection
// pool; the server takes ownership and closes it on shutdown.
type Config struct {
	Port      int
	Database  *db.DB
	Generator orchestrator.Generator
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	s := &Server{
		db:       cfg.Database,
		store:    cfg.Database,
		profiles: cfg.Database,
		postings: cfg.Database,
		gen:      cfg.Generator,
		orchs:    make(map[uuid.UUID]*userRun),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for generation streams
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the full middleware-wrapped handler tree.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	authed := http.NewServeMux()

	// Draft endpoints
	authed.HandleFunc("GET /drafts", s.handleListDrafts)
	authed.HandleFunc("POST /drafts", s.handleCreateDraft)
	authed.HandleFunc("GET /drafts/{id}", s.handleGetDraft)
	authed.HandleFunc("PUT /drafts/{id}", s.handleUpdateDraft)
	authed.HandleFunc("DELETE /drafts/{id}", s.handleDeleteDraft)

	// Generation endpoints
	authed.HandleFunc("POST /generate/stream", s.handleGenerateStream)
	authed.HandleFunc("POST /generate/abort", s.handleGenerateAbort)
	authed.HandleFunc("POST /generate/reset", s.handleGenerateReset)
	authed.HandleFunc("POST /generate/segments/{segment}/retry", s.handleRetrySegment)
	authed.HandleFunc("GET /generate/status", s.handleGenerateStatus)

	// Job posting ingestion
	authed.HandleFunc("POST /jobs/ingest", s.handleIngestJob)
	authed.HandleFunc("GET /jobs/{id}", s.handleGetJobPosting)

	// Candidate profile
	authed.HandleFunc("GET /profile", s.handleGetProfile)
	authed.HandleFunc("PUT /profile", s.handlePutProfile)

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("/", auth(authed))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
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

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// runFor returns the orchestrator for a user, creating it on first use.
func (s *Server) runFor(userID uuid.UUID) *userRun {
	s.orchMu.Lock()
	defer s.orchMu.Unlock()

	if run, ok := s.orchs[userID]; ok {
		return run
	}
	bus := events.NewBus()
	run := &userRun{
		orch: orchestrator.New(s.gen, bus),
		bus:  bus,
	}
	s.orchs[userID] = run
	return run
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
