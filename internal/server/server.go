// Package server provides the HTTP JSON API of the career tracker.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/events"
	"github.com/jonathan/career-tracker/internal/server/middleware"
	"github.com/jonathan/career-tracker/internal/server/ratelimit"
	"github.com/jonathan/career-tracker/internal/types"
)

// Engine is the task and analytics engine the API serves.
type Engine interface {
	TodayTasks(ctx context.Context, userID uuid.UUID, day types.Date) (*types.Projection, error)
	Complete(ctx context.Context, userID uuid.UUID, req types.CompleteTaskRequest) error
	Uncomplete(ctx context.Context, userID uuid.UUID, req types.UncompleteTaskRequest) error
	Analytics(ctx context.Context, userID uuid.UUID, start, end types.Date) (*types.AnalyticsBundle, error)
}

// Subscriber hands out per-user invalidation event streams.
type Subscriber interface {
	Subscribe(userID uuid.UUID) (<-chan events.Event, func())
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	engine      Engine
	events      Subscriber
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	keepAlive   time.Duration
	onShutdown  []func()
}

// Config holds server configuration
type Config struct {
	Port int
	// RateLimit overrides the environment-derived limiter config.
	RateLimit *ratelimit.Config
	// KeepAlive is the SSE comment interval. Defaults to 25s.
	KeepAlive time.Duration
}

// New creates a new server instance
func New(cfg Config, engine Engine, subscriber Subscriber, jwtService *JWTService) *Server {
	s := &Server{
		engine:     engine,
		events:     subscriber,
		jwtService: jwtService,
		keepAlive:  cfg.KeepAlive,
	}
	if s.keepAlive <= 0 {
		s.keepAlive = 25 * time.Second
	}

	rateCfg := cfg.RateLimit
	if rateCfg == nil {
		rateCfg = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rateCfg)

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: /v1/events streams for the life of the connection
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /v1/tasks", s.handleListTasks)
	api.HandleFunc("POST /v1/tasks/complete", s.handleCompleteTask)
	api.HandleFunc("POST /v1/tasks/uncomplete", s.handleUncompleteTask)
	api.HandleFunc("GET /v1/analytics", s.handleAnalytics)
	api.HandleFunc("GET /v1/events", s.handleEvents)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/v1/", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(api))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// OnShutdown registers fn to run after the HTTP server has stopped.
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	for _, fn := range s.onShutdown {
		fn()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
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
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps the event stream working through the logging middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes err as a JSON error with the status HTTPStatus picks.
// Internal errors are logged and replaced by a generic message.
func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s failed: %v", r.Method, r.URL.Path, err)
		message = "internal error"
	}
	jsonResponse(w, status, map[string]string{"error": message})
}

// clientID identifies the caller for rate limiting by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] %s %s from %s: limit=%d", r.Method, r.URL.Path, clientID(r), info.Limit)
	jsonResponse(w, http.StatusTooManyRequests, response)
}
