// Package api exposes the HTTP interface for the extraction service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mfalzone/emailsift/internal/config"
	"github.com/mfalzone/emailsift/internal/extract"
	"github.com/mfalzone/emailsift/internal/metrics"
	"github.com/mfalzone/emailsift/internal/policy/ratelimit"
	"github.com/mfalzone/emailsift/internal/telemetry"
)

// ServiceName and Version identify the service on the info endpoint.
const (
	ServiceName = "emailsift"
	Version     = "1.0.0"
)

// Server wires HTTP handlers to the extraction pipeline.
type Server struct {
	router  chi.Router
	service *extract.Service
	limiter *ratelimit.Limiter
	logger  *zap.Logger
	cfg     config.Config
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	service *extract.Service,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
	cfg config.Config,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: service,
		limiter: limiter,
		logger:  logger,
		cfg:     cfg,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/info", s.info)
		r.With(s.rateLimitMiddleware).Post("/extract", s.extract)
	})

	if cfg.Server.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// The pipeline has no downstream dependencies to probe.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": ServiceName,
		"version": Version,
	})
}

type extractRequest struct {
	URL string `json:"url"`
}

type extractResponse struct {
	Success bool     `json:"success"`
	URL     string   `json:"url,omitempty"`
	Count   int      `json:"count"`
	Emails  []string `json:"emails"`
	Error   string   `json:"error,omitempty"`
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url required")
		return
	}

	result, err := s.service.Extract(r.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		status, msg := mapExtractError(err)
		writeJSON(w, status, extractResponse{Success: false, URL: req.URL, Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{
		Success: true,
		URL:     result.URL,
		Count:   result.Count,
		Emails:  result.Emails,
	})
}

// mapExtractError translates pipeline failures into HTTP status codes and
// user-facing messages.
func mapExtractError(err error) (int, string) {
	var statusErr *extract.StatusError
	switch {
	case errors.Is(err, extract.ErrInvalidURL):
		return http.StatusBadRequest, "invalid URL: must be an absolute http(s) URL"
	case errors.Is(err, extract.ErrTimeout):
		return http.StatusGatewayTimeout, "the page took too long to respond"
	case errors.Is(err, extract.ErrSizeExceeded):
		return http.StatusBadGateway, "the page is too large to process"
	case errors.Is(err, extract.ErrDNS):
		return http.StatusBadGateway, "the host could not be found"
	case errors.Is(err, extract.ErrConnection):
		return http.StatusBadGateway, "could not connect to the host"
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, statusErr.Error()
	default:
		return http.StatusInternalServerError, "extraction failed"
	}
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(clientIP(r)) {
			telemetry.IncRateLimited()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop so limits hold behind a
// reverse proxy, falling back to the connection peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(ip)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
