package http

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"datapulse.api/internal/core/domain"
	"datapulse.api/internal/core/logger"
	"datapulse.api/internal/core/ports"
	"datapulse.api/internal/core/services"
)

type Server struct {
	router    *chi.Mux
	catalog   *services.Catalog
	scrapers  *services.ScraperService
	limiter   ports.RateLimiter
	healthSvc *services.HealthService
	hub       *Hub
	metrics   bool
	proxied   bool
}

type ServerOption func(*Server)

// WithoutMetrics leaves out the metrics middleware and the /metrics route.
func WithoutMetrics() ServerOption {
	return func(s *Server) { s.metrics = false }
}

// WithTrustedProxyHeaders takes the client address from X-Forwarded-For or
// X-Real-IP. Only use it behind a proxy that overwrites those headers, since
// the rate limiter keys on that address.
func WithTrustedProxyHeaders() ServerOption {
	return func(s *Server) { s.proxied = true }
}

func NewServer(catalog *services.Catalog, scrapers *services.ScraperService, limiter ports.RateLimiter, healthSvc *services.HealthService, hub *Hub, opts ...ServerOption) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		catalog:   catalog,
		scrapers:  scrapers,
		limiter:   limiter,
		healthSvc: healthSvc,
		hub:       hub,
		metrics:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	if s.proxied {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	if s.metrics {
		s.router.Use(MetricsMiddleware)
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Demo-Mode"},
		MaxAge:         300,
	}))
	s.router.Use(demoMode)

	if s.metrics {
		s.router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			MetricsHandler().ServeHTTP(w, r)
		})
	}

	// Liveness and readiness
	s.router.Get("/health/live", s.handleLiveness)
	s.router.Get("/health/ready", s.handleReadiness)
	s.router.Get("/api/health/detailed", s.handleDetailedHealth)
	s.router.Get("/api/ws", s.handleWS)

	s.router.With(s.rateLimit("dashboard")).Get("/api/dashboard/stats", s.handleDashboardStats)

	s.router.Route("/api/scrapers", func(r chi.Router) {
		r.With(s.rateLimit("scrapers/status")).Get("/status", s.handleScraperStatus)
		r.With(s.rateLimit("scrapers/start")).Get("/{id}/start", s.handleStartScraper)
		r.With(s.rateLimit("scrapers/start")).Post("/{id}/start", s.handleStartScraper)
		r.With(s.rateLimit("scrapers/runs")).Get("/{id}/runs", s.handleScraperRuns)
	})

	s.router.Route("/api/ecommerce", func(r chi.Router) {
		r.With(s.rateLimit("ecommerce/products")).Get("/products", s.handleProducts)
		r.With(s.rateLimit("ecommerce/prices")).Get("/prices/{product_id}", s.handlePriceHistory)
	})

	s.router.Route("/api/social", func(r chi.Router) {
		r.With(s.rateLimit("social/trends")).Get("/trends", s.handleTrends)
		r.With(s.rateLimit("social/sentiment")).Get("/sentiment/{topic}", s.handleSentiment)
	})

	s.router.With(s.rateLimit("news")).Get("/api/news/feed", s.handleNewsFeed)
	s.router.With(s.rateLimit("crypto")).Get("/api/crypto/prices", s.handleCryptoPrices)
	s.router.With(s.rateLimit("weather")).Get("/api/weather/{city}", s.handleWeather)
}

// Handler returns the root handler with every route mounted.
func (s *Server) Handler() http.Handler {
	return s.router
}

func demoMode(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Demo-Mode", "true")
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects requests over the per-IP windows of endpoint with 429.
// Limiter failures let the request through.
func (s *Server) rateLimit(endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			ip := clientIP(r)
			allowed, err := s.limiter.Allow(r.Context(), ip, endpoint)
			if err != nil {
				logger.WarnContext(r.Context(), "Rate limiter unavailable", "endpoint", endpoint, "error", err)
				allowed = true
			}
			if !allowed {
				rateLimitedTotal.WithLabelValues(endpoint).Inc()
				logger.InfoContext(r.Context(), "Rate limit exceeded", "ip", ip, "endpoint", endpoint)
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the peer address of the connection, or the forwarded address
// when proxy headers are trusted.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	status, code := s.healthSvc.Readiness(r.Context())
	w.WriteHeader(code)
	w.Write([]byte(status))
}

func (s *Server) handleDetailedHealth(w http.ResponseWriter, r *http.Request) {
	report := s.healthSvc.CheckHealth(r.Context())

	statusCode := http.StatusOK
	if report.Status == services.HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, report)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ServeWs(s.hub, w, r)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.DashboardStats())
}

func (s *Server) handleScraperStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.ScraperStatuses())
}

// handleStartScraper runs a scraper and streams every progress step as a
// server-sent event whose id is the step number.
func (s *Server) handleStartScraper(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.ErrorContext(r.Context(), "Streaming unsupported", "error", err)
		return
	}

	_, err := s.scrapers.Run(r.Context(), id, func(p domain.ScraperProgress) error {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "id: %d\ndata: %s\n\n", p.Step, data); err != nil {
			return err
		}
		return rc.Flush()
	})
	if err != nil {
		logger.DebugContext(r.Context(), "Progress stream ended early", "scraper_id", id, "error", err)
	}
}

func (s *Server) handleScraperRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}

	runs, err := s.scrapers.Runs(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list scraper runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Products())
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.PriceHistory(chi.URLParam(r, "product_id")))
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Trends())
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Sentiment(chi.URLParam(r, "topic")))
}

func (s *Server) handleNewsFeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.NewsFeed())
}

func (s *Server) handleCryptoPrices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.CryptoPrices())
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Weather(chi.URLParam(r, "city")))
}
