package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	applog "lottotrack/internal/log"
	"lottotrack/internal/services"
)

const (
	writeRateLimit  = 60
	writeRateWindow = time.Minute
	readyTimeout    = 2 * time.Second
)

type Server struct {
	http.Server
	tickets     *services.TicketService
	stats       *services.StatisticsService
	logger      *applog.Logger
	rateLimiter *rateLimiter
	metrics     securityMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, tickets *services.TicketService, st *services.StatisticsService, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		tickets:     tickets,
		stats:       st,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: newRateLimiter(writeRateLimit, writeRateWindow),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/tickets", s.handleListTickets)
	mux.HandleFunc("POST /api/tickets", s.handleCreateTicket)
	mux.HandleFunc("GET /api/tickets/{id}", s.handleGetTicket)
	mux.HandleFunc("PUT /api/tickets/{id}", s.handleUpdateTicket)
	mux.HandleFunc("DELETE /api/tickets/{id}", s.handleDeleteTicket)
	mux.HandleFunc("POST /api/tickets/{id}/status", s.handleSetStatus)
	mux.HandleFunc("GET /api/tickets/serial/{serial}", s.handleFindBySerial)

	mux.HandleFunc("GET /api/stats", s.handleOverall)
	mux.HandleFunc("GET /api/stats/type/{type}", s.handleStatsByType)
	mux.HandleFunc("GET /api/stats/games", s.handleStatsByGame)
	mux.HandleFunc("GET /api/stats/monthly", s.handleMonthly)
	mux.HandleFunc("GET /api/stats/period", s.handlePeriod)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	s.Handler = applog.RequestMiddleware(logger, extractClientIP)(s.withSecurity(mux))
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		s.logger.Info("HTTP server shutting down",
			"rate_limit_hits", atomic.LoadInt64(&s.metrics.rateLimitHits),
			"suspicious_requests", atomic.LoadInt64(&s.metrics.suspiciousRequests))
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	NewResponse().JSON(map[string]string{"status": "ok"}).Write(w)
}

// handleReady reports ready once the ticket store answers a query.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if _, err := s.stats.Overall(ctx); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
		return
	}
	NewResponse().JSON(map[string]string{"status": "ready"}).Write(w)
}
