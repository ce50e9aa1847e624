package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/joaovitorrios/gerenciador-gastos/internal/auth"
	"github.com/joaovitorrios/gerenciador-gastos/internal/config"
	"github.com/joaovitorrios/gerenciador-gastos/internal/middleware/ratelimit"
	"github.com/joaovitorrios/gerenciador-gastos/internal/middleware/security"
	"github.com/joaovitorrios/gerenciador-gastos/internal/middleware/trace"
	"github.com/joaovitorrios/gerenciador-gastos/internal/services"
)

type Server struct {
	http.Server

	users        *services.UserService
	transactions *services.TransactionService
	auth         *auth.Service

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once

	ready func(context.Context) error
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// The ready func backs /readyz, nil means always ready.
func NewServer(cfg *config.Config, users *services.UserService, transactions *services.TransactionService, authService *auth.Service, ready func(context.Context) error) *Server {
	mux := http.NewServeMux()

	detector := security.NewDetector()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(detector.ExtractClientIP)
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimitPerMinute,
	})

	s := &Server{
		users:        users,
		transactions: transactions,
		auth:         authService,
		limiter:      limiter,
		ready:        ready,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Credential endpoints are rate limited per client IP
	limited := limiter.Middleware(detector.ExtractClientIP, nil)
	mux.Handle("POST /api/auth/register", limited(http.HandlerFunc(s.handleRegister)))
	mux.Handle("POST /api/auth/login", limited(http.HandlerFunc(s.handleLogin)))

	protected := func(h http.HandlerFunc) http.Handler {
		return authService.Middleware(h)
	}
	mux.Handle("GET /api/transactions", protected(s.handleListTransactions))
	mux.Handle("POST /api/transactions", protected(s.handleCreateTransaction))
	mux.Handle("GET /api/transactions/{id}", protected(s.handleGetTransaction))
	mux.Handle("PUT /api/transactions/{id}", protected(s.handleUpdateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", protected(s.handleDeleteTransaction))
	mux.Handle("GET /api/dashboard", protected(s.handleDashboard))

	s.Server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: headers.Middleware(tracer.Middleware(mux)),
	}

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
