// Package web provides the HTTP API and HTML fragments for the back office.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/backoffice/internal/app"
	"github.com/JonMunkholm/backoffice/internal/config"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/locale"
	"github.com/JonMunkholm/backoffice/internal/metrics"
	mw "github.com/JonMunkholm/backoffice/internal/web/middleware"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the server routes to.
type Deps struct {
	Orders   *app.OrderService
	Products *app.ProductService
	Rates    *app.RateService
	Metrics  *metrics.Metrics

	// Health is checked by /healthz. Entries may be nil.
	Health map[string]Pinger
}

// Server is the HTTP server for the back office.
type Server struct {
	deps    Deps
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *rateLimiter
}

// NewServer creates a Server. It fails if the API key list is malformed.
func NewServer(deps Deps, cfg *config.Config) (*Server, error) {
	keys, err := cfg.Security.KeyRoles()
	if err != nil {
		return nil, err
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(nil)
	}

	s := &Server{
		deps:   deps,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes(keys)
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger(s.deps.Metrics))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.limiter = newRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.router.Use(s.limiter.middleware)
	}

	s.router.Use(mw.Locale(locale.Parse(s.cfg.Locale.Default)))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(keys map[string]string) {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.deps.Metrics.Handler())

	roles := make(map[string]core.Role, len(keys))
	for k, r := range keys {
		roles[k] = core.ParseRole(r)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(roles, s.cfg.Security.RequireAPIKey))

		// Orders
		r.Get("/orders", s.handleListOrders)
		r.Post("/orders", s.handleCreateOrder)
		r.Post("/orders/validate", s.handleValidateOrder)
		r.Get("/orders/{orderNumber}", s.handleGetOrder)
		r.Get("/orders/{orderNumber}/summary", s.handleOrderSummary)
		r.Get("/orders/{orderNumber}/history", s.handleOrderHistory)
		r.Post("/orders/{orderNumber}/ship", s.handleShipOrder)
		r.Post("/orders/{orderNumber}/complete", s.handleCompleteOrder)
		r.Post("/orders/{orderNumber}/refund", s.handleRefundOrder)

		// Products
		r.Post("/products", s.handleCreateProduct)
		r.Post("/products/validate", s.handleValidateProduct)
		r.Get("/products/{sku}", s.handleGetProduct)
		r.Get("/products/{sku}/variants", s.handleProductVariants)
		r.Post("/products/{sku}/stock", s.handleAdjustStock)
		r.Get("/sku/{sku}", s.handleParseSKU)

		// Exchange rates
		r.Get("/fx/rate", s.handleTodayRate)
		r.Post("/fx/rate", s.handleRecordRate)
		r.Get("/fx/rates", s.handleRecentRates)
		r.Post("/fx/convert", s.handleConvert)

		// Lookups
		r.Get("/carriers", s.handleListCarriers)
		r.Get("/format/phone", s.handleFormatPhone)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, p := range s.deps.Health {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			slog.Warn("health check failed", "component", name, "error", err)
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSONStatus(w, code, map[string]any{"healthy": healthy, "components": status})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if csp {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}
			next.ServeHTTP(w, r)
		})
	}
}
