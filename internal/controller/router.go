package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pkoster/checkout-gateway/internal/config"
	"github.com/pkoster/checkout-gateway/internal/middleware"
	"github.com/pkoster/checkout-gateway/internal/observability"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Checkout     *CheckoutController
	PostProcess  *PostProcessController
	Notification *NotificationController
	Health       *HealthController
	ReplayGuard  middleware.ReplayGuard
	Metrics      *observability.Metrics
	Registry     *prometheus.Registry
	Config       *config.Config
	Logger       zerolog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if deps.Config.Observability.EnableTracing {
		r.Use(middleware.Tracing())
	}
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders())
	if deps.Config.Observability.EnableMetrics {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: deps.Config.Server.CORS.AllowCredentials,
		MaxAge:           300,
	}))

	r.Get("/health", deps.Health.Liveness)
	r.Get("/health/live", deps.Health.Liveness)
	r.Get("/health/ready", deps.Health.Readiness)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	// Buyer-facing checkout, throttled per IP.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.Config.Server.CheckoutRateRPM))
		r.Post("/checkout", deps.Checkout.Submit)
	})

	// Backend notification sink with duplicate-delivery suppression.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NotificationReplay(deps.ReplayGuard, deps.Logger))
		r.Post("/notifications", deps.Notification.Receive)
	})

	// Merchant post-processing API.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Config.Auth.JWTSecret))
		r.Post("/transactions/{id}/capture", deps.PostProcess.Capture)
		r.Post("/transactions/{id}/cancel", deps.PostProcess.Cancel)
		r.Post("/transactions/{id}/refund", deps.PostProcess.Refund)
	})

	return r
}
