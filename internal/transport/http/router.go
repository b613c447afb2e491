package http

import (
	"net/http"

	"github.com/dat-archive/internal/config"
	"github.com/dat-archive/internal/metrics"
	"github.com/dat-archive/internal/transport/http/handler"
	appmiddleware "github.com/dat-archive/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// NewRouter builds the application router. Every route except
// PublicPrefixes sits behind the session gate.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	recorder := deps.Recorder
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if deps.Logger != nil {
		r.Use(appmiddleware.Logging(deps.Logger, recorder))
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(appmiddleware.Gate(deps.Sessions, recorder, PublicPrefixes...))

	// 5 requests/second, burst of 10 per client IP.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	pageH := handler.NewPageHandler()
	authH := handler.NewAuthHandler(deps.Auth, deps.Sessions, handler.CookieOptions{
		AllowedDomain: cfg.AllowedDomain,
		Secure:        cfg.IsProduction(),
		MaxAge:        cfg.SessionTTL,
	})
	fileH := handler.NewFileHandler(deps.Files)
	statsH := handler.NewStatsHandler(deps.Stats)
	cronH := handler.NewCronHandler(deps.Summaries)

	r.Get("/login", pageH.Login)
	r.Get("/", pageH.Index)

	r.Route("/api", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/auth/send-code", authH.SendCode)
		r.With(sensitiveRL.Limit).Post("/auth/verify-code", authH.VerifyCode)
		r.Post("/auth/logout", authH.Logout)
		r.Get("/auth/me", authH.Me)

		r.Post("/upload", fileH.Upload)
		r.Get("/files", fileH.List)
		r.Get("/files/{id}/download", fileH.Download)
		r.Get("/stats", statsH.Get)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireBearer(cfg.CronSecret))
			r.Get("/cron/summaries", cronH.Summaries)
			r.Post("/cron/summaries", cronH.Summaries)
		})
	})

	return r
}

// NewOpsRouter serves metrics and liveness probes. It is mounted on a
// separate listener and is not gated.
func NewOpsRouter(gatherer prometheus.Gatherer) http.Handler {
	healthH := handler.NewHealthHandler()

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	r.Get("/health-check/{action}", healthH.Ping)
	return r
}
