package main

import (
	"net/http"

	"github.com/benvon/lemonaid/internal/config"
	"github.com/benvon/lemonaid/internal/database"
	"github.com/benvon/lemonaid/internal/handlers"
	"github.com/benvon/lemonaid/internal/middleware"
	"github.com/benvon/lemonaid/internal/security"
	"github.com/benvon/lemonaid/internal/telemetry"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// dependencies are the optional backends resolved at startup.
type dependencies struct {
	items       database.ItemStore
	db          *database.DB
	rateLimiter *middleware.RateLimiter
	tracing     bool
}

// newRouter registers every route on a gorilla/mux router.
func newRouter(cfg *config.Settings, log *zap.Logger, deps dependencies) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = middleware.NotFound(log)
	r.MethodNotAllowedHandler = middleware.MethodNotAllowed()

	if deps.tracing {
		r.Use(telemetry.RouterMiddleware())
	}

	healthChecker := handlers.NewHealthChecker(log)
	if deps.db != nil {
		healthChecker.AddCheck("database", deps.db.PingContext)
	}

	r.Handle("/", handlers.NewHomeHandler(cfg, log)).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(handlers.StaticHandler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/config.json", handlers.PublicConfigHandler(cfg)).Methods(http.MethodGet)

	apiRouter := r.PathPrefix(cfg.APIPrefix).Subrouter()
	itemsRouter := apiRouter.PathPrefix("/items").Subrouter()
	handlers.NewItemHandler(deps.items, log).RegisterRoutes(itemsRouter)

	return r
}

// newHandler wraps the router in the request pipeline. The first middleware is outermost;
// wrapping the router rather than calling r.Use keeps 404s and unrouted preflights inside it.
func newHandler(cfg *config.Settings, log *zap.Logger, deps dependencies) http.Handler {
	cors := security.NewCORS(cfg)
	corsMW := middleware.CORS(cors)
	if cfg.CORSStrict {
		corsMW = middleware.StrictCORS(cors)
	}

	var rateLimitMW middleware.Middleware
	if deps.rateLimiter != nil {
		rateLimitMW = deps.rateLimiter.Middleware()
	}

	return middleware.Chain(newRouter(cfg, log, deps),
		middleware.RequestID,
		middleware.RealIP(cfg.TrustedProxies),
		middleware.Logging(log),
		middleware.Audit(log),
		corsMW,
		middleware.SecurityHeaders(cfg.EnableHSTS),
		rateLimitMW,
		middleware.APIKey(security.NewAPIKeyValidator(cfg, log), cfg.APIPrefix),
		middleware.ContentType(cfg.APIPrefix),
		middleware.MaxRequestSize(cfg.MaxRequestBytes),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.ErrorHandler(log, cfg.IsProduction()),
	)
}
