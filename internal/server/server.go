package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/auth"
	"github.com/crownhub/crowns-be/internal/config"
	"github.com/crownhub/crowns-be/internal/http/handlers"
	"github.com/crownhub/crowns-be/internal/metrics"
	"github.com/crownhub/crowns-be/internal/middleware"
	"github.com/crownhub/crowns-be/internal/objectstore"
	"github.com/crownhub/crowns-be/internal/service"
	"github.com/crownhub/crowns-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up services, middleware, and routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, blobs *objectstore.Local, log logrus.FieldLogger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Routes(cfg, store, blobs, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Routes builds the full HTTP handler tree.
func Routes(cfg config.Config, store storage.Store, blobs *objectstore.Local, log logrus.FieldLogger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	accounts := service.NewAccountService(store, tokens, log)
	admission := service.NewAdmissionController(store, cfg.Policy, cfg.AdmissionStrict, log)
	ledger := service.NewLedgerService(store, cfg.Policy, log)
	payments := service.NewPaymentService(store, ledger, cfg.PaymentLinks, cfg.PaymentWebhookSecret, log)
	content := service.NewContentService(store, store, blobs, log)
	browse := service.NewBrowseService(store, store)
	export := service.NewExportService(store)

	authHandler := handlers.NewAuthHandler(accounts, admission, log)
	ledgerHandler := handlers.NewLedgerHandler(ledger, payments, log)
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthRateBurst)

	r := chi.NewRouter()
	r.Use(middleware.Logging(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Authenticate(tokens))

	handlers.NewHealthHandler(time.Now(), store, log).Register(r)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Mount(cfg.MediaBaseURL, http.StripPrefix(cfg.MediaBaseURL, blobs.Handler()))

	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler)
		authHandler.Register(r)
		ledgerHandler.RegisterWebhooks(r)
	})

	handlers.NewCreatorsHandler(browse, log).Register(r)
	ledgerHandler.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		authHandler.RegisterAuthenticated(r)
		ledgerHandler.RegisterAuthenticated(r)
		handlers.NewContentHandler(content, cfg.MaxUploadBytes, log).Register(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminKey(cfg.AdminAPIKey))
		handlers.NewAdminHandler(admission, export, log).Register(r)
	})

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
