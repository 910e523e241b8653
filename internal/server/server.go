// Package server exposes the listings page, reference data and the lead
// endpoint over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/common/config"
	apperrors "aqarna-listings/internal/common/errors"
	"aqarna-listings/internal/common/logger"
	"aqarna-listings/internal/common/observability"
	"aqarna-listings/internal/geodata"
	"aqarna-listings/internal/i18n"
	"aqarna-listings/internal/lead"
	"aqarna-listings/internal/listings/session"
)

type Dependencies struct {
	Config        *config.Config
	Logger        logger.Logger
	Catalog       *catalog.Catalog
	Geo           *geodata.Index
	Dictionary    *i18n.Dictionary
	Sessions      *session.Manager
	Preferences   *i18n.MemoryPreferences
	Leads         *lead.Handler
	Observability *observability.Observability
	Tracing       *observability.Tracing
	Health        func(ctx context.Context) error
}

// NewRouter wires every route.
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	errHandler := apperrors.NewErrorHandler(deps.Logger)
	if deps.Dictionary == nil {
		deps.Dictionary = i18n.Default()
	}

	listings := &listingsHandler{
		sessions: deps.Sessions,
		errors:   errHandler,
		obs:      deps.Observability,
	}
	reference := &referenceHandler{
		catalog: deps.Catalog,
		geo:     deps.Geo,
		dict:    deps.Dictionary,
		errors:  errHandler,
		health:  deps.Health,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, LoggerMiddleware(deps.Logger), middleware.Recoverer)
	r.Use(MetricsMiddleware, TracingMiddleware(deps.Tracing))

	if len(cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "If-None-Match", "X-Interaction-Mode"},
			ExposedHeaders:   []string{"ETag"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", reference.healthz)
	r.Handle(cfg.Observability.MetricsPath, promhttp.Handler())

	sessionCookie := session.Cookie{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	}
	defaultLang, ok := i18n.Parse(cfg.I18n.DefaultLanguage)
	if !ok {
		defaultLang = i18n.English
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(SessionMiddleware(sessionCookie))
		r.Use(LanguageMiddleware(i18n.NewCookieStore(cfg.I18n.CookieName), deps.Preferences, defaultLang))

		r.Get("/geo/governorates", reference.governorates)
		r.Get("/i18n/{lang}", reference.dictionary)
		r.Post("/language", reference.setLanguage)
		r.Get("/properties/{id}", reference.property)

		r.Route("/listings", func(r chi.Router) {
			r.Post("/load", listings.load)
			r.Get("/", listings.view)
			r.Get("/map", listings.mapView)
			r.Patch("/filters", listings.event("filters", listings.patchFilters))
			r.Post("/transaction-type", listings.event("transactionType", listings.setTransactionType))
			r.Post("/governorates/{id}/toggle", listings.event("toggleGovernorate", listings.toggleGovernorate))
			r.Post("/areas/{id}/toggle", listings.event("toggleArea", listings.toggleArea))
			r.Post("/clear", listings.event("clear", listings.clear))
			r.Post("/select", listings.event("select", listings.selectProperty))
			r.Post("/hover", listings.event("hover", listings.hover))
			r.Post("/view", listings.event("mobileView", listings.setMobileView))
		})

		if deps.Leads != nil {
			r.Method(http.MethodPost, "/list-property", deps.Leads)
		}
	})

	return r
}

// Server is the HTTP listener.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func New(cfg config.ServerConfig, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeoutDuration(),
			WriteTimeout: cfg.WriteTimeoutDuration(),
		},
		logger: log,
	}
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping HTTP server", nil)
	return s.httpServer.Shutdown(ctx)
}
