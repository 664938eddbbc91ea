package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/config"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Resource is an entity handler mounted under its base path.
type Resource interface {
	BasePath() string
	Routes(r chi.Router)
}

// Handlers groups everything the router serves.
type Handlers struct {
	Resources []Resource
	Auth      *handler.AuthHandler
	// Protected guards routes that need an authenticated caller.
	Protected func(http.Handler) http.Handler
	// Health reports backing store readiness.
	Health func(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	router        *chi.Mux
	config        *config.ServerConfig
	handlers      Handlers
	meterProvider metric.MeterProvider
	logger        *slog.Logger
	httpServer    *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handlers Handlers,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		config:        cfg,
		handlers:      handlers,
		meterProvider: meterProvider,
		logger:        logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: s.instrument(s.router),
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.meterProvider.Meter("stock-manager-api")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

func (s *Server) setupRoutes() {
	for _, res := range s.handlers.Resources {
		s.router.Route(res.BasePath(), res.Routes)
	}

	if s.handlers.Auth != nil {
		protected := s.handlers.Protected
		if protected == nil {
			protected = func(next http.Handler) http.Handler { return next }
		}
		s.router.Route("/api/auth", func(r chi.Router) {
			s.handlers.Auth.Routes(r, protected)
		})
	}

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if s.handlers.Health != nil {
			if err := s.handlers.Health(r.Context()); err != nil {
				s.logger.ErrorContext(r.Context(), "Health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("UNAVAILABLE"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus exposition of the OTel metrics
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// instrument wraps the router with otelhttp for request traces and the
// standard http.server.* metrics.
func (s *Server) instrument(h http.Handler) http.Handler {
	return otelhttp.NewHandler(h, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMeterProvider(s.meterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Handler returns the fully instrumented handler.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", slog.String("address", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
