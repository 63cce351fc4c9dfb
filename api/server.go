// Package api assembles the HTTP server: global middleware, the resource
// routes, the operational endpoints and the catch-all.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Aidin1998/usertodos/api/handlers"
	"github.com/Aidin1998/usertodos/api/responses"
	"github.com/Aidin1998/usertodos/common/apiutil"
	"github.com/Aidin1998/usertodos/internal/config"
	"github.com/Aidin1998/usertodos/internal/database"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Server represents the API server
type Server struct {
	router *gin.Engine
	logger *zap.Logger
	db     database.Gateway
}

// NewServer creates a new API server over the given gateway
func NewServer(logger *zap.Logger, db database.Gateway, cfg *config.Config) *Server {
	server := &Server{
		logger: logger,
		db:     db,
	}

	router := gin.New()
	// /users/ is served as /users rather than redirected.
	router.RedirectTrailingSlash = false

	router.Use(apiutil.TraceID())
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", apiutil.TraceIDHeader},
		ExposeHeaders: []string{"Content-Length", apiutil.TraceIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(apiutil.MetricsMiddleware())

	server.router = router
	server.registerRoutes(handlers.NewHandler(db, logger, cfg.API))
	return server
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Handler returns the engine behind a path normalizer that drops one
// trailing slash, so /users/ and /users reach the same route.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			r.URL.Path = strings.TrimSuffix(p, "/")
			r.URL.RawPath = strings.TrimSuffix(r.URL.RawPath, "/")
		}
		s.router.ServeHTTP(w, r)
	})
}

func (s *Server) registerRoutes(h *handlers.Handler) {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/health", s.healthCheck)

	resources := s.router.Group("/", apiutil.RequestLogger(s.logger))
	h.RegisterRoutes(resources)

	s.router.NoRoute(apiutil.RequestLogger(s.logger), responses.RouteNotFound)
}

func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"time":   time.Now().UTC(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// Run serves on addr until ctx is canceled, then drains in-flight requests
// for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting API server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down API server", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("API server stopped")
	return nil
}
