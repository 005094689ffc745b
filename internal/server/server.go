package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediapost/config"
	"mediapost/internal/handler"
	"mediapost/internal/metrics"
	"mediapost/internal/middleware"
	"mediapost/internal/websocket"
	"mediapost/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Posts  *handler.PostHandler
	Auth   *handler.AuthHandler
	Health *handler.HealthHandler
	Feed   *websocket.Handler
}

// RouteDeps carries the cross-cutting pieces routes are wrapped with.
// AuthLimit and UploadLimit may be nil when Redis is not configured.
type RouteDeps struct {
	Verifier       middleware.TokenVerifier
	AuthLimit      middleware.LimitFunc
	UploadLimit    middleware.LimitFunc
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	if l == nil {
		l = logger.Nop()
	}

	engine := gin.New()
	engine.MaxMultipartMemory = cfg.MaxUploadBytes
	// forwarding headers are honoured only from these peers; none by default
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		l.Warn(context.Background(), "Invalid TRUSTED_PROXIES, trusting no proxies", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(middleware.Recovery(l, cfg.IsProduction()))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Handler exposes the engine, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) SetupRoutes(h Handlers, deps RouteDeps) {
	m := deps.Metrics
	if m == nil {
		m = metrics.Noop{}
	}

	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.SecurityHeaders())
	s.engine.Use(middleware.CORSMiddleware(s.config.CORSAllowedOrigins))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.MetricsMiddleware(m))
	s.engine.Use(middleware.ErrorHandler(s.logger, s.config.IsProduction()))

	s.engine.GET("/health", h.Health.Health)
	s.engine.GET("/api/status", h.Health.Status)
	if deps.MetricsHandler != nil {
		s.engine.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	auth := s.engine.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimitMiddleware(deps.AuthLimit), h.Auth.Register)
		auth.POST("/login", middleware.RateLimitMiddleware(deps.AuthLimit), h.Auth.Login)
		auth.GET("/me", middleware.AuthMiddleware(deps.Verifier), h.Auth.Me)
	}

	posts := s.engine.Group("/posts")
	{
		posts.POST("/upload", middleware.RateLimitMiddleware(deps.UploadLimit), h.Posts.Upload)
		posts.GET("/", h.Posts.List)
		posts.DELETE("/:id", h.Posts.Delete)
		if h.Feed != nil {
			posts.GET("/events", h.Feed.Connect)
		}
	}

	s.engine.GET("/files/:id", h.Posts.File)

	s.engine.NoRoute(middleware.NotFoundHandler())
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done and then drains in-flight requests for up to five seconds.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.logger.Errorf("Error in starting the server: %s", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		return err
	}

	s.logger.Infof("Server stopped gracefully")
	return nil
}
