package main

import (
	"context"
	"time"

	"mediapost/config"
	"mediapost/internal/events"
	"mediapost/internal/handler"
	"mediapost/internal/metrics"
	"mediapost/internal/middleware"
	mpredis "mediapost/internal/redis"
	"mediapost/internal/repository"
	"mediapost/internal/server"
	"mediapost/internal/services"
	"mediapost/internal/storage"
	"mediapost/internal/subscribers"
	"mediapost/internal/websocket"
	"mediapost/pkg/database"
	"mediapost/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const metricsNamespace = "mediapost"

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppEnv, cfg.LogLevel)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	if err := run(cfg, l); err != nil {
		l.Logger.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, l *logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	l.Infof("Connected to postgres at %s:%s", cfg.DBHost, cfg.DBPort)

	if cfg.AutoMigrate {
		if err := database.MigrateUp(db); err != nil {
			return err
		}
	}

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = mpredis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	blobs, err := storage.Open(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	if closer, ok := blobs.(interface{ Close(context.Context) error }); ok {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = closer.Close(closeCtx)
		}()
	}
	l.Infof("Blob store ready (backend=%s)", cfg.BlobBackend)

	prom := metrics.NewProm(metricsNamespace, nil)

	hub := websocket.NewHub(l)
	go hub.Run(ctx)

	bus := events.NewBus(l, cfg.EventMaxSubscribers)
	sinks := subscribers.Options{Logger: l, Metrics: prom, Feed: hub}
	if redisClient != nil {
		sinks.Redis = subscribers.NewRedisForwarder(mpredis.NewPublisher(redisClient), cfg.RedisEventsChannel)
	}
	if cfg.NATSURL != "" {
		nc, err := subscribers.ConnectNATS(cfg.NATSURL, l)
		if err != nil {
			return err
		}
		defer nc.Drain()
		sinks.NATS = subscribers.NewNATSForwarder(nc, cfg.NATSSubjectPrefix)
	}
	subscribers.Register(bus, sinks)

	postService := services.NewPostService(repository.NewPostRepository(db), blobs, bus, prom, l, cfg.ListConcurrency)
	authService := services.NewAuthService(repository.NewUserRepository(db), cfg, l)

	deps := server.RouteDeps{
		Verifier:       authService,
		Metrics:        prom,
		MetricsHandler: prom.Handler(),
	}
	if redisClient != nil {
		limiter := mpredis.NewRateLimiter(redisClient, rateLimitConfig(cfg))
		deps.AuthLimit = middleware.LimitFunc(limiter.AllowAuth)
		deps.UploadLimit = middleware.LimitFunc(limiter.AllowUpload)
	} else {
		l.Warn(ctx, "REDIS_URL not set, rate limiting and Redis event forwarding are disabled")
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(server.Handlers{
		Posts:  handler.NewPostHandler(postService, cfg.MaxUploadBytes, l),
		Auth:   handler.NewAuthHandler(authService, l),
		Health: handler.NewHealthHandler(postgresCheck(db), blobs.Ping, cfg.AppVersion, cfg.AppEnv),
		Feed:   websocket.NewHandler(hub, cfg.CORSAllowedOrigins, l),
	}, deps)

	return srv.Start()
}

func postgresCheck(db *gorm.DB) handler.CheckFunc {
	return func(ctx context.Context) error {
		return database.HealthCheck(ctx, db)
	}
}

func rateLimitConfig(cfg *config.Config) mpredis.RateLimitConfig {
	rl := mpredis.DefaultRateLimitConfig()
	if cfg.RateLimitAuth > 0 {
		rl.AuthLimit = cfg.RateLimitAuth
	}
	if cfg.RateLimitUpload > 0 {
		rl.UploadLimit = cfg.RateLimitUpload
	}
	return rl
}
