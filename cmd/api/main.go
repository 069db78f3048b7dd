package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"board-sync-api/internal/auth"
	"board-sync-api/internal/client"
	"board-sync-api/internal/config"
	"board-sync-api/internal/database"
	"board-sync-api/internal/job"
	"board-sync-api/internal/metrics"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"
	"board-sync-api/internal/router"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Board Sync API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Initialize database
	db, err := database.New(database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if err := database.AutoMigrateWithRetry(db, logger, 5); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Initialize metrics
	m := metrics.New(logger)
	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	statsDone := database.StartDBStatsCollector(db, m, 15*time.Second)
	logger.Info("Metrics initialized")

	// Redis relay lets several replicas serve the same board
	var redisClient *redis.Client
	hubOpts := []realtime.Option{realtime.WithMetrics(m)}
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedis(cfg.Redis)
		if err != nil {
			logger.Warn("Failed to connect to Redis, realtime fan-out is local only", zap.Error(err))
		} else {
			hubOpts = append(hubOpts, realtime.WithRelay(realtime.NewRedisRelay(redisClient, logger)))
			logger.Info("Redis relay enabled")
		}
	}
	hub := realtime.NewHub(logger, hubOpts...)

	// Initialize S3 client
	var storage client.S3ClientInterface
	if cfg.S3.Enabled() {
		s3Client, err := client.NewS3Client(context.Background(), &cfg.S3, m)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, attachment features disabled", zap.Error(err))
		} else {
			storage = s3Client
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, attachment features disabled")
	}

	// Background jobs
	scheduler := job.NewScheduler(logger)
	if err := scheduler.Add(cfg.Jobs.MetricsSchedule, metrics.NewBusinessMetricsCollector(db, m, logger)); err != nil {
		logger.Warn("Failed to schedule business metrics collection", zap.Error(err))
	}
	if storage != nil {
		cleanup := job.NewCleanupJob(repository.NewAttachmentRepository(db), storage, logger)
		if err := scheduler.Add(cfg.Jobs.CleanupSchedule, cleanup); err != nil {
			logger.Warn("Failed to schedule attachment cleanup", zap.Error(err))
		}
	}
	scheduler.Start()

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:          db,
		Redis:       redisClient,
		Logger:      logger,
		Metrics:     m,
		Gatherer:    prometheus.DefaultGatherer,
		Hub:         hub,
		Tokens:      auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL),
		Storage:     storage,
		BasePath:    cfg.Server.BasePath,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Realtime: realtime.GatewayConfig{
			SendBuffer:     cfg.Realtime.SendBuffer,
			MaxMessageSize: cfg.Realtime.MaxMessageSize,
			PongWait:       cfg.Realtime.PongWait,
			WriteWait:      cfg.Realtime.WriteWait,
		},
	})

	// Create HTTP server. No WriteTimeout: it would cut long-lived websocket connections.
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Board Sync API started successfully", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Close()

	if err := scheduler.Stop(ctx); err != nil {
		logger.Warn("Scheduled jobs did not finish in time", zap.Error(err))
	}
	close(statsDone)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
