// Package main runs the mock-interview HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prepvoice/backend/config"
	"github.com/prepvoice/backend/internal/archive"
	"github.com/prepvoice/backend/internal/catalog"
	"github.com/prepvoice/backend/internal/interview"
	"github.com/prepvoice/backend/internal/middleware"
	"github.com/prepvoice/backend/internal/oracle"
	"github.com/prepvoice/backend/internal/report"
	"github.com/prepvoice/backend/internal/session"
	"github.com/prepvoice/backend/internal/speech"
	"github.com/prepvoice/backend/internal/worker"
	"github.com/prepvoice/backend/pkg/database"
	"github.com/prepvoice/backend/pkg/queue"
	"github.com/prepvoice/backend/pkg/redis"
	"github.com/prepvoice/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.OpenAI.APIKey == "" {
		logger.Fatal("OPENAI_API_KEY is required")
	}

	cat := catalog.Default()
	if cfg.Catalog.RolesFile != "" {
		cat, err = catalog.Load(cfg.Catalog.RolesFile)
		if err != nil {
			logger.Fatal("load roles catalog", zap.Error(err))
		}
	}

	ctx := context.Background()
	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute

	// Sessions live in Redis when configured, otherwise in process memory.
	var store session.Store
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb.Client, sessionTTL)
	} else {
		store = session.NewMemoryStore(sessionTTL)
	}
	defer store.Close()

	oracleClient := oracle.NewClient(oracle.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		BaseURL:     cfg.OpenAI.BaseURL,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     time.Duration(cfg.OpenAI.TimeoutSec) * time.Second,
	}, logger)

	speaker := speech.NewExecOutput(cfg.Speech.SpeakCommand, logger)
	listener := speech.NewExecCapture(cfg.Speech.ListenCommand, logger)
	aggregator := report.NewAggregator(oracleClient, logger)

	// Report archive (optional): Postgres for storage, Redis queue + worker
	// for the write path.
	var archiveHandler *archive.Handler
	var archiver interview.ReportArchiver
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.Database.URL != "" && rdb != nil {
		pool, err := database.NewPostgresPool(ctx, cfg.Database.URL, logger)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}

		archiveRepo := archive.NewRepository(pool)
		archiveHandler = archive.NewHandler(archiveRepo, logger)
		jobQueue := queue.NewQueue(rdb.Client, logger)
		archiver = jobQueue
		go worker.NewReportArchiver(archiveRepo, jobQueue, logger).Run(workerCtx)
		logger.Info("report archive enabled")
	}

	svc := interview.NewService(
		store, oracleClient, oracleClient, aggregator,
		speaker, listener, cat, archiver,
		time.Duration(cfg.Speech.MaxSilenceSec)*time.Second,
		logger,
	)
	handler := interview.NewHandler(svc, cat, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	handler.Register(router)
	if archiveHandler != nil {
		router.GET("/api/reports", archiveHandler.List)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Stop any speech still playing before shutting the transport down.
	speaker.Cancel()
	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
