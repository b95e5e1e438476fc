package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewd/internal/cache"
	"interviewd/internal/config"
	"interviewd/internal/question"
	"interviewd/internal/repository"
	"interviewd/internal/service"
	"interviewd/internal/transport/rest"
	"interviewd/internal/transport/ws"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := config.Load()

	aiCfg := config.DefaultAIConfig()
	logger.Info("ai providers",
		"openai", aiCfg.IsEnabled(config.ProviderOpenAI),
		"perplexity", aiCfg.IsEnabled(config.ProviderPerplexity))

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Error("mongo ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to mongodb", "db", cfg.MongoDB)

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Error("redis ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to redis", "addr", cfg.RedisAddr)

	// Repositories
	sessionRepo := repository.NewSessionRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	recordingRepo := repository.NewRecordingRepo(db)

	// Caches
	poolCache := cache.NewPoolCache(rdb)
	sessionCache := cache.NewSessionCache(rdb)
	credentials := cache.NewCredentialStore(rdb)

	// Question pipeline: stored banks fronted by the redis pool cache.
	source := question.NewCachedSource(question.NewBankSource(questionRepo), poolCache)
	selector := question.NewSelector(source, rand.New(rand.NewSource(time.Now().UnixNano())))

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	sessionSvc := service.NewSessionService(selector, aiCfg, credentials, sessionRepo, sessionCache, logger)
	recordingSvc := service.NewRecordingService(recordingRepo, logger)

	// WebSocket hub (implements service.Broadcaster)
	wsHub := ws.NewHub()
	sessionSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		SessionService:   sessionSvc,
		RecordingService: recordingSvc,
		QuestionSource:   source,
		Credentials:      credentials,
		WSHub:            wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
