package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/gravity-wh/prompt-flow/internal/auth"
	"github.com/gravity-wh/prompt-flow/internal/config"
	"github.com/gravity-wh/prompt-flow/internal/ideas"
	"github.com/gravity-wh/prompt-flow/internal/logging"
	"github.com/gravity-wh/prompt-flow/internal/middleware"
	"github.com/gravity-wh/prompt-flow/internal/prompts"
	"github.com/gravity-wh/prompt-flow/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := store.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		logger.Fatal("postgres migrate", zap.Error(err))
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)
	ideaStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
	if err := ideaStore.EnsureIndexes(ctx); err != nil {
		logger.Fatal("mongo indexes", zap.Error(err))
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb, cfg.SessionTTL)
	feedCache := store.NewFeedCache(rdb, cfg.FeedCacheTTL)

	// ── MinIO ────────────────────────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, cfg.MinioPublicURL,
	)
	if err != nil {
		logger.Fatal("minio connect", zap.Error(err))
	}

	// ── Handlers ─────────────────────────────────────────────
	promptSvc := prompts.NewService(minioStore, pgStore, pgStore, feedCache, logger)
	promptHandler := prompts.NewHandler(promptSvc, feedCache, cfg.MaxUploadBytes, logger)
	authHandler := auth.NewHandler(pgStore, sessions, logger)
	ideaHandler := ideas.NewHandler(ideaStore, logger)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Cache"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(sessions)).Get("/me", authHandler.Me)
	})

	// The feed is public; a session only unlocks liked and own prompt text.
	r.With(middleware.OptionalAuth(sessions)).Get("/api/feed", promptHandler.Feed)

	r.Route("/api/prompts", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Post("/", promptHandler.Create)
		r.Post("/{id}/like", promptHandler.Like)
	})

	// Idea catalog
	r.Get("/api/categories", ideaHandler.Categories)
	r.Route("/api/ideas", func(r chi.Router) {
		r.Get("/", ideaHandler.List)
		r.Get("/{id}", ideaHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessions))
			r.Post("/", ideaHandler.Create)
			r.Put("/{id}", ideaHandler.Update)
			r.Delete("/{id}", ideaHandler.Delete)
		})
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
