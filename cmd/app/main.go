package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"learnhub/config"
	"learnhub/internal/access"
	"learnhub/internal/apperr"
	"learnhub/internal/catalog"
	"learnhub/internal/client"
	"learnhub/internal/i18n"
	"learnhub/internal/middleware"
	"learnhub/internal/progress"
	"learnhub/internal/scheduler"
	"learnhub/internal/session"
	grpc_server "learnhub/internal/transport/grpc"
	handlers "learnhub/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// 1. Конфиг
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.APIBaseURL == "" {
		log.Fatalf("API_BASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Redis (опционально: кэш и лимитер входа)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis at", cfg.RedisAddr)
	}

	store, err := openStore(cfg, rdb)
	if err != nil {
		log.Fatalf("Failed to open course cache: %v", err)
	}
	log.Printf("Course cache backend: %s", cfg.CacheBackend)

	// 3. Клиент платформы и состояние агента
	platform := client.NewPlatformClient(cfg.APIBaseURL, cfg.RequestTimeout)
	sessions := session.NewManager(platform)
	reader := catalog.NewReader(platform, store, sessions)
	aggregator := progress.NewAggregator(platform, sessions)
	authorizer := access.NewAuthorizer(aggregator, reader)
	translator := i18n.NewTranslator(cfg.Locale)

	health := grpc_server.NewServer()

	authHandler := handlers.NewAuthHandler(sessions, aggregator, translator)
	courseHandler := handlers.NewCourseHandler(reader, sessions, aggregator, authorizer, translator)
	progressHandler := handlers.NewProgressHandler(aggregator, translator)

	// данные прошлой сессии не переживают выход или смену пользователя
	sessions.OnInvalidate(func() {
		aggregator.Purge()
		courseHandler.CloseViews()
		reader.Purge(context.Background())
		_, active := sessions.Current()
		health.SetSessionActive(active)
	})

	// 4. Фоновое обновление
	sched := scheduler.New(cfg.RequestTimeout)
	err = sched.Add(cfg.RefreshSchedule,
		scheduler.Job{Name: "catalog", Run: func(ctx context.Context) error {
			err := reader.Refresh(ctx)
			health.SetPlatformReachable(apperr.KindOf(err) != apperr.KindNetwork)
			return err
		}},
		scheduler.Job{Name: "dashboard", Run: func(ctx context.Context) error {
			_, ok := sessions.Current()
			health.SetSessionActive(ok)
			if !ok {
				return nil
			}
			_, err := aggregator.GetEnrollments(ctx)
			return err
		}},
	)
	if err != nil {
		log.Fatalf("Invalid REFRESH_SCHEDULE %q: %v", cfg.RefreshSchedule, err)
	}
	sched.Start()

	// 5. gRPC health
	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		log.Fatalf("Listen failed: %v", err)
	}
	go func() {
		if err := health.Serve(lis); err != nil {
			log.Printf("gRPC server stopped: %v", err)
		}
	}()

	// 6. HTTP
	router := handlers.NewRouter(authHandler, courseHandler, progressHandler, sessions, middleware.NewRateLimiter(rdb), cfg.Origins())
	srv := &http.Server{Addr: cfg.HTTPPort, Handler: router}
	go func() {
		log.Printf("Learner agent running on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	sched.Stop(shutdownCtx)
	health.GracefulStop()
	sessions.SignOut(shutdownCtx)
	if rdb != nil {
		_ = rdb.Close()
	}
}

func openStore(cfg config.Config, rdb *redis.Client) (catalog.Store, error) {
	switch cfg.CacheBackend {
	case "", "memory":
		return catalog.NewMemoryStore(), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("CACHE_BACKEND=redis needs REDIS_ADDR")
		}
		return catalog.NewRedisStore(rdb, cfg.CacheTTL), nil
	case "postgres", "sqlite":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("CACHE_BACKEND=%s needs DB_DSN", cfg.CacheBackend)
		}
		dialector := sqlite.Open(cfg.DBDSN)
		if cfg.CacheBackend == "postgres" {
			dialector = postgres.Open(cfg.DBDSN)
		}
		db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err != nil {
			return nil, err
		}
		store := catalog.NewGormStore(db)
		// Миграции
		if err := store.Migrate(); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}
}
