package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"Volunteer_Hub/internal/config"
	"Volunteer_Hub/internal/pkg"
	"Volunteer_Hub/internal/repository"
	"Volunteer_Hub/internal/repository/mongo"
	"Volunteer_Hub/internal/repository/mysql"
	"Volunteer_Hub/internal/repository/redis"
	"Volunteer_Hub/internal/router"
	"Volunteer_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	var closers []func(context.Context) error

	// 存储
	var posts repository.PostRepository
	var requests repository.RequestRepository
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := mysql.InitDB(ctx, cfg.MySQLDSN)
		if err != nil {
			slog.Error("mysql init failed", "error", err)
			os.Exit(1)
		}
		// 自动建表（开发阶段 OK）
		if err := mysql.Migrate(db); err != nil {
			slog.Error("mysql migrate failed", "error", err)
			os.Exit(1)
		}
		posts = &mysql.PostRepository{DB: db}
		requests = &mysql.RequestRepository{DB: db}
		closers = append(closers, func(context.Context) error { return mysql.Close(db) })
	default:
		store, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			slog.Error("mongo init failed", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			slog.Error("mongo index creation failed", "error", err)
			os.Exit(1)
		}
		posts = store.Posts()
		requests = store.Requests()
		closers = append(closers, store.Close)
	}
	slog.Info("store connected", "driver", cfg.StoreDriver)

	// 缓存
	var cache service.PostCache
	if cfg.CacheEnabled() {
		client, err := redis.Init(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Error("redis init failed", "error", err)
			os.Exit(1)
		}
		cache = redis.NewPostCache(client, cfg.CacheTTL)
		closers = append(closers, func(context.Context) error { return client.Close() })
		slog.Info("post cache enabled", "addr", cfg.RedisAddr)
	}

	reqOpts := []service.RequestOption{
		service.WithDedupScope(cfg.DedupScope),
		service.WithRequestCache(cache),
	}
	if cfg.KafkaEnabled() {
		producer := pkg.NewKafkaProducer(cfg.Kafka)
		reqOpts = append(reqOpts, service.WithPublisher(producer))
		closers = append(closers, func(context.Context) error { return producer.Close() })
		slog.Info("request events enabled", "topic", cfg.Kafka.Topic)
	}
	if cfg.SMTP.Enabled() {
		reqOpts = append(reqOpts, service.WithNotifier(pkg.NewMailer(cfg.SMTP)))
	}

	requestSvc := service.NewRequestService(requests, posts, reqOpts...)
	r := router.InitRouter(router.Options{
		Posts:       service.NewPostService(posts, cache),
		Requests:    requestSvc,
		TokenSecret: cfg.TokenSecret,
		TokenTTL:    cfg.TokenTTL,
		Production:  cfg.Production,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("the volunteer management application running", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	// 等待在途的事件发布和通知邮件
	if err := requestSvc.Wait(shutdownCtx); err != nil {
		slog.Warn("background tasks not finished", "error", err)
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](shutdownCtx); err != nil {
			slog.Warn("resource close failed", "error", err)
		}
	}
	slog.Info("server closed")
}
