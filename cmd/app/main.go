package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loyalty_backend/internal/config"
	"loyalty_backend/internal/db"
	httpServer "loyalty_backend/internal/http"
	"loyalty_backend/internal/http/handlers"
	"loyalty_backend/internal/http/middleware"
	"loyalty_backend/internal/logger"
	"loyalty_backend/internal/media"
	"loyalty_backend/internal/push"
	"loyalty_backend/internal/repository"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Fatal("jwt setup failed", "error", err)
	}

	dbPool := db.MustConnect(cfg.DatabaseURL, cfg.DBMaxConns)
	defer dbPool.Close()

	// Redis is shared by replicas; a single instance can run on in-process counters.
	var counter middleware.Counter = middleware.NewMemoryCounter()
	var cachePing handlers.Pinger
	if cfg.RedisAddr != "" {
		rdb, err := middleware.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory rate limiter", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rdb.Close()
			counter = middleware.NewRedisCounter(rdb)
			cachePing = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
			logger.Info("redis rate limiter enabled", "addr", cfg.RedisAddr)
		}
	}

	var notifier service.Notifier = service.LogNotifier{}
	if cfg.Push.CredentialsFile != "" {
		fcm, err := push.NewClient(context.Background(), cfg.Push)
		if err != nil {
			logger.Fatal("firebase setup failed", "error", err)
		}
		notifier = fcm
	} else {
		logger.Warn("FIREBASE_CREDENTIALS_FILE not set, notifications are only logged")
	}

	uploads, err := media.NewClient(cfg.CDN)
	if err != nil {
		logger.Fatal("cloudinary setup failed", "error", err)
	}
	if cfg.CDN.CloudName == "" {
		logger.Warn("CLOUDINARY_CLOUD_NAME not set, uploads use the placeholder image")
	}

	users := repository.NewUserRepository(dbPool)
	ledgerRepo := repository.NewLedgerRepository(dbPool)
	ledger := service.NewLedger(ledgerRepo, notifier)

	h := handlers.NewHandler(handlers.Deps{
		Users:       service.NewUserService(users, service.NewPasswordHasher(bcrypt.DefaultCost), tokens),
		Ledger:      ledger,
		Products:    service.NewCatalogService(repository.NewProductRepository(dbPool)),
		Items:       service.NewCatalogService(repository.NewItemRepository(dbPool)),
		Orders:      service.NewOrderService(repository.NewOrderRepository(dbPool), ledger),
		Feedback:    service.NewFeedbackService(repository.NewFeedbackRepository(dbPool)),
		Blogs:       service.NewBlogService(repository.NewBlogRepository(dbPool)),
		Messages:    service.NewMessageService(repository.NewMessageRepository(dbPool), users, notifier),
		Audit:       service.NewAuditService(repository.NewAuditRepository(dbPool)),
		CoinTx:      repository.NewCoinTransactionRepository(dbPool),
		Redemptions: repository.NewRedemptionRepository(dbPool),
		Media:       uploads,
	})
	health := handlers.NewHealthHandler(dbPool, cachePing, cfg.Version)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.BodyLimit(cfg.MaxUploadBytes),
	)
	r.MaxMultipartMemory = 8 << 20

	httpServer.RegisterRoutes(r, h, health, tokens, counter, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// pending earn notifications get their own budget
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer drainCancel()
	if err := ledger.WaitContext(drainCtx); err != nil {
		logger.Warn("abandoning pending notifications", "error", err)
	}

	logger.Info("server exited")
}
