package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	dbadapter "unifollow/internal/adapters/database"
	"unifollow/internal/adapters/httpapi"
	redisadapter "unifollow/internal/adapters/redis"
	"unifollow/internal/config"
	followerapp "unifollow/internal/core/follower/service"
	followcountapp "unifollow/internal/core/followcount/service"
	followstateapp "unifollow/internal/core/followstate/service"
	userapp "unifollow/internal/core/user/service"
	"unifollow/internal/workers"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load() // بارگذاری تنظیمات از .env
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.InitLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// اتصال به دیتابیس و اجرای مایگریشن‌ها
	db, err := config.InitDB(cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("❌ Database init failed", zap.Error(err))
	}
	if err := dbadapter.AutoMigrate(db); err != nil {
		logger.Fatal("Error during migrations:", zap.Error(err))
	}
	logger.Info("✅ Database migrations completed")

	// اتصال به Redis
	redisClient, err := config.InitRedis(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("❌ Redis init failed", zap.Error(err))
	}

	// بستن منابع بعد از اتمام کار سرور
	defer closeResources(logger, db, redisClient)

	// آداپترهای خروجی
	userRepo := dbadapter.NewUserRepositoryDatabase(db)
	followerRepo := dbadapter.NewFollowerRepositoryDatabase(db)
	activityRepo := dbadapter.NewActivityRepositoryDatabase(db)
	notifications := redisadapter.NewNotificationRepositoryRedis(redisClient, logger)
	mirror := redisadapter.NewFollowMirrorRedis(redisClient)

	// یوزکیس/سرویس‌ها
	userSvc := userapp.NewUserService(userRepo, logger)
	followerSvc := followerapp.NewFollowerService(followerRepo, userRepo, notifications, activityRepo, mirror, logger,
		followerapp.Options{CacheTTL: cfg.FollowCacheTTL})
	countSvc := followcountapp.NewFollowCountService(userRepo, cfg.AuditBatchSize, logger)
	stateSvc := followstateapp.NewFollowStateService(followerSvc, countSvc, followerRepo, userRepo, activityRepo, mirror, logger,
		followstateapp.Options{VerifyDebounce: cfg.VerifyDebounce})

	// تزریق یوزکیس به آداپتر ورودی
	r := httpapi.SetupRoutes([]byte(cfg.JWTSecret), httpapi.UseCases{
		User:         userSvc,
		Follower:     followerSvc,
		FollowState:  stateSvc,
		FollowCount:  countSvc,
		Notification: notifications,
		Activity:     activityRepo,
	})

	// اجرای worker در پس‌زمینه
	auditWorker := workers.NewCountAuditWorker(countSvc, cfg.AuditInterval, logger)
	go auditWorker.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}
	go func() {
		logger.Info("🚀 App is running...", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start:", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server:", zap.Error(err))
	}
}

// closeResources بستن اتصالات به Redis و دیتابیس
func closeResources(logger *zap.Logger, db *gorm.DB, redisClient *redis.Client) {
	// بستن اتصال به Redis
	if err := redisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection:", zap.Error(err))
	}

	// بستن اتصال دیتابیس
	sqlDB, err := db.DB() // گرفتن *sql.DB از *gorm.DB
	if err != nil {
		logger.Error("Error getting raw DB:", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection:", zap.Error(err))
	}
}
