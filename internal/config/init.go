package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config تنظیمات برنامه که از .env و متغیرهای محیطی خوانده می‌شود
type Config struct {
	Env           string
	AppPort       string
	DBDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string

	FollowCacheTTL time.Duration // مدت اعتبار کش لیست followers/following
	VerifyDebounce time.Duration // فاصله‌ی حداقل بین دو verify برای یک کاربر
	AuditInterval  time.Duration // صفر یعنی worker غیرفعال است
	AuditBatchSize int
}

// Load بارگذاری تنظیمات
func Load() (*Config, error) {
	// نبودن .env خطا نیست، از متغیرهای سیستم استفاده می‌شود
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getEnv("APP_ENV", "development"),
		AppPort:       getEnv("APP_PORT", "8080"),
		DBDSN:         os.Getenv("DB_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.RedisAddr == "" {
		return nil, errors.New("REDIS_ADDR is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0 // مقدار پیش‌فرض دیتابیس Redis
	}
	cfg.RedisDB = redisDB

	if cfg.FollowCacheTTL, err = getDuration("FOLLOW_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.VerifyDebounce, err = getDuration("VERIFY_DEBOUNCE", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.AuditInterval, err = getDuration("AUDIT_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	batchSize, err := strconv.Atoi(getEnv("AUDIT_BATCH_SIZE", "100"))
	if err != nil || batchSize <= 0 {
		batchSize = 100
	}
	cfg.AuditBatchSize = batchSize

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
