package config

import (
	"go.uber.org/zap"
)

// InitLogger ساخت logger بر اساس محیط اجرا
func InitLogger(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	// در production خروجی JSON و در توسعه خروجی خوانا
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	logger.Info("✅ Zap logger initialized", zap.String("env", env))
	return logger, nil
}
