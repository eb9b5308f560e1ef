package workers

import (
	"context"
	"time"

	"unifollow/internal/core/followcount"

	"go.uber.org/zap"
)

// CountAuditor اجرای یک دور بررسی شمارنده‌ها
type CountAuditor interface {
	AuditAndFixAllUserCounts(ctx context.Context) (*followcount.AuditResult, error)
}

type CountAuditWorker struct {
	Auditor  CountAuditor
	Interval time.Duration
	Logger   *zap.Logger
}

func NewCountAuditWorker(auditor CountAuditor, interval time.Duration, logger *zap.Logger) *CountAuditWorker {
	return &CountAuditWorker{
		Auditor:  auditor,
		Interval: interval,
		Logger:   logger,
	}
}

// Run هر Interval یک دور audit اجرا می‌کند تا ctx بسته شود
func (w *CountAuditWorker) Run(ctx context.Context) {
	if w.Interval <= 0 {
		w.Logger.Info("⏸️ CountAuditWorker disabled")
		return
	}

	w.Logger.Info("🚀 CountAuditWorker started", zap.Duration("interval", w.Interval))
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 CountAuditWorker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CountAuditWorker) runOnce(ctx context.Context) {
	result, err := w.Auditor.AuditAndFixAllUserCounts(ctx)
	if err != nil {
		w.Logger.Error("❌ Count audit pass failed", zap.Error(err))
		return
	}

	if len(result.Errors) > 0 {
		w.Logger.Warn("⚠️ Count audit finished with errors",
			zap.Int("scanned", result.Scanned),
			zap.Int("fixed", result.Fixed),
			zap.Strings("errors", result.Errors))
		return
	}
	w.Logger.Info("✅ Count audit pass done", zap.Int("scanned", result.Scanned), zap.Int("fixed", result.Fixed))
}
