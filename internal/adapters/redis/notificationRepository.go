package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	notificationPort "unifollow/internal/ports/notification"

	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const notificationInboxLimit = 200

type NotificationRepositoryRedis struct {
	Client *redis.Client
	Logger *zap.Logger
}

func NewNotificationRepositoryRedis(client *redis.Client, logger *zap.Logger) *NotificationRepositoryRedis {
	return &NotificationRepositoryRedis{
		Client: client,
		Logger: logger,
	}
}

func inboxKey(userID string) string {
	return "notifications:" + userID
}

// SendNotificationToUser: اضافه کردن اعلان به ZSET صندوق کاربر
func (r *NotificationRepositoryRedis) SendNotificationToUser(ctx context.Context, recipientID, notificationType, title, body string, metadata map[string]string) error {
	n := notificationPort.NotificationDTO{
		ID:          uuid.Must(uuid.NewV4()).String(),
		RecipientID: recipientID,
		Type:        notificationType,
		Title:       title,
		Body:        body,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	key := inboxKey(recipientID)
	z := &redis.Z{
		Score:  float64(n.CreatedAt.UnixMilli()),
		Member: payload,
	}

	_, err = r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, z)
		// فقط جدیدترین‌ها نگه داشته می‌شوند
		pipe.ZRemRangeByRank(ctx, key, 0, -notificationInboxLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis push notification: %w", err)
	}

	r.Logger.Info("📨 Notification queued", zap.String("recipientID", recipientID), zap.String("type", notificationType))
	return nil
}

// ListNotifications اعلان‌های کاربر، جدیدترین اول
func (r *NotificationRepositoryRedis) ListNotifications(ctx context.Context, userID string, start, limit int64) ([]*notificationPort.NotificationDTO, error) {
	raw, err := r.Client.ZRevRange(ctx, inboxKey(userID), start, start+limit-1).Result()
	if err != nil {
		return nil, err
	}

	notifications := make([]*notificationPort.NotificationDTO, 0, len(raw))
	for _, item := range raw {
		var n notificationPort.NotificationDTO
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			r.Logger.Warn("⚠️ Skipping malformed notification", zap.String("userID", userID), zap.Error(err))
			continue
		}
		notifications = append(notifications, &n)
	}
	return notifications, nil
}
