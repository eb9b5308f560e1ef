package notification

import (
	"context"
	"time"
)

// Sender ارسال اعلان به یک کاربر؛ خطای آن هیچ‌وقت عملیات اصلی را برنمی‌گرداند
type Sender interface {
	SendNotificationToUser(ctx context.Context, recipientID, notificationType, title, body string, metadata map[string]string) error
}

// NotificationDTO شکل ذخیره‌شده‌ی اعلان در صندوق کاربر
type NotificationDTO struct {
	ID          string            `json:"id"`
	RecipientID string            `json:"recipientId"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}
