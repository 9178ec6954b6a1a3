package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationTypeOrderPlaced     NotificationType = "order_placed"
	NotificationTypeOrderStatus     NotificationType = "order_status"
	NotificationTypeNewFollower     NotificationType = "new_follower"
	NotificationTypeNewProduct      NotificationType = "new_product"
	NotificationTypeProductDiscount NotificationType = "product_discount"
	NotificationTypeSystem          NotificationType = "system"
)

// Notification is persisted before any push delivery attempt. Push failures
// are logged and never surfaced to the caller.
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID        `json:"userId" gorm:"type:uuid;not null;index:idx_notifications_user;index:idx_notifications_user_read"`
	Type      NotificationType `json:"type" gorm:"type:varchar(30);not null"`
	Title     string           `json:"title" gorm:"type:varchar(255);not null"`
	Message   string           `json:"message" gorm:"type:text"`
	Data      datatypes.JSON   `json:"data,omitempty" gorm:"type:jsonb"`
	IsRead    bool             `json:"isRead" gorm:"default:false;index:idx_notifications_user_read"`
	ReadAt    *time.Time       `json:"readAt,omitempty"`
	CreatedAt time.Time        `json:"createdAt" gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

// UnreadCountResponse is returned by the unread counter endpoint.
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}
