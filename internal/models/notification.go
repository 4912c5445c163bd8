package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// Notification is a ledger entry: it is both what the UI lists and the
// dedupe record that makes the deadline scanner idempotent. The unique
// index over (user, item, item type, notification type) is the
// at-most-once key; a duplicate insert means "already notified".
type Notification struct {
	ID               uint64             `gorm:"primarykey" json:"id"`
	UserID           uint64             `gorm:"not null;index;uniqueIndex:idx_notifications_dedupe" json:"user_id"`
	ItemType         string             `gorm:"type:varchar(20);not null;uniqueIndex:idx_notifications_dedupe" json:"item_type"`
	ItemID           uint64             `gorm:"not null;uniqueIndex:idx_notifications_dedupe" json:"item_id"`
	NotificationType string             `gorm:"type:varchar(30);not null;uniqueIndex:idx_notifications_dedupe" json:"notification_type"`
	DueDate          *time.Time         `json:"due_date"`
	Message          string             `gorm:"type:text" json:"message"`
	Status           NotificationStatus `gorm:"type:varchar(10);not null;default:'unread'" json:"status"`
	DeliveredWeb     bool               `gorm:"not null;default:false" json:"delivered_web"`
	DeliveredLine    bool               `gorm:"not null;default:false" json:"delivered_line"`
	// Data carries display context (project/course name etc.) so the UI
	// does not have to re-resolve the item.
	Data      datatypes.JSON `json:"data,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
