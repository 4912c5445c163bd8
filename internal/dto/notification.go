package dto

import (
	"encoding/json"
	"time"

	"github.com/nattawatc/study-planner-api/internal/models"
)

// DeliveredDTO reports per-channel delivery state
type DeliveredDTO struct {
	Web  bool `json:"web"`
	Line bool `json:"line"`
}

// NotificationDTO represents a ledger entry in API responses
type NotificationDTO struct {
	ID               uint64                    `json:"id"`
	UserID           uint64                    `json:"user_id"`
	ItemType         string                    `json:"item_type"`
	ItemID           uint64                    `json:"item_id"`
	NotificationType string                    `json:"notification_type"`
	DueDate          *time.Time                `json:"due_date"`
	Message          string                    `json:"message"`
	Status           models.NotificationStatus `json:"status"`
	Delivered        DeliveredDTO              `json:"delivered"`
	Data             json.RawMessage           `json:"data,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:               n.ID,
		UserID:           n.UserID,
		ItemType:         n.ItemType,
		ItemID:           n.ItemID,
		NotificationType: n.NotificationType,
		DueDate:          n.DueDate,
		Message:          n.Message,
		Status:           n.Status,
		Delivered: DeliveredDTO{
			Web:  n.DeliveredWeb,
			Line: n.DeliveredLine,
		},
		Data:      json.RawMessage(n.Data),
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationDTOs converts a slice of Notification models
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = ToNotificationDTO(n)
	}
	return dtos
}
