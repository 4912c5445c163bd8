package repository

import (
	"errors"
	"time"

	"github.com/nattawatc/study-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// CreateIfAbsent inserts a ledger entry. The unique index on
// (user_id, item_id, item_type, notification_type) is the single source
// of truth for idempotence: a duplicate-key failure means some other
// write (or an overlapping scan tick) got there first, and is reported
// as "not created" rather than as an error.
func (r *GormNotificationRepository) CreateIfAbsent(n *models.Notification) (bool, error) {
	if err := r.db.Create(n).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetLineDelivered flips the LINE delivery flag on an entry
func (r *GormNotificationRepository) SetLineDelivered(id uint64) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		Update("delivered_line", true).Error
}

// ListForUser lists entries for a user created at or after since, newest first
func (r *GormNotificationRepository) ListForUser(userID uint64, since time.Time) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkRead marks one entry read
func (r *GormNotificationRepository) MarkRead(id, userID uint64) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", models.NotificationRead)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks all of a user's unread entries read
func (r *GormNotificationRepository) MarkAllRead(userID uint64, since time.Time) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND status = ? AND created_at >= ?",
			userID, models.NotificationUnread, since).
		Update("status", models.NotificationRead)
	return result.RowsAffected, result.Error
}

// Delete removes one entry owned by the user
func (r *GormNotificationRepository) Delete(id, userID uint64) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRead removes the user's read entries
func (r *GormNotificationRepository) DeleteRead(userID uint64) (int64, error) {
	result := r.db.Where("user_id = ? AND status = ?", userID, models.NotificationRead).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

// DeleteAll removes all of the user's entries
func (r *GormNotificationRepository) DeleteAll(userID uint64) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

// PurgeOlderThan hard-deletes entries created before the cutoff
func (r *GormNotificationRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
