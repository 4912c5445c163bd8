package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/nattawatc/study-planner-api/internal/constants"
	"github.com/nattawatc/study-planner-api/internal/models"
	"github.com/nattawatc/study-planner-api/internal/repository"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService is the ledger read path: listing recent entries
// and read/delete bookkeeping.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListForUser lists a user's entries within the display window, newest first
func (s *NotificationService) ListForUser(userID uint64) ([]models.Notification, error) {
	since := time.Now().Add(-constants.DisplayWindow)
	notifications, err := s.notificationRepo.ListForUser(userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one entry read
func (s *NotificationService) MarkRead(id, userID uint64) error {
	if err := s.notificationRepo.MarkRead(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks all unread entries within the display window read
func (s *NotificationService) MarkAllRead(userID uint64) (int64, error) {
	since := time.Now().Add(-constants.DisplayWindow)
	count, err := s.notificationRepo.MarkAllRead(userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return count, nil
}

// Delete removes one entry owned by the user
func (s *NotificationService) Delete(id, userID uint64) error {
	if err := s.notificationRepo.Delete(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// DeleteRead removes the user's read entries
func (s *NotificationService) DeleteRead(userID uint64) (int64, error) {
	count, err := s.notificationRepo.DeleteRead(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete read notifications: %w", err)
	}
	return count, nil
}

// DeleteAll removes all of the user's entries
func (s *NotificationService) DeleteAll(userID uint64) (int64, error) {
	count, err := s.notificationRepo.DeleteAll(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	return count, nil
}

// PurgeExpired enforces the hard retention window. Run daily by the scheduler.
func (s *NotificationService) PurgeExpired(now time.Time) (int64, error) {
	cutoff := now.Add(-constants.RetentionWindow)
	count, err := s.notificationRepo.PurgeOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired notifications: %w", err)
	}
	return count, nil
}
