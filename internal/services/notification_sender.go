package services

import (
	"context"
	"log"

	"github.com/nattawatc/study-planner-api/internal/line"
	"github.com/nattawatc/study-planner-api/internal/models"
	"github.com/nattawatc/study-planner-api/internal/repository"
)

// NotificationSender persists ledger entries and fans them out to the
// delivery channels. Creating the entry is the unit of atomicity: the
// in-app record always lands, and an external channel failure is logged
// without rolling anything back.
type NotificationSender struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	lineClient       *line.Client
}

// NewNotificationSender creates a new NotificationSender. lineClient may
// be nil when no channel token is configured.
func NewNotificationSender(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository, lineClient *line.Client) *NotificationSender {
	return &NotificationSender{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		lineClient:       lineClient,
	}
}

// Notify writes the ledger entry unless its dedupe key already exists,
// then attempts LINE delivery. Returns whether a new entry was created.
func (s *NotificationSender) Notify(ctx context.Context, n *models.Notification) (bool, error) {
	// The persisted record is the in-app delivery.
	n.DeliveredWeb = true
	n.Status = models.NotificationUnread

	created, err := s.notificationRepo.CreateIfAbsent(n)
	if err != nil || !created {
		return created, err
	}

	s.deliverLine(ctx, n)
	return true, nil
}

func (s *NotificationSender) deliverLine(ctx context.Context, n *models.Notification) {
	if s.lineClient == nil {
		return
	}

	user, err := s.userRepo.FindByID(n.UserID)
	if err != nil {
		log.Printf("notification %d: failed to load user %d: %v", n.ID, n.UserID, err)
		return
	}
	if user.LineUserID == "" {
		return
	}

	if err := s.lineClient.PushMessage(ctx, user.LineUserID, n.Message); err != nil {
		log.Printf("notification %d: LINE delivery failed: %v", n.ID, err)
		return
	}

	if err := s.notificationRepo.SetLineDelivered(n.ID); err != nil {
		log.Printf("notification %d: failed to record LINE delivery: %v", n.ID, err)
	}
}
