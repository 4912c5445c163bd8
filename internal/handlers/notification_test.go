package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nattawatc/study-planner-api/internal/constants"
	"github.com/nattawatc/study-planner-api/internal/database"
	"github.com/nattawatc/study-planner-api/internal/dto"
	"github.com/nattawatc/study-planner-api/internal/models"
	"github.com/nattawatc/study-planner-api/internal/repository"
	"github.com/nattawatc/study-planner-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type notificationTestEnv struct {
	db      *gorm.DB
	handler *NotificationHandler
	repo    repository.NotificationRepository
}

func setupNotificationTestEnv(t *testing.T) notificationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Notification{})
	require.NoError(t, err)

	database.SetDB(db)

	repo := repository.NewNotificationRepository(db)
	handler := NewNotificationHandler(services.NewNotificationService(repo))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return notificationTestEnv{db: db, handler: handler, repo: repo}
}

func notificationTestContext(method, url string, userID, id uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(nil))

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)
	if id != 0 {
		c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", id)}}
	}

	return c, w
}

func seedNotification(t *testing.T, repo repository.NotificationRepository, userID uint64, bucket string) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:           userID,
		ItemType:         constants.ItemTypeTask,
		ItemID:           1,
		NotificationType: bucket,
		Message:          "Task is due",
		DeliveredWeb:     true,
		Status:           models.NotificationUnread,
	}
	created, err := repo.CreateIfAbsent(n)
	require.NoError(t, err)
	require.True(t, created)
	return n
}

func TestNotificationHandler_ListNotifications(t *testing.T) {
	env := setupNotificationTestEnv(t)

	seedNotification(t, env.repo, 1, constants.BucketWithin1Day)
	seedNotification(t, env.repo, 2, constants.BucketWithin1Day)

	c, w := notificationTestContext(http.MethodGet, "/api/notifications", 1, 0)
	env.handler.ListNotifications(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Notifications []dto.NotificationDTO `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Notifications, 1)
	require.EqualValues(t, 1, response.Notifications[0].UserID)
	require.True(t, response.Notifications[0].Delivered.Web)
	require.False(t, response.Notifications[0].Delivered.Line)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	env := setupNotificationTestEnv(t)

	n := seedNotification(t, env.repo, 1, constants.BucketWithin1Day)

	c, w := notificationTestContext(http.MethodPatch, "/api/notifications/read", 1, n.ID)
	env.handler.MarkRead(c)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Notification
	require.NoError(t, env.db.First(&stored, n.ID).Error)
	require.Equal(t, models.NotificationRead, stored.Status)

	// Another user cannot touch the entry.
	c, w = notificationTestContext(http.MethodPatch, "/api/notifications/read", 2, n.ID)
	env.handler.MarkRead(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	env := setupNotificationTestEnv(t)

	seedNotification(t, env.repo, 1, constants.BucketWithin3Days)
	seedNotification(t, env.repo, 1, constants.BucketWithin1Day)

	c, w := notificationTestContext(http.MethodPatch, "/api/notifications/read-all", 1, 0)
	env.handler.MarkAllRead(c)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", 1, models.NotificationRead).
		Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestNotificationHandler_DeleteFlows(t *testing.T) {
	env := setupNotificationTestEnv(t)

	read := seedNotification(t, env.repo, 1, constants.BucketWithin3Days)
	seedNotification(t, env.repo, 1, constants.BucketWithin1Day)
	other := seedNotification(t, env.repo, 2, constants.BucketWithin1Day)
	require.NoError(t, env.repo.MarkRead(read.ID, 1))

	c, w := notificationTestContext(http.MethodDelete, "/api/notifications/read", 1, 0)
	env.handler.DeleteReadNotifications(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = notificationTestContext(http.MethodDelete, "/api/notifications/all", 1, 0)
	env.handler.DeleteAllNotifications(c)
	require.Equal(t, http.StatusOK, w.Code)

	var remaining []models.Notification
	require.NoError(t, env.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, other.ID, remaining[0].ID)
}

func TestNotificationHandler_DeleteNotification_NotFound(t *testing.T) {
	env := setupNotificationTestEnv(t)

	c, w := notificationTestContext(http.MethodDelete, "/api/notifications/delete", 1, 9999)
	env.handler.DeleteNotification(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
