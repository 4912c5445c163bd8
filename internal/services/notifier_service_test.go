package services

import (
	"context"
	"testing"
	"time"

	"github.com/nattawatc/study-planner-api/internal/constants"
	"github.com/nattawatc/study-planner-api/internal/models"
	"github.com/nattawatc/study-planner-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type notifierTestEnv struct {
	db       *gorm.DB
	notifier *NotifierService
}

func setupNotifierTestEnv(t *testing.T) notifierTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectRole{},
		&models.ProjectMember{},
		&models.Status{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Course{},
		&models.Assignment{},
		&models.Notification{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	sender := NewNotificationSender(notificationRepo, userRepo, nil)
	notifier := NewNotifierService(
		repository.NewTaskRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewProjectRepository(db),
		repository.NewCourseRepository(db),
		sender,
	)

	return notifierTestEnv{db: db, notifier: notifier}
}

func TestClassifyDeadline(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		due    time.Time
		bucket string
		match  bool
	}{
		{"already past", now.Add(-time.Hour), constants.BucketOverdue, true},
		{"exactly now", now, constants.BucketOverdue, true},
		{"in two hours", now.Add(2 * time.Hour), constants.BucketWithin6Hours, true},
		{"exactly six hours", now.Add(6 * time.Hour), constants.BucketWithin6Hours, true},
		{"in twenty hours", now.Add(20 * time.Hour), constants.BucketWithin1Day, true},
		{"in two days", now.Add(48 * time.Hour), constants.BucketWithin3Days, true},
		{"exactly three days", now.Add(72 * time.Hour), constants.BucketWithin3Days, true},
		{"in four days", now.Add(96 * time.Hour), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, ok := classifyDeadline(tt.due, now)
			require.Equal(t, tt.match, ok)
			require.Equal(t, tt.bucket, bucket)
		})
	}
}

// seedTaskBoard creates a project with a role held by two of three
// members, a non-done column and a task in it due at the given time.
func seedTaskBoard(t *testing.T, db *gorm.DB, due time.Time) (models.Task, []uint64) {
	t.Helper()

	users := make([]models.User, 3)
	for i, name := range []string{"anna", "beam", "chai"} {
		users[i] = models.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
		require.NoError(t, db.Create(&users[i]).Error)
	}

	project := models.Project{Name: "Senior project"}
	require.NoError(t, db.Create(&project).Error)

	role := models.ProjectRole{ProjectID: project.ID, Name: "Backend", Color: "#333333"}
	require.NoError(t, db.Create(&role).Error)

	for i := range users {
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    users[i].ID,
			Role:      models.MemberRoleMember,
			JoinedAt:  time.Now(),
		}
		if i < 2 {
			member.ProjectRoleID = &role.ID
		}
		require.NoError(t, db.Create(&member).Error)
	}

	doing := models.Status{ProjectID: project.ID, Name: "Doing", Position: 1}
	done := models.Status{ProjectID: project.ID, Name: "Done", Position: 2, IsDone: true}
	require.NoError(t, db.Create(&doing).Error)
	require.NoError(t, db.Create(&done).Error)

	task := models.Task{StatusID: doing.ID, Name: "Ship the API", DueDate: &due, RoleID: &role.ID}
	require.NoError(t, db.Create(&task).Error)

	return task, []uint64{users[0].ID, users[1].ID}
}

func TestNotifierService_ScanTaskDeadlines_FansOutToRoleHolders(t *testing.T) {
	env := setupNotifierTestEnv(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	task, holderIDs := seedTaskBoard(t, env.db, now.Add(3*time.Hour))

	require.NoError(t, env.notifier.ScanTaskDeadlines(context.Background(), now))

	var notifications []models.Notification
	require.NoError(t, env.db.Order("user_id").Find(&notifications).Error)
	require.Len(t, notifications, 2)

	for i, n := range notifications {
		require.Equal(t, holderIDs[i], n.UserID)
		require.Equal(t, constants.ItemTypeTask, n.ItemType)
		require.Equal(t, task.ID, n.ItemID)
		require.Equal(t, constants.BucketWithin6Hours, n.NotificationType)
		require.Equal(t, models.NotificationUnread, n.Status)
		require.True(t, n.DeliveredWeb)
		require.False(t, n.DeliveredLine)
		require.Contains(t, n.Message, "Ship the API")
		require.Contains(t, n.Message, "Senior project")
	}
}

func TestNotifierService_ScanTaskDeadlines_SecondScanIsIdempotent(t *testing.T) {
	env := setupNotifierTestEnv(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedTaskBoard(t, env.db, now.Add(3*time.Hour))

	require.NoError(t, env.notifier.ScanTaskDeadlines(context.Background(), now))
	require.NoError(t, env.notifier.ScanTaskDeadlines(context.Background(), now.Add(time.Minute)))

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestNotifierService_ScanTaskDeadlines_BucketEscalates(t *testing.T) {
	env := setupNotifierTestEnv(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Due in 20 hours: first scan lands in the 1-day bucket.
	seedTaskBoard(t, env.db, now.Add(20*time.Hour))
	require.NoError(t, env.notifier.ScanTaskDeadlines(context.Background(), now))

	// 16 hours later the same task is within 6 hours: a new bucket, so a
	// new entry per user.
	require.NoError(t, env.notifier.ScanTaskDeadlines(context.Background(), now.Add(16*time.Hour)))

	var buckets []string
	require.NoError(t, env.db.Model(&models.Notification{}).
		Distinct("notification_type").Order("notification_type").
		Pluck("notification_type", &buckets).Error)
	require.Equal(t, []string{constants.BucketWithin1Day, constants.BucketWithin6Hours}, buckets)

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 4, count)
}

func TestNotifierService_ScanTaskDeadlines_SkipsDoneAndFarOut(t *testing.T) {
	env := setupNotifierTestEnv(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	task, _ := seedTaskBoard(t, env.db, now.Add(3*time.Hour))

	// Task in the done column is never scanned.
	var done models.Status
	require.NoError(t, env.db.Where("is_done = ?", true).First(&done).Error)
	require.NoError(t, env.db.Model(&models.Task{}).Where("id = ?", task.ID).
		Update("status_id", done.ID).Error)

	require.NoError(t, env.notifier.ScanTaskDeadlines(context.Background(), now))

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	require.Zero(t, count)

	// Far-out deadlines match no bucket.
	far := now.Add(10 * 24 * time.Hour)
	var doing models.Status
	require.NoError(t, env.db.Where("is_done = ?", false).First(&doing).Error)
	require.NoError(t, env.db.Model(&models.Task{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{"status_id": doing.ID, "due_date": far}).Error)

	require.NoError(t, env.notifier.ScanTaskDeadlines(context.Background(), now))
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestNotifierService_ScanAssignmentDeadlines(t *testing.T) {
	env := setupNotifierTestEnv(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	user := models.User{Name: "anna", Email: "anna@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(&user).Error)

	course := models.Course{Name: "Databases", UserID: user.ID}
	require.NoError(t, env.db.Create(&course).Error)

	due := now.Add(40 * time.Hour)
	open := models.Assignment{CourseID: course.ID, Name: "ER diagram", EndDate: &due, UserID: user.ID}
	finished := models.Assignment{
		CourseID: course.ID, Name: "Normalization quiz",
		Status: constants.AssignmentStatusDone, EndDate: &due, UserID: user.ID,
	}
	require.NoError(t, env.db.Create(&open).Error)
	require.NoError(t, env.db.Create(&finished).Error)

	require.NoError(t, env.notifier.ScanAssignmentDeadlines(context.Background(), now))

	var notifications []models.Notification
	require.NoError(t, env.db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, user.ID, notifications[0].UserID)
	require.Equal(t, constants.ItemTypeAssignment, notifications[0].ItemType)
	require.Equal(t, open.ID, notifications[0].ItemID)
	require.Equal(t, constants.BucketWithin3Days, notifications[0].NotificationType)
	require.Contains(t, notifications[0].Message, "ER diagram")
	require.Contains(t, notifications[0].Message, "Databases")
}

func TestNotifierService_ScanUpcomingCourses(t *testing.T) {
	env := setupNotifierTestEnv(t)
	// A Tuesday, 08:00.
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	require.Equal(t, time.Tuesday, now.Weekday())

	user := models.User{Name: "anna", Email: "anna@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(&user).Error)

	courses := []models.Course{
		{Name: "Databases", Day: "Tuesday", StartTime: "09:00", EndTime: "11:00", UserID: user.ID},
		{Name: "Compilers", Day: "Tuesday", StartTime: "13:00", EndTime: "15:00", UserID: user.ID},
		{Name: "Statistics", Day: "Friday", StartTime: "09:00", EndTime: "11:00", UserID: user.ID},
	}
	for i := range courses {
		require.NoError(t, env.db.Create(&courses[i]).Error)
	}

	require.NoError(t, env.notifier.ScanUpcomingCourses(context.Background(), now))

	var notifications []models.Notification
	require.NoError(t, env.db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, courses[0].ID, notifications[0].ItemID)
	require.Equal(t, constants.ItemTypeCourse, notifications[0].ItemType)
	require.Equal(t, "course-upcoming-2026-03-10", notifications[0].NotificationType)

	// Re-scanning the same morning stays quiet; the next week's occurrence
	// carries a new date and goes through.
	require.NoError(t, env.notifier.ScanUpcomingCourses(context.Background(), now.Add(2*time.Minute)))
	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.NoError(t, env.notifier.ScanUpcomingCourses(context.Background(), now.AddDate(0, 0, 7)))
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestParseClockMinutes(t *testing.T) {
	tests := []struct {
		value   string
		minutes int
		ok      bool
	}{
		{"09:00", 540, true},
		{"23:59", 1439, true},
		{"0:05", 5, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		minutes, ok := parseClockMinutes(tt.value)
		require.Equal(t, tt.ok, ok, "value %q", tt.value)
		if tt.ok {
			require.Equal(t, tt.minutes, minutes, "value %q", tt.value)
		}
	}
}
