package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/nattawatc/study-planner-api/internal/constants"
	"github.com/nattawatc/study-planner-api/internal/models"
	"github.com/nattawatc/study-planner-api/internal/repository"
	"gorm.io/datatypes"
)

// NotifierService scans open work items, classifies them into
// deadline-proximity buckets and emits at-most-once notifications per
// (item, user, bucket). Idempotence comes from the ledger's unique
// dedupe key, so overlapping scans are safe.
type NotifierService struct {
	taskRepo       repository.TaskRepository
	assignmentRepo repository.AssignmentRepository
	projectRepo    repository.ProjectRepository
	courseRepo     repository.CourseRepository
	sender         *NotificationSender
}

// NewNotifierService creates a new NotifierService
func NewNotifierService(
	taskRepo repository.TaskRepository,
	assignmentRepo repository.AssignmentRepository,
	projectRepo repository.ProjectRepository,
	courseRepo repository.CourseRepository,
	sender *NotificationSender,
) *NotifierService {
	return &NotifierService{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		projectRepo:    projectRepo,
		courseRepo:     courseRepo,
		sender:         sender,
	}
}

// classifyDeadline picks the tightest matching bucket for a due date.
// An item further than three days out matches nothing.
func classifyDeadline(due, now time.Time) (string, bool) {
	left := due.Sub(now)
	switch {
	case left <= 0:
		return constants.BucketOverdue, true
	case left <= 6*time.Hour:
		return constants.BucketWithin6Hours, true
	case left <= 24*time.Hour:
		return constants.BucketWithin1Day, true
	case left <= 72*time.Hour:
		return constants.BucketWithin3Days, true
	}
	return "", false
}

func deadlinePhrase(bucket string) string {
	switch bucket {
	case constants.BucketOverdue:
		return "is overdue"
	case constants.BucketWithin6Hours:
		return "is due within 6 hours"
	case constants.BucketWithin1Day:
		return "is due within 1 day"
	default:
		return "is due within 3 days"
	}
}

// ScanTaskDeadlines walks tasks sitting in non-done columns and notifies
// the project members holding the task's role. One item's failure is
// logged and never aborts the batch; a failed enumeration aborts this
// tick only and is retried on the next one.
func (s *NotifierService) ScanTaskDeadlines(ctx context.Context, now time.Time) error {
	tasks, err := s.taskRepo.ListOpenWithDeadlines()
	if err != nil {
		return fmt.Errorf("failed to enumerate open tasks: %w", err)
	}

	for i := range tasks {
		task := &tasks[i]
		bucket, ok := classifyDeadline(*task.DueDate, now)
		if !ok {
			continue
		}
		if err := s.notifyTask(ctx, task, bucket); err != nil {
			log.Printf("notifier: task %d: %v", task.ID, err)
		}
	}

	return nil
}

func (s *NotifierService) notifyTask(ctx context.Context, task *models.Task, bucket string) error {
	project, err := s.projectRepo.FindByID(task.Status.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	members, err := s.projectRepo.ListMembersByRole(project.ID, *task.RoleID)
	if err != nil {
		return fmt.Errorf("failed to resolve role members: %w", err)
	}

	message := fmt.Sprintf("Task %q in project %q %s (due %s)",
		task.Name, project.Name, deadlinePhrase(bucket),
		task.DueDate.Format("2 Jan 15:04"))
	data := datatypes.JSON(fmt.Sprintf(`{"project_id":%d,"project_name":%s}`,
		project.ID, strconv.Quote(project.Name)))

	for _, member := range members {
		entry := &models.Notification{
			UserID:           member.UserID,
			ItemType:         constants.ItemTypeTask,
			ItemID:           task.ID,
			NotificationType: bucket,
			DueDate:          task.DueDate,
			Message:          message,
			Data:             data,
		}
		if _, err := s.sender.Notify(ctx, entry); err != nil {
			log.Printf("notifier: task %d user %d: %v", task.ID, member.UserID, err)
		}
	}

	return nil
}

// ScanAssignmentDeadlines walks assignments not yet done and notifies
// their owners.
func (s *NotifierService) ScanAssignmentDeadlines(ctx context.Context, now time.Time) error {
	assignments, err := s.assignmentRepo.ListOpenWithDeadlines()
	if err != nil {
		return fmt.Errorf("failed to enumerate open assignments: %w", err)
	}

	for i := range assignments {
		assignment := &assignments[i]
		bucket, ok := classifyDeadline(*assignment.EndDate, now)
		if !ok {
			continue
		}

		message := fmt.Sprintf("Assignment %q for course %q %s (due %s)",
			assignment.Name, assignment.Course.Name, deadlinePhrase(bucket),
			assignment.EndDate.Format("2 Jan 15:04"))

		entry := &models.Notification{
			UserID:           assignment.UserID,
			ItemType:         constants.ItemTypeAssignment,
			ItemID:           assignment.ID,
			NotificationType: bucket,
			DueDate:          assignment.EndDate,
			Message:          message,
			Data: datatypes.JSON(fmt.Sprintf(`{"course_id":%d,"course_name":%s}`,
				assignment.CourseID, strconv.Quote(assignment.Course.Name))),
		}
		if _, err := s.sender.Notify(ctx, entry); err != nil {
			log.Printf("notifier: assignment %d: %v", assignment.ID, err)
		}
	}

	return nil
}

// ScanUpcomingCourses reminds course owners roughly one hour before a
// scheduled class starts. The notification type carries the date, so the
// same class can be announced again on its next occurrence.
func (s *NotifierService) ScanUpcomingCourses(ctx context.Context, now time.Time) error {
	courses, err := s.courseRepo.ListByDay(now.Weekday().String())
	if err != nil {
		return fmt.Errorf("failed to enumerate courses: %w", err)
	}

	currentMinutes := now.Hour()*60 + now.Minute()

	for i := range courses {
		course := &courses[i]
		startMinutes, ok := parseClockMinutes(course.StartTime)
		if !ok {
			continue
		}

		untilStart := startMinutes - currentMinutes
		if untilStart < 55 || untilStart > 65 {
			continue
		}

		entry := &models.Notification{
			UserID:           course.UserID,
			ItemType:         constants.ItemTypeCourse,
			ItemID:           course.ID,
			NotificationType: "course-upcoming-" + now.Format("2006-01-02"),
			Message: fmt.Sprintf("Class %q starts in 1 hour (%s - %s)",
				course.Name, course.StartTime, course.EndTime),
		}
		if _, err := s.sender.Notify(ctx, entry); err != nil {
			log.Printf("notifier: course %d: %v", course.ID, err)
		}
	}

	return nil
}

// parseClockMinutes parses "HH:MM" into minutes since midnight.
func parseClockMinutes(value string) (int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
