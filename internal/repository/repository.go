package repository

import (
	"time"

	"github.com/nattawatc/study-planner-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user (profile fields, LINE link)
	Update(user *models.User) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithDefaults creates a project, its default role and the owner
	// membership within a single transaction.
	CreateWithDefaults(project *models.Project, ownerID uint64) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListByUserID lists projects the user is a member of
	ListByUserID(userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project and cascades to its statuses and their tasks
	Delete(id uint64) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembersByRole lists project members holding the given project role,
	// with their users preloaded. Backs the notifier's role fan-out.
	ListMembersByRole(projectID uint64, roleID string) ([]models.ProjectMember, error)

	// AddRole adds a project role
	AddRole(role *models.ProjectRole) error

	// FindRole finds a project role by ID
	FindRole(roleID string) (*models.ProjectRole, error)

	// UpdateRole updates a project role
	UpdateRole(role *models.ProjectRole) error

	// DeleteRole removes a project role and clears it from members and tasks
	DeleteRole(projectID uint64, roleID string) error
}

// StatusRepository defines the interface for board column data access.
// The ordered mutations run as single transactions so the dense 1..N
// position invariant is never observable half-applied.
type StatusRepository interface {
	// FindByID finds a status by ID
	FindByID(id uint64) (*models.Status, error)

	// ListByProject lists a project's statuses ordered by position
	ListByProject(projectID uint64) ([]models.Status, error)

	// Update updates name/color fields of a status
	Update(status *models.Status) error

	// CreateOrdered inserts a status at the tail of the project's ordering,
	// keeping an existing done status last.
	CreateOrdered(status *models.Status) error

	// DeleteOrdered removes a status, its tasks, and closes the position gap.
	DeleteOrdered(id uint64) error

	// MoveOrdered moves a status to newPosition, shifting the in-between
	// range. Moving to the current position is a no-op.
	MoveOrdered(id, projectID uint64, newPosition int) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByStatusIDs lists tasks belonging to any of the given statuses
	ListByStatusIDs(statusIDs []uint64, preload ...string) ([]models.Task, error)

	// ListOpenWithDeadlines lists tasks sitting in a non-done status that
	// have a due date and a notification role, with Status preloaded.
	ListOpenWithDeadlines() ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its assignments
	Delete(id uint64) error

	// AssignUsers assigns multiple users to a task
	AssignUsers(taskID uint64, userIDs []uint64) error

	// UnassignUsers removes user assignments from a task
	UnassignUsers(taskID uint64, userIDs []uint64) error

	// CountMembersByIDs counts how many of the given user IDs are members
	// of the project
	CountMembersByIDs(userIDs []uint64, projectID uint64) (int64, error)
}

// CourseRepository defines the interface for course data access
type CourseRepository interface {
	Create(course *models.Course) error
	FindByID(id uint64) (*models.Course, error)
	ListByUserID(userID uint64) ([]models.Course, error)

	// ListByDay lists courses scheduled on the given weekday name
	ListByDay(day string) ([]models.Course, error)

	Update(course *models.Course) error

	// Delete removes a course and cascades to its assignments
	Delete(id uint64) error
}

// AssignmentRepository defines the interface for assignment data access
type AssignmentRepository interface {
	Create(assignment *models.Assignment) error
	FindByID(id uint64) (*models.Assignment, error)
	ListByCourse(courseID uint64) ([]models.Assignment, error)
	ListByUserID(userID uint64) ([]models.Assignment, error)

	// ListOpenWithDeadlines lists assignments not yet in the terminal
	// status that carry an end date, with Course preloaded.
	ListOpenWithDeadlines() ([]models.Assignment, error)

	Update(assignment *models.Assignment) error
	Delete(id uint64) error
}

// NotificationRepository defines the interface for the notification ledger
type NotificationRepository interface {
	// CreateIfAbsent inserts a ledger entry unless one already exists for
	// the same (user, item, item type, notification type). Returns false
	// when the entry was deduplicated.
	CreateIfAbsent(n *models.Notification) (bool, error)

	// SetLineDelivered flips the LINE delivery flag on an entry
	SetLineDelivered(id uint64) error

	// ListForUser lists entries for a user created at or after since,
	// newest first
	ListForUser(userID uint64, since time.Time) ([]models.Notification, error)

	// MarkRead marks one entry read
	MarkRead(id, userID uint64) error

	// MarkAllRead marks all of a user's unread entries read
	MarkAllRead(userID uint64, since time.Time) (int64, error)

	// Delete removes one entry owned by the user
	Delete(id, userID uint64) error

	// DeleteRead removes the user's read entries
	DeleteRead(userID uint64) (int64, error)

	// DeleteAll removes all of the user's entries
	DeleteAll(userID uint64) (int64, error)

	// PurgeOlderThan hard-deletes entries created before the cutoff
	PurgeOlderThan(cutoff time.Time) (int64, error)
}
