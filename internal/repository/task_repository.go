package repository

import (
	"github.com/nattawatc/study-planner-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByStatusIDs lists tasks belonging to any of the given statuses
func (r *GormTaskRepository) ListByStatusIDs(statusIDs []uint64, preload ...string) ([]models.Task, error) {
	if len(statusIDs) == 0 {
		return []models.Task{}, nil
	}

	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var tasks []models.Task
	err := query.Where("status_id IN ?", statusIDs).Find(&tasks).Error
	return tasks, err
}

// ListOpenWithDeadlines lists tasks in a non-done status that have both a
// due date and a notification role. Scoped in SQL so the scanner never
// walks completed or undated tasks.
func (r *GormTaskRepository) ListOpenWithDeadlines() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Joins("JOIN statuses ON statuses.id = tasks.status_id").
		Where("statuses.is_done = ?", false).
		Where("tasks.due_date IS NOT NULL").
		Where("tasks.role_id IS NOT NULL").
		Preload("Status").
		Find(&tasks).Error
	return tasks, err
}

// Update updates a task. Associations are omitted so a preloaded Status
// is never written back.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Delete soft deletes a task and its assignments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// AssignUsers assigns multiple users to a task
func (r *GormTaskRepository) AssignUsers(taskID uint64, userIDs []uint64) error {
	assignments := make([]models.TaskAssignment, len(userIDs))

	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID: taskID,
			UserID: userID,
		}
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(&assignments).Error
}

// UnassignUsers removes user assignments from a task
func (r *GormTaskRepository) UnassignUsers(taskID uint64, userIDs []uint64) error {
	return r.db.Where("task_id = ? AND user_id IN ?", taskID, userIDs).
		Delete(&models.TaskAssignment{}).Error
}

// CountMembersByIDs counts how many of the given user IDs are members of the project
func (r *GormTaskRepository) CountMembersByIDs(userIDs []uint64, projectID uint64) (int64, error) {
	var count int64

	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id IN ?", projectID, userIDs).
		Count(&count).Error

	return count, err
}
