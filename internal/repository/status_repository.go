package repository

import (
	"errors"

	"github.com/nattawatc/study-planner-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDoneStatusExists is returned when creating a second done status for a project.
	ErrDoneStatusExists = errors.New("status repository: project already has a done status")
	// ErrStatusIsDone is returned when deleting or moving the done status.
	ErrStatusIsDone = errors.New("status repository: done status cannot be moved or deleted")
	// ErrPositionOutOfRange is returned when the target position is outside 1..N.
	ErrPositionOutOfRange = errors.New("status repository: position out of range")
	// ErrPositionBeyondDone is returned when a move would place a status at or past the done column.
	ErrPositionBeyondDone = errors.New("status repository: position would pass the done status")
)

// GormStatusRepository is a GORM implementation of StatusRepository
type GormStatusRepository struct {
	db *gorm.DB
}

// NewStatusRepository creates a new StatusRepository
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &GormStatusRepository{db: db}
}

// FindByID finds a status by ID
func (r *GormStatusRepository) FindByID(id uint64) (*models.Status, error) {
	var status models.Status
	if err := r.db.First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// ListByProject lists a project's statuses ordered by position
func (r *GormStatusRepository) ListByProject(projectID uint64) ([]models.Status, error) {
	var statuses []models.Status
	err := r.db.Where("project_id = ?", projectID).Order("position").Find(&statuses).Error
	return statuses, err
}

// Update updates name/color fields of a status
func (r *GormStatusRepository) Update(status *models.Status) error {
	return r.db.Model(status).Updates(map[string]interface{}{
		"name":  status.Name,
		"color": status.Color,
	}).Error
}

// CreateOrdered inserts a status at the tail of the project's ordering.
// A done status always lands on the absolute last position; a non-done
// status created while a done status occupies the tail slots in just
// before it, pushing the done status one position further.
func (r *GormStatusRepository) CreateOrdered(status *models.Status) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var statuses []models.Status
		if err := tx.Where("project_id = ?", status.ProjectID).
			Order("position").Find(&statuses).Error; err != nil {
			return err
		}

		var done *models.Status
		for i := range statuses {
			if statuses[i].IsDone {
				done = &statuses[i]
			}
		}

		switch {
		case status.IsDone:
			if done != nil {
				return ErrDoneStatusExists
			}
			status.Position = len(statuses) + 1
		case done != nil:
			status.Position = done.Position
			if err := tx.Model(&models.Status{}).Where("id = ?", done.ID).
				Update("position", gorm.Expr("position + 1")).Error; err != nil {
				return err
			}
		default:
			status.Position = len(statuses) + 1
		}

		return tx.Create(status).Error
	})
}

// DeleteOrdered removes a status, its tasks, and decrements every higher
// position in the project so positions stay dense.
func (r *GormStatusRepository) DeleteOrdered(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var status models.Status
		if err := tx.First(&status, id).Error; err != nil {
			return err
		}
		if status.IsDone {
			return ErrStatusIsDone
		}

		if err := tx.Where("task_id IN (?)",
			tx.Model(&models.Task{}).Select("id").Where("status_id = ?", status.ID),
		).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("status_id = ?", status.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Status{}, status.ID).Error; err != nil {
			return err
		}

		return tx.Model(&models.Status{}).
			Where("project_id = ? AND position > ?", status.ProjectID, status.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// MoveOrdered moves a status to newPosition within its project. The
// strictly-between range shifts by one and the whole change commits as a
// single transaction, so positions remain a dense permutation of 1..N.
func (r *GormStatusRepository) MoveOrdered(id, projectID uint64, newPosition int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var status models.Status
		if err := tx.Where("id = ? AND project_id = ?", id, projectID).
			First(&status).Error; err != nil {
			return err
		}
		if status.IsDone {
			return ErrStatusIsDone
		}

		var count int64
		if err := tx.Model(&models.Status{}).
			Where("project_id = ?", projectID).Count(&count).Error; err != nil {
			return err
		}
		if newPosition < 1 || newPosition > int(count) {
			return ErrPositionOutOfRange
		}

		var done models.Status
		err := tx.Where("project_id = ? AND is_done = ?", projectID, true).
			First(&done).Error
		switch {
		case err == nil:
			if newPosition >= done.Position {
				return ErrPositionBeyondDone
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no done column to protect
		default:
			return err
		}

		if newPosition == status.Position {
			return nil
		}

		if newPosition < status.Position {
			err = tx.Model(&models.Status{}).
				Where("project_id = ? AND position >= ? AND position < ? AND id <> ?",
					projectID, newPosition, status.Position, status.ID).
				Update("position", gorm.Expr("position + 1")).Error
		} else {
			err = tx.Model(&models.Status{}).
				Where("project_id = ? AND position > ? AND position <= ? AND id <> ?",
					projectID, status.Position, newPosition, status.ID).
				Update("position", gorm.Expr("position - 1")).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&models.Status{}).Where("id = ?", status.ID).
			Update("position", newPosition).Error
	})
}
