package repository

import (
	"fmt"
	"time"

	"github.com/nattawatc/study-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithDefaults creates a project, a default role and the owner
// membership atomically.
func (r *GormProjectRepository) CreateWithDefaults(project *models.Project, ownerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("create project: %w", err)
		}

		role := &models.ProjectRole{
			ProjectID: project.ID,
			Name:      "Default role",
			Color:     "#D6D6D6",
		}
		if err := tx.Create(role).Error; err != nil {
			return fmt.Errorf("create default role: %w", err)
		}

		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      models.MemberRoleOwner,
			JoinedAt:  time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("create owner membership: %w", err)
		}

		return nil
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListByUserID lists projects the user is a member of
func (r *GormProjectRepository) ListByUserID(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Find(&projects).Error
	return projects, err
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and cascades to its statuses, their tasks,
// the memberships and the roles, all in one transaction.
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		statusIDs := tx.Model(&models.Status{}).Select("id").Where("project_id = ?", id)

		taskIDs := tx.Model(&models.Task{}).Select("id").Where("status_id IN (?)", statusIDs)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("status_id IN (?)", statusIDs).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Status{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectRole{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByRole lists project members holding the given project role.
// This is the indexed role -> members query behind the notifier fan-out.
func (r *GormProjectRepository) ListMembersByRole(projectID uint64, roleID string) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := r.db.
		Where("project_id = ? AND project_role_id = ?", projectID, roleID).
		Preload("User").
		Find(&members).Error
	return members, err
}

// AddRole adds a project role
func (r *GormProjectRepository) AddRole(role *models.ProjectRole) error {
	return r.db.Create(role).Error
}

// FindRole finds a project role by ID
func (r *GormProjectRepository) FindRole(roleID string) (*models.ProjectRole, error) {
	var role models.ProjectRole
	if err := r.db.Where("id = ?", roleID).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// UpdateRole updates a project role
func (r *GormProjectRepository) UpdateRole(role *models.ProjectRole) error {
	return r.db.Save(role).Error
}

// DeleteRole removes a project role and clears the reference from members
// and tasks that pointed at it.
func (r *GormProjectRepository) DeleteRole(projectID uint64, roleID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND project_role_id = ?", projectID, roleID).
			Update("project_role_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("role_id = ?", roleID).
			Update("role_id", nil).Error; err != nil {
			return err
		}

		return tx.Where("id = ? AND project_id = ?", roleID, projectID).
			Delete(&models.ProjectRole{}).Error
	})
}
