package repository

import (
	"github.com/nattawatc/study-planner-api/internal/constants"
	"github.com/nattawatc/study-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

func (r *GormAssignmentRepository) Create(assignment *models.Assignment) error {
	return r.db.Create(assignment).Error
}

func (r *GormAssignmentRepository) FindByID(id uint64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *GormAssignmentRepository) ListByCourse(courseID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.Where("course_id = ?", courseID).Find(&assignments).Error
	return assignments, err
}

func (r *GormAssignmentRepository) ListByUserID(userID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.Where("user_id = ?", userID).Order("end_date").Find(&assignments).Error
	return assignments, err
}

// ListOpenWithDeadlines lists assignments not yet done that carry an end date
func (r *GormAssignmentRepository) ListOpenWithDeadlines() ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.
		Where("status <> ?", constants.AssignmentStatusDone).
		Where("end_date IS NOT NULL").
		Preload("Course").
		Find(&assignments).Error
	return assignments, err
}

func (r *GormAssignmentRepository) Update(assignment *models.Assignment) error {
	return r.db.Save(assignment).Error
}

func (r *GormAssignmentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Assignment{}, id).Error
}
