package repository

import (
	"github.com/nattawatc/study-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormCourseRepository is a GORM implementation of CourseRepository
type GormCourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &GormCourseRepository{db: db}
}

func (r *GormCourseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *GormCourseRepository) FindByID(id uint64) (*models.Course, error) {
	var course models.Course
	if err := r.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *GormCourseRepository) ListByUserID(userID uint64) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Where("user_id = ?", userID).Find(&courses).Error
	return courses, err
}

// ListByDay lists courses scheduled on the given weekday name
func (r *GormCourseRepository) ListByDay(day string) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Where("day = ?", day).Find(&courses).Error
	return courses, err
}

func (r *GormCourseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

// Delete removes a course and its assignments in one transaction
func (r *GormCourseRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Course{}, id).Error
	})
}
