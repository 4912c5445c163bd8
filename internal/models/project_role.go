package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRole is a project-scoped role used to target deadline
// notifications at the subset of members holding it.
type ProjectRole struct {
	ID        string `gorm:"type:varchar(36);primarykey" json:"id"`
	ProjectID uint64 `gorm:"not null;index" json:"project_id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Color     string `gorm:"type:varchar(20)" json:"color"`
}

func (r *ProjectRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
