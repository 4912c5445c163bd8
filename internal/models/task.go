package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID       uint64 `gorm:"primarykey" json:"id"`
	StatusID uint64 `gorm:"not null;index" json:"status_id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Detail   string `gorm:"type:text" json:"detail"`
	Tag      string `gorm:"type:varchar(100)" json:"tag"`
	// Priority weights the task's contribution to project progress.
	Priority  int        `gorm:"not null;default:1" json:"priority"`
	Color     string     `gorm:"type:varchar(20)" json:"color"`
	StartDate *time.Time `json:"start_date"`
	DueDate   *time.Time `json:"due_date"`
	// RoleID selects which project members get deadline notifications
	// for this task.
	RoleID    *string        `gorm:"type:varchar(36);index" json:"role_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Status      Status           `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Role        *ProjectRole     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}
