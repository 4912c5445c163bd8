package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	StartDate *time.Time     `json:"start_date"`
	DueDate   *time.Time     `json:"due_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members  []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Roles    []ProjectRole   `gorm:"foreignKey:ProjectID" json:"roles,omitempty"`
	Statuses []Status        `gorm:"foreignKey:ProjectID" json:"statuses,omitempty"`
}
