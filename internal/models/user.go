package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Profile      string         `gorm:"type:varchar(512)" json:"profile"`
	// LineUserID links the account to a LINE identity for push delivery.
	LineUserID string         `gorm:"type:varchar(64);index" json:"line_user_id,omitempty"`
	IsVerified bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships   []ProjectMember  `gorm:"foreignKey:UserID" json:"-"`
	Assignments   []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
	Courses       []Course         `gorm:"foreignKey:UserID" json:"-"`
	Notifications []Notification   `gorm:"foreignKey:UserID" json:"-"`
}
