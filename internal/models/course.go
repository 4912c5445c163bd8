package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID             uint64 `gorm:"primarykey" json:"id"`
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	Code           string `gorm:"type:varchar(50)" json:"code"`
	Color          string `gorm:"type:varchar(20)" json:"color"`
	InstructorName string `gorm:"type:varchar(255)" json:"instructor_name"`
	Location       string `gorm:"type:varchar(255)" json:"location"`
	// Weekly schedule: Day is an English weekday name, times are "HH:MM".
	Day       string         `gorm:"type:varchar(10)" json:"day"`
	StartTime string         `gorm:"type:varchar(5)" json:"start_time"`
	EndTime   string         `gorm:"type:varchar(5)" json:"end_time"`
	UserID    uint64         `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User        User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:CourseID" json:"assignments,omitempty"`
}
