package models

import "time"

// Status is a board column. Positions within a project are 1-based and
// dense: for N statuses they always form the set {1..N}. At most one
// status per project has IsDone set, and it always holds the highest
// position.
type Status struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Color     string    `gorm:"type:varchar(20)" json:"color"`
	Position  int       `gorm:"not null;index" json:"position"`
	IsDone    bool      `gorm:"not null;default:false" json:"is_done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Tasks   []Task  `gorm:"foreignKey:StatusID" json:"tasks,omitempty"`
}
