package models

import "time"

type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

type ProjectMember struct {
	ProjectID uint64     `gorm:"primarykey" json:"project_id"`
	UserID    uint64     `gorm:"primarykey" json:"user_id"`
	Role      MemberRole `gorm:"type:varchar(20);not null" json:"role"`
	// ProjectRoleID points at the project-scoped role this member holds,
	// if any. Indexed so the notifier can resolve role -> members without
	// scanning the membership list.
	ProjectRoleID *string   `gorm:"type:varchar(36);index" json:"project_role_id"`
	JoinedAt      time.Time `json:"joined_at"`

	// Relations
	Project     Project      `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User        User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProjectRole *ProjectRole `gorm:"foreignKey:ProjectRoleID" json:"project_role,omitempty"`
}
