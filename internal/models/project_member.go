package models

import "time"

type MemberRole string

const (
	RoleMember  MemberRole = "member"
	RoleManager MemberRole = "manager"
)

// ProjectMember ties a user to a project. It is the ownership root for
// every plan and report, so it carries its own surrogate key.
type ProjectMember struct {
	ID              uint64     `gorm:"primarykey" json:"id"`
	ProjectID       uint64     `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID          uint64     `gorm:"not null;uniqueIndex:idx_project_user;index:idx_member_user_active" json:"user_id"`
	Role            MemberRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CanEditPlan     bool       `gorm:"not null;default:true" json:"can_edit_plan"`
	CanSubmitReport bool       `gorm:"not null;default:true" json:"can_submit_report"`
	IsActive        bool       `gorm:"not null;default:true;index:idx_member_user_active" json:"is_active"`
	JoinedAt        time.Time  `json:"joined_at"`
	LeftAt          *time.Time `json:"left_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
