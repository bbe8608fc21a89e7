package dto

import (
	"time"

	"github.com/hamgam/worklog-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	SheetURL   string    `json:"sheet_url,omitempty"`
	InviteCode string    `json:"invite_code,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// MembershipDTO represents the caller's membership in a project
type MembershipDTO struct {
	ID              uint64     `json:"id"`
	ProjectID       uint64     `json:"project_id"`
	Role            string     `json:"role"`
	CanEditPlan     bool       `json:"can_edit_plan"`
	CanSubmitReport bool       `json:"can_submit_report"`
	IsActive        bool       `json:"is_active"`
	JoinedAt        time.Time  `json:"joined_at"`
	LeftAt          *time.Time `json:"left_at,omitempty"`
}

// ProjectMemberDTO represents a member row in a project detail response
type ProjectMemberDTO struct {
	MembershipID uint64    `json:"membership_id"`
	Role         string    `json:"role"`
	JoinedAt     time.Time `json:"joined_at"`
	User         UserDTO   `json:"user"`
}

// ProjectListItemDTO is a project with the caller's role attached
type ProjectListItemDTO struct {
	Project ProjectDTO `json:"project"`
	Role    string     `json:"role"`
}

// ProjectDetailDTO is a project with its member list
type ProjectDetailDTO struct {
	Project ProjectDTO         `json:"project"`
	Members []ProjectMemberDTO `json:"members"`
}

// ToProjectDTO converts a Project model to ProjectDTO. The invite code
// is only included when withCode is true (managers only).
func ToProjectDTO(project models.Project, withCode bool) ProjectDTO {
	out := ProjectDTO{
		ID:        project.ID,
		Title:     project.Title,
		SheetURL:  project.SheetURL,
		IsActive:  project.IsActive,
		CreatedAt: project.CreatedAt,
	}
	if withCode {
		out.InviteCode = project.InviteCode
	}
	return out
}

// ToMembershipDTO converts a ProjectMember model to MembershipDTO
func ToMembershipDTO(member models.ProjectMember) MembershipDTO {
	return MembershipDTO{
		ID:              member.ID,
		ProjectID:       member.ProjectID,
		Role:            string(member.Role),
		CanEditPlan:     member.CanEditPlan,
		CanSubmitReport: member.CanSubmitReport,
		IsActive:        member.IsActive,
		JoinedAt:        member.JoinedAt,
		LeftAt:          member.LeftAt,
	}
}

// ToProjectMemberDTO converts a ProjectMember with its User preloaded
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		MembershipID: member.ID,
		Role:         string(member.Role),
		JoinedAt:     member.JoinedAt,
		User:         ToUserDTO(member.User),
	}
}

// ToProjectListItemDTOs converts the caller's memberships to list items
func ToProjectListItemDTOs(memberships []models.ProjectMember) []ProjectListItemDTO {
	items := make([]ProjectListItemDTO, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, ProjectListItemDTO{
			Project: ToProjectDTO(m.Project, m.Role == models.RoleManager),
			Role:    string(m.Role),
		})
	}
	return items
}
