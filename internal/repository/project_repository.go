package repository

import (
	"time"

	"github.com/hamgam/worklog-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByInviteCode finds an active project by invite code
func (r *GormProjectRepository) FindByInviteCode(code string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("invite_code = ? AND is_active = ?", code, true).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// AddMember adds a membership row
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// FindMember finds the active membership of a user in a project
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ? AND is_active = ?", projectID, userID, true).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ReactivateMember revives a deactivated membership, if one exists
func (r *GormProjectRepository) ReactivateMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ? AND is_active = ?", projectID, userID, false).
		First(&member).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&member).
		Updates(map[string]interface{}{"is_active": true, "left_at": nil}).Error; err != nil {
		return nil, err
	}
	member.IsActive = true
	member.LeftAt = nil
	return &member, nil
}

// ListMembershipsByUser lists a user's active memberships in active projects
func (r *GormProjectRepository) ListMembershipsByUser(userID uint64) ([]models.ProjectMember, error) {
	var memberships []models.ProjectMember
	if err := r.db.Preload("Project").
		Joins("JOIN projects ON projects.id = project_members.project_id").
		Where("project_members.user_id = ? AND project_members.is_active = ? AND projects.is_active = ?",
			userID, true, true).
		Order("project_members.joined_at DESC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all active members of a project
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ? AND is_active = ?", projectID, true).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountMemberWork counts plans plus reports owned by a membership. A
// membership with work rows must never be hard-deleted.
func (r *GormProjectRepository) CountMemberWork(memberID uint64) (int64, error) {
	var plans, reports int64
	if err := r.db.Model(&models.DailyPlan{}).
		Where("project_member_id = ?", memberID).Count(&plans).Error; err != nil {
		return 0, err
	}
	if err := r.db.Model(&models.DailyReport{}).
		Where("project_member_id = ?", memberID).Count(&reports).Error; err != nil {
		return 0, err
	}
	return plans + reports, nil
}

// DeleteMember hard-deletes a membership row
func (r *GormProjectRepository) DeleteMember(memberID uint64) error {
	return r.db.Delete(&models.ProjectMember{}, memberID).Error
}

// DeactivateMember marks a membership inactive and stamps left_at
func (r *GormProjectRepository) DeactivateMember(member *models.ProjectMember) error {
	now := time.Now()
	member.IsActive = false
	member.LeftAt = &now
	return r.db.Model(member).
		Select("is_active", "left_at").
		Updates(map[string]interface{}{"is_active": false, "left_at": now}).Error
}
