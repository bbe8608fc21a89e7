package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound            = errors.New("project not found")
	ErrInvalidProjectTitle        = errors.New("project title cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyProjectMember       = errors.New("user is already a member of this project")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the project")
	ErrMemberNotFound             = errors.New("project member not found")
)

// inviteCodeFunc lets tests stub code generation.
type inviteCodeFunc func() (string, error)

// ProjectService provides business logic for projects and memberships.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	genCode     inviteCodeFunc
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, genCode inviteCodeFunc) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		genCode:     genCode,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Title    string
	SheetURL string
	OwnerID  uint64
}

// CreateProject creates a project and enrolls the creator as its manager.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidProjectTitle
	}

	code, err := s.genCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	project := &models.Project{
		Title:      strings.TrimSpace(input.Title),
		SheetURL:   strings.TrimSpace(input.SheetURL),
		InviteCode: code,
		IsActive:   true,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID:       project.ID,
		UserID:          input.OwnerID,
		Role:            models.RoleManager,
		CanEditPlan:     true,
		CanSubmitReport: true,
		IsActive:        true,
		JoinedAt:        time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add manager to project: %w", err)
	}

	return project, nil
}

// GetMembership returns the user's active membership in a project.
func (s *ProjectService) GetMembership(projectID, userID uint64) (*models.ProjectMember, error) {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find project member: %w", err)
	}
	return member, nil
}

// ListMembershipsForUser returns the user's active memberships.
func (s *ProjectService) ListMembershipsForUser(userID uint64) ([]models.ProjectMember, error) {
	memberships, err := s.projectRepo.ListMembershipsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

// GetProjectWithMembers returns a project and its active members.
func (s *ProjectService) GetProjectWithMembers(projectID uint64) (*models.Project, []models.ProjectMember, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list project members: %w", err)
	}

	return project, members, nil
}

// JoinProjectByInvite adds a user to a project via invite code.
func (s *ProjectService) JoinProjectByInvite(userID uint64, inviteCode string) (*models.Project, error) {
	project, err := s.projectRepo.FindByInviteCode(strings.TrimSpace(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find project by invite code: %w", err)
	}

	if _, err := s.projectRepo.FindMember(project.ID, userID); err == nil {
		return nil, ErrAlreadyProjectMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID:       project.ID,
		UserID:          userID,
		Role:            models.RoleMember,
		CanEditPlan:     true,
		CanSubmitReport: true,
		IsActive:        true,
		JoinedAt:        time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		// A former member still owns the old row; revive it instead.
		if repository.IsUniqueViolation(err) {
			if _, err := s.projectRepo.ReactivateMember(project.ID, userID); err != nil {
				return nil, fmt.Errorf("failed to rejoin project: %w", err)
			}
			return project, nil
		}
		return nil, fmt.Errorf("failed to add member to project: %w", err)
	}

	return project, nil
}

// RegenerateInviteCode replaces the project's invite code.
func (s *ProjectService) RegenerateInviteCode(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	code, err := s.genCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	project.InviteCode = code
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return project, nil
}

// RemoveMember takes a member out of the project. Memberships that own
// plans or reports are deactivated rather than deleted, so the work rows
// keep a valid owner.
func (s *ProjectService) RemoveMember(projectID, actorID, targetUserID uint64) error {
	if targetUserID == actorID {
		return ErrCannotRemoveYourself
	}

	member, err := s.projectRepo.FindMember(projectID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find project member: %w", err)
	}

	work, err := s.projectRepo.CountMemberWork(member.ID)
	if err != nil {
		return fmt.Errorf("failed to count member work: %w", err)
	}

	if work > 0 {
		if err := s.projectRepo.DeactivateMember(member); err != nil {
			return fmt.Errorf("failed to deactivate member: %w", err)
		}
		return nil
	}

	if err := s.projectRepo.DeleteMember(member.ID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
