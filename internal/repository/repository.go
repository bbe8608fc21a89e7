package repository

import (
	"errors"
	"strings"

	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/utils"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindByInviteCode finds an active project by invite code
	FindByInviteCode(code string) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// AddMember adds a membership row
	AddMember(member *models.ProjectMember) error

	// FindMember finds the active membership of a user in a project
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ReactivateMember revives a deactivated membership, if one exists
	ReactivateMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembershipsByUser lists a user's active memberships in active projects
	ListMembershipsByUser(userID uint64) ([]models.ProjectMember, error)

	// ListMembers lists all active members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// CountMemberWork counts plans plus reports owned by a membership
	CountMemberWork(memberID uint64) (int64, error)

	// DeleteMember hard-deletes a membership row
	DeleteMember(memberID uint64) error

	// DeactivateMember marks a membership inactive and stamps left_at
	DeactivateMember(member *models.ProjectMember) error
}

// PlanRepository defines the interface for daily plan data access
type PlanRepository interface {
	// GetOrCreate inserts the plan unless one already exists for the
	// member and date, then returns the persisted row either way.
	GetOrCreate(plan *models.DailyPlan) (*models.DailyPlan, error)

	// CreateWithSchedule creates a plan with its achievements and schedule
	// blocks in a single transaction.
	CreateWithSchedule(plan *models.DailyPlan, achievements []models.DailyAchievement, blocks []models.DailyScheduleBlock) error

	// FindByID finds a plan by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.DailyPlan, error)

	// FindByMemberAndDate finds the plan for one member and date
	FindByMemberAndDate(memberID uint64, date string) (*models.DailyPlan, error)

	// ListByUser lists plans across a user's active memberships, newest first
	ListByUser(userID uint64) ([]models.DailyPlan, error)

	// ListByMembersAndDate lists plans for a set of members on one date
	ListByMembersAndDate(memberIDs []uint64, date string) ([]models.DailyPlan, error)

	// UpdateBlockTitles renames schedule blocks belonging to the plan
	UpdateBlockTitles(planID uint64, titles map[uint64]string) error

	// Delete removes a plan with its achievements and blocks
	Delete(planID uint64) error
}

// ReportRepository defines the interface for daily report data access
type ReportRepository interface {
	// GetOrCreate inserts the report unless one already exists for the
	// member and date, then returns the persisted row either way.
	GetOrCreate(report *models.DailyReport) (*models.DailyReport, error)

	// FindByID finds a report by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.DailyReport, error)

	// FindByPlan finds the report linked to a plan
	FindByPlan(planID uint64) (*models.DailyReport, error)

	// FindByMemberAndDate finds the report for one member and date
	FindByMemberAndDate(memberID uint64, date string) (*models.DailyReport, error)

	// ListByMembers lists reports across a set of memberships
	ListByMembers(memberIDs []uint64) ([]models.DailyReport, error)

	// ListByMembersPaged lists one page of reports across a set of
	// memberships with the total row count
	ListByMembersPaged(memberIDs []uint64, params utils.PaginationParams) ([]models.DailyReport, int64, error)

	// ListByMembersAndDate lists reports for a set of members on one date
	ListByMembersAndDate(memberIDs []uint64, date string) ([]models.DailyReport, error)

	// SyncEntries creates missing entries for the given blocks, leaving
	// existing entries untouched
	SyncEntries(reportID uint64, blockIDs []uint64) error

	// SyncAchievementStates creates missing achievement states, leaving
	// existing rows untouched
	SyncAchievementStates(reportID uint64, achievementIDs []uint64) error

	// ListEntries lists a report's entries ordered by block start time
	ListEntries(reportID uint64) ([]models.ReportEntry, error)

	// ListAchievementStates lists a report's achievement states in plan order
	ListAchievementStates(reportID uint64) ([]models.ReportAchievement, error)

	// Submit applies entry updates, achievement flags, and the replacement
	// extra-action set in one transaction
	Submit(reportID uint64, entries []models.ReportEntry, achievedIDs []uint64, extras []models.ReportExtraAction) error
}

// IsUniqueViolation reports whether err is a unique-constraint failure on
// insert, across the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
