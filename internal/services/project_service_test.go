package services

import (
	"testing"

	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/repository"
	"github.com/hamgam/worklog-api/internal/worklog"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectServiceTestSuite defines the test suite for ProjectService
type ProjectServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ProjectService
	codes   []string
}

// SetupTest runs before each test
func (suite *ProjectServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.DailyPlan{},
		&models.DailyAchievement{},
		&models.DailyScheduleBlock{},
		&models.DailyReport{},
		&models.ReportEntry{},
		&models.ReportExtraAction{},
		&models.ReportAchievement{},
	)
	suite.Require().NoError(err)

	suite.codes = []string{"1111-1111-1111", "2222-2222-2222"}
	suite.service = NewProjectService(repository.NewProjectRepository(suite.db), func() (string, error) {
		code := suite.codes[0]
		if len(suite.codes) > 1 {
			suite.codes = suite.codes[1:]
		}
		return code, nil
	})
}

// TearDownTest runs after each test
func (suite *ProjectServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectServiceTestSuite) createUser(username string) *models.User {
	user := &models.User{Username: username, PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ProjectServiceTestSuite) TestCreateProject_OwnerBecomesManager() {
	owner := suite.createUser("owner")

	project, err := suite.service.CreateProject(CreateProjectInput{
		Title:   "  Sprint board  ",
		OwnerID: owner.ID,
	})
	suite.Require().NoError(err)
	suite.Equal("Sprint board", project.Title)
	suite.Equal("1111-1111-1111", project.InviteCode)

	member, err := suite.service.GetMembership(project.ID, owner.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleManager, member.Role)
	suite.True(member.IsActive)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_EmptyTitle() {
	owner := suite.createUser("owner")

	_, err := suite.service.CreateProject(CreateProjectInput{Title: "   ", OwnerID: owner.ID})
	suite.ErrorIs(err, ErrInvalidProjectTitle)
}

func (suite *ProjectServiceTestSuite) TestJoinProjectByInvite() {
	owner := suite.createUser("owner")
	joiner := suite.createUser("joiner")

	project, err := suite.service.CreateProject(CreateProjectInput{Title: "Sprint", OwnerID: owner.ID})
	suite.Require().NoError(err)

	joined, err := suite.service.JoinProjectByInvite(joiner.ID, project.InviteCode)
	suite.Require().NoError(err)
	suite.Equal(project.ID, joined.ID)

	member, err := suite.service.GetMembership(project.ID, joiner.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleMember, member.Role)

	// Rejoining is a conflict, not a second membership.
	_, err = suite.service.JoinProjectByInvite(joiner.ID, project.InviteCode)
	suite.ErrorIs(err, ErrAlreadyProjectMember)
}

func (suite *ProjectServiceTestSuite) TestJoinProjectByInvite_BadCode() {
	joiner := suite.createUser("joiner")

	_, err := suite.service.JoinProjectByInvite(joiner.ID, "XXXX-XXXX-XXXX")
	suite.ErrorIs(err, ErrInvalidInviteCode)
}

func (suite *ProjectServiceTestSuite) TestRegenerateInviteCode() {
	owner := suite.createUser("owner")

	project, err := suite.service.CreateProject(CreateProjectInput{Title: "Sprint", OwnerID: owner.ID})
	suite.Require().NoError(err)
	old := project.InviteCode

	updated, err := suite.service.RegenerateInviteCode(project.ID)
	suite.Require().NoError(err)
	suite.NotEqual(old, updated.InviteCode)

	// The old code no longer admits anyone.
	joiner := suite.createUser("joiner")
	_, err = suite.service.JoinProjectByInvite(joiner.ID, old)
	suite.ErrorIs(err, ErrInvalidInviteCode)
}

func (suite *ProjectServiceTestSuite) TestRemoveMember_NoWorkIsDeleted() {
	owner := suite.createUser("owner")
	target := suite.createUser("target")

	project, err := suite.service.CreateProject(CreateProjectInput{Title: "Sprint", OwnerID: owner.ID})
	suite.Require().NoError(err)
	_, err = suite.service.JoinProjectByInvite(target.ID, project.InviteCode)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.RemoveMember(project.ID, owner.ID, target.ID))

	_, err = suite.service.GetMembership(project.ID, target.ID)
	suite.ErrorIs(err, ErrMemberNotFound)
}

// A member who already logged work keeps the membership row so the plans
// and reports keep their owner; the row is only deactivated.
func (suite *ProjectServiceTestSuite) TestRemoveMember_WithWorkIsDeactivated() {
	owner := suite.createUser("owner")
	target := suite.createUser("target")

	project, err := suite.service.CreateProject(CreateProjectInput{Title: "Sprint", OwnerID: owner.ID})
	suite.Require().NoError(err)
	_, err = suite.service.JoinProjectByInvite(target.ID, project.InviteCode)
	suite.Require().NoError(err)

	member, err := suite.service.GetMembership(project.ID, target.ID)
	suite.Require().NoError(err)

	planService := NewPlanService(repository.NewPlanRepository(suite.db))
	tomorrow, err := worklog.AddDays(worklog.Today(), 1)
	suite.Require().NoError(err)
	_, err = planService.GetOrCreatePlan(member, tomorrow)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.RemoveMember(project.ID, owner.ID, target.ID))

	var row models.ProjectMember
	suite.Require().NoError(suite.db.First(&row, member.ID).Error)
	suite.False(row.IsActive)
	suite.NotNil(row.LeftAt)

	var plans int64
	suite.db.Model(&models.DailyPlan{}).Count(&plans)
	suite.EqualValues(1, plans)
}

func (suite *ProjectServiceTestSuite) TestRemoveMember_Self() {
	owner := suite.createUser("owner")

	project, err := suite.service.CreateProject(CreateProjectInput{Title: "Sprint", OwnerID: owner.ID})
	suite.Require().NoError(err)

	err = suite.service.RemoveMember(project.ID, owner.ID, owner.ID)
	suite.ErrorIs(err, ErrCannotRemoveYourself)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
