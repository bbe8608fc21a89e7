package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hamgam/worklog-api/internal/database"
	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/repository"
	"github.com/hamgam/worklog-api/internal/services"
	"github.com/hamgam/worklog-api/internal/worklog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// PlanHandlerTestSuite defines the test suite for PlanHandler
type PlanHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *PlanHandler
	user    *models.User
	project *models.Project
	member  *models.ProjectMember
}

// SetupTest runs before each test
func (suite *PlanHandlerTestSuite) SetupTest() {
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

	database.SetDB(suite.db)

	suite.user = &models.User{Username: "worker", PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)

	suite.project = &models.Project{Title: "Sprint", InviteCode: "AAAA-BBBB-CCCC", IsActive: true}
	suite.Require().NoError(suite.db.Create(suite.project).Error)

	suite.member = &models.ProjectMember{
		ProjectID:       suite.project.ID,
		UserID:          suite.user.ID,
		Role:            models.RoleMember,
		CanEditPlan:     true,
		CanSubmitReport: true,
		IsActive:        true,
		JoinedAt:        time.Now(),
	}
	suite.Require().NoError(suite.db.Create(suite.member).Error)

	projectRepo := repository.NewProjectRepository(suite.db)
	planRepo := repository.NewPlanRepository(suite.db)
	reportRepo := repository.NewReportRepository(suite.db)

	planService := services.NewPlanService(planRepo)
	projectService := services.NewProjectService(projectRepo, func() (string, error) {
		return "TEST-TEST-TEST", nil
	})
	statusService := services.NewStatusService(projectRepo, planRepo, reportRepo)

	suite.handler = NewPlanHandler(planService, projectService, statusService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *PlanHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// createAuthContext builds a request context as RequireAuth would leave it
func (suite *PlanHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

// setPlanContext simulates RequirePlanAccess
func (suite *PlanHandlerTestSuite) setPlanContext(c *gin.Context, plan models.DailyPlan) {
	c.Set("plan", plan)
	c.Set("membership", *suite.member)
}

func (suite *PlanHandlerTestSuite) tomorrow() string {
	d, err := worklog.AddDays(worklog.Today(), 1)
	suite.Require().NoError(err)
	return d
}

func (suite *PlanHandlerTestSuite) wizardPayload(date string) []byte {
	body, err := json.Marshal(gin.H{
		"project_id":   suite.project.ID,
		"date":         date,
		"achievements": []string{"Ship it"},
		"required_blocks": []gin.H{
			{"start_time": "09:00", "end_time": "10:00", "task_title": "Deep work"},
		},
		"extra_blocks": []gin.H{
			{"start_time": "14:00", "end_time": "15:00", "task_title": "Reading"},
		},
	})
	suite.Require().NoError(err)
	return body
}

func (suite *PlanHandlerTestSuite) TestCreatePlan_Success() {
	c, w := suite.createAuthContext("POST", "/api/plans", suite.wizardPayload(suite.tomorrow()), suite.user.ID)

	suite.handler.CreatePlan(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), suite.tomorrow(), response["date"])
	assert.Len(suite.T(), response["schedule_blocks"], 2)
	assert.Len(suite.T(), response["achievements"], 1)
	assert.NotEmpty(suite.T(), response["jalali_date"])
}

func (suite *PlanHandlerTestSuite) TestCreatePlan_Duplicate() {
	c, w := suite.createAuthContext("POST", "/api/plans", suite.wizardPayload(suite.tomorrow()), suite.user.ID)
	suite.handler.CreatePlan(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	c, w = suite.createAuthContext("POST", "/api/plans", suite.wizardPayload(suite.tomorrow()), suite.user.ID)
	suite.handler.CreatePlan(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "DUPLICATE_PLAN", response["code"])
}

func (suite *PlanHandlerTestSuite) TestCreatePlan_NotAMember() {
	other := &models.User{Username: "outsider", PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(other).Error)

	c, w := suite.createAuthContext("POST", "/api/plans", suite.wizardPayload(suite.tomorrow()), other.ID)
	suite.handler.CreatePlan(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *PlanHandlerTestSuite) TestCreatePlan_BackwardsBlock() {
	body, err := json.Marshal(gin.H{
		"project_id": suite.project.ID,
		"date":       suite.tomorrow(),
		"required_blocks": []gin.H{
			{"start_time": "12:00", "end_time": "11:00", "task_title": "Backwards"},
		},
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("POST", "/api/plans", body, suite.user.ID)
	suite.handler.CreatePlan(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *PlanHandlerTestSuite) TestListPlans() {
	c, w := suite.createAuthContext("POST", "/api/plans", suite.wizardPayload(suite.tomorrow()), suite.user.ID)
	suite.handler.CreatePlan(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	c, w = suite.createAuthContext("GET", "/api/plans", nil, suite.user.ID)
	suite.handler.ListPlans(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	plans := response["plans"].([]interface{})
	suite.Require().Len(plans, 1)

	row := plans[0].(map[string]interface{})
	assert.Equal(suite.T(), "planned", row["status"])
	assert.Equal(suite.T(), true, row["is_future"])
	assert.Equal(suite.T(), "Sprint", row["project_title"])
}

func (suite *PlanHandlerTestSuite) TestUpdatePlan_RenamesBlock() {
	c, w := suite.createAuthContext("POST", "/api/plans", suite.wizardPayload(suite.tomorrow()), suite.user.ID)
	suite.handler.CreatePlan(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var plan models.DailyPlan
	suite.Require().NoError(suite.db.Preload("ScheduleBlocks").First(&plan).Error)
	blockID := plan.ScheduleBlocks[0].ID

	body, err := json.Marshal(gin.H{
		"block_titles": []gin.H{
			{"block_id": blockID, "task_title": "Renamed"},
		},
	})
	suite.Require().NoError(err)

	c, w = suite.createAuthContext("PATCH", "/api/plans/1", body, suite.user.ID)
	suite.setPlanContext(c, plan)
	suite.handler.UpdatePlan(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var block models.DailyScheduleBlock
	suite.Require().NoError(suite.db.First(&block, blockID).Error)
	assert.Equal(suite.T(), "Renamed", block.TaskTitle)
}

func (suite *PlanHandlerTestSuite) TestDeletePlan_Future() {
	c, w := suite.createAuthContext("POST", "/api/plans", suite.wizardPayload(suite.tomorrow()), suite.user.ID)
	suite.handler.CreatePlan(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var plan models.DailyPlan
	suite.Require().NoError(suite.db.First(&plan).Error)

	c, w = suite.createAuthContext("DELETE", "/api/plans/1", nil, suite.user.ID)
	suite.setPlanContext(c, plan)
	suite.handler.DeletePlan(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.DailyPlan{}).Count(&count)
	assert.EqualValues(suite.T(), 0, count)
}

func (suite *PlanHandlerTestSuite) TestDeletePlan_TodayForbidden() {
	c, w := suite.createAuthContext("POST", "/api/plans", suite.wizardPayload(worklog.Today()), suite.user.ID)
	suite.handler.CreatePlan(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var plan models.DailyPlan
	suite.Require().NoError(suite.db.First(&plan).Error)

	c, w = suite.createAuthContext("DELETE", "/api/plans/1", nil, suite.user.ID)
	suite.setPlanContext(c, plan)
	suite.handler.DeletePlan(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "FORBIDDEN_OPERATION", response["code"])
}

func TestPlanHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PlanHandlerTestSuite))
}
