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

// ReportHandlerTestSuite defines the test suite for ReportHandler
type ReportHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *ReportHandler
	planService *services.PlanService
	user        *models.User
	member      *models.ProjectMember
}

// SetupTest runs before each test
func (suite *ReportHandlerTestSuite) SetupTest() {
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

	project := &models.Project{Title: "Sprint", InviteCode: "AAAA-BBBB-CCCC", IsActive: true}
	suite.Require().NoError(suite.db.Create(project).Error)

	suite.member = &models.ProjectMember{
		ProjectID:       project.ID,
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

	suite.planService = services.NewPlanService(planRepo)
	reportService := services.NewReportService(reportRepo, planRepo, projectRepo)

	suite.handler = NewReportHandler(reportService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ReportHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ReportHandlerTestSuite) createContext(method, url string, body []byte, plan *models.DailyPlan) (*gin.Context, *httptest.ResponseRecorder) {
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
	c.Set("user_id", suite.user.ID)
	if plan != nil {
		c.Set("plan", *plan)
		c.Set("membership", *suite.member)
	}

	return c, w
}

func (suite *ReportHandlerTestSuite) createPlan(date string) *models.DailyPlan {
	plan, err := suite.planService.CreatePlanWithSchedule(
		suite.member,
		date,
		[]string{"Finish the draft"},
		[]services.BlockInput{
			{Start: "09:00", End: "10:00", Title: "Writing"},
			{Start: "10:30", End: "12:00", Title: "Editing"},
		},
		nil,
	)
	suite.Require().NoError(err)
	return plan
}

// Opening today's report creates it and fills the entries from the plan.
func (suite *ReportHandlerTestSuite) TestGetReport_CreatesAndSyncs() {
	plan := suite.createPlan(worklog.Today())

	c, w := suite.createContext("GET", "/api/plans/1/report", nil, plan)
	suite.handler.GetReport(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response["entries"], 2)
	assert.Len(suite.T(), response["achievements"], 1)
	assert.Equal(suite.T(), worklog.Today(), response["date"])

	var count int64
	suite.db.Model(&models.DailyReport{}).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
}

// Requesting it twice returns the same report, never a second row.
func (suite *ReportHandlerTestSuite) TestGetReport_Idempotent() {
	plan := suite.createPlan(worklog.Today())

	c, w := suite.createContext("GET", "/api/plans/1/report", nil, plan)
	suite.handler.GetReport(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	c, w = suite.createContext("GET", "/api/plans/1/report", nil, plan)
	suite.handler.GetReport(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.DailyReport{}).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
	suite.db.Model(&models.ReportEntry{}).Count(&count)
	assert.EqualValues(suite.T(), 2, count)
}

// A future plan has no report to open yet.
func (suite *ReportHandlerTestSuite) TestGetReport_FuturePlan() {
	tomorrow, err := worklog.AddDays(worklog.Today(), 1)
	suite.Require().NoError(err)
	plan := suite.createPlan(tomorrow)

	c, w := suite.createContext("GET", "/api/plans/1/report", nil, plan)
	suite.handler.GetReport(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *ReportHandlerTestSuite) TestSubmitReport() {
	plan := suite.createPlan(worklog.Today())

	// Open the report first so entries exist to update.
	c, w := suite.createContext("GET", "/api/plans/1/report", nil, plan)
	suite.handler.GetReport(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var opened map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &opened))
	entries := opened["entries"].([]interface{})
	firstEntryID := uint64(entries[0].(map[string]interface{})["id"].(float64))
	achievementID := uint64(opened["achievements"].([]interface{})[0].(map[string]interface{})["achievement_id"].(float64))

	body, err := json.Marshal(gin.H{
		"entries": []gin.H{
			{"entry_id": firstEntryID, "status": int(models.StatusDone), "note": "all good"},
		},
		"achieved_ids": []uint64{achievementID},
		"extra_actions": []gin.H{
			{"title": "Helped onboarding", "start_time": "16:00", "end_time": "16:30"},
		},
	})
	suite.Require().NoError(err)

	c, w = suite.createContext("POST", "/api/plans/1/report", body, plan)
	suite.handler.SubmitReport(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))

	respEntries := response["entries"].([]interface{})
	first := respEntries[0].(map[string]interface{})
	assert.EqualValues(suite.T(), int(models.StatusDone), first["status"])
	assert.Equal(suite.T(), "all good", first["note"])

	achieved := response["achievements"].([]interface{})[0].(map[string]interface{})
	assert.Equal(suite.T(), true, achieved["achieved"])

	assert.Len(suite.T(), response["extra_actions"], 1)
}

// Submitting against another day's plan fails with a wrong-date error.
func (suite *ReportHandlerTestSuite) TestSubmitReport_WrongDate() {
	tomorrow, err := worklog.AddDays(worklog.Today(), 1)
	suite.Require().NoError(err)
	plan := suite.createPlan(tomorrow)

	body, err := json.Marshal(gin.H{"entries": []gin.H{}})
	suite.Require().NoError(err)

	c, w := suite.createContext("POST", "/api/plans/1/report", body, plan)
	suite.handler.SubmitReport(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "WRONG_DATE", response["code"])
}

func (suite *ReportHandlerTestSuite) TestListReports() {
	plan := suite.createPlan(worklog.Today())

	c, w := suite.createContext("GET", "/api/plans/1/report", nil, plan)
	suite.handler.GetReport(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	c, w = suite.createContext("GET", "/api/reports", nil, nil)
	suite.handler.ListReports(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	reports := response["reports"].([]interface{})
	suite.Require().Len(reports, 1)

	row := reports[0].(map[string]interface{})
	assert.Equal(suite.T(), worklog.Today(), row["date"])
	assert.Equal(suite.T(), true, row["is_today"])
	assert.Equal(suite.T(), "Sprint", row["project_title"])

	pagination := response["pagination"].(map[string]interface{})
	assert.EqualValues(suite.T(), 1, pagination["total"])
}

func TestReportHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReportHandlerTestSuite))
}
