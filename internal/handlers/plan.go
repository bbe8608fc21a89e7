package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hamgam/worklog-api/internal/dto"
	apierrors "github.com/hamgam/worklog-api/internal/errors"
	"github.com/hamgam/worklog-api/internal/middleware"
	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/services"
	"github.com/hamgam/worklog-api/internal/worklog"
)

// PlanHandler coordinates daily plan HTTP handlers.
type PlanHandler struct {
	planService    *services.PlanService
	projectService *services.ProjectService
	statusService  *services.StatusService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService *services.PlanService, projectService *services.ProjectService, statusService *services.StatusService) *PlanHandler {
	return &PlanHandler{
		planService:    planService,
		projectService: projectService,
		statusService:  statusService,
	}
}

// BlockRequest is one schedule block in the plan wizard payload.
type BlockRequest struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	TaskTitle   string `json:"task_title"`
	Description string `json:"description"`
}

// CreatePlan runs the plan wizard: the whole payload is validated, then the
// plan, its achievements, and its blocks are persisted atomically.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	type CreatePlanRequest struct {
		ProjectID      uint64         `json:"project_id" binding:"required"`
		Date           string         `json:"date" binding:"required"`
		Achievements   []string       `json:"achievements"`
		RequiredBlocks []BlockRequest `json:"required_blocks"`
		ExtraBlocks    []BlockRequest `json:"extra_blocks"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.GetMembership(req.ProjectID, userID)
	if err != nil {
		// Non-members get the same answer as a missing project.
		apierrors.NotFound(c, "Project not found")
		return
	}

	plan, err := h.planService.CreatePlanWithSchedule(
		member,
		req.Date,
		req.Achievements,
		toBlockInputs(req.RequiredBlocks),
		toBlockInputs(req.ExtraBlocks),
	)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPlanDTO(*plan))
}

// ListPlans lists the caller's plans across all projects, newest first,
// each annotated with its derived day status.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var projectID uint64
	if raw := c.Query("project_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			return
		}
		projectID = parsed
	}

	days, err := h.statusService.PlanDays(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	items := make([]dto.PlanListItemDTO, 0, len(days))
	for _, day := range days {
		if projectID != 0 && day.Plan.ProjectMember.ProjectID != projectID {
			continue
		}
		var reportID *uint64
		if day.Report != nil {
			reportID = &day.Report.ID
		}
		items = append(items, dto.ToPlanListItemDTO(day.Plan, day.Status, reportID))
	}

	c.JSON(http.StatusOK, gin.H{
		"today": worklog.Today(),
		"plans": items,
	})
}

// GetPlan returns one plan with its schedule and derived status.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan := c.MustGet("plan").(models.DailyPlan)

	status, err := h.statusService.DailyStatus(plan.ProjectMemberID, plan.Date)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":   dto.ToPlanDTO(plan),
		"status": string(status),
	})
}

// UpdatePlan renames schedule blocks on an unlocked plan.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	type BlockTitleRequest struct {
		BlockID   uint64 `json:"block_id" binding:"required"`
		TaskTitle string `json:"task_title" binding:"required"`
	}
	type UpdatePlanRequest struct {
		BlockTitles []BlockTitleRequest `json:"block_titles" binding:"required"`
	}

	plan := c.MustGet("plan").(models.DailyPlan)

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	titles := make(map[uint64]string, len(req.BlockTitles))
	for _, t := range req.BlockTitles {
		titles[t.BlockID] = t.TaskTitle
	}

	if err := h.planService.RenameScheduleBlocks(&plan, titles); err != nil {
		respondPlanError(c, err)
		return
	}

	updated, err := h.planService.GetPlan(plan.ID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanDTO(*updated))
}

// DeletePlan removes a future plan together with its schedule.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	plan := c.MustGet("plan").(models.DailyPlan)

	if err := h.planService.DeletePlan(&plan); err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Plan deleted successfully",
	})
}

func toBlockInputs(reqs []BlockRequest) []services.BlockInput {
	inputs := make([]services.BlockInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, services.BlockInput{
			Start:       r.StartTime,
			End:         r.EndTime,
			Title:       r.TaskTitle,
			Description: r.Description,
		})
	}
	return inputs
}

func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPlanDate):
		apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
	case errors.Is(err, services.ErrInvalidBlockTime),
		errors.Is(err, services.ErrInvalidTimeRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDuplicatePlan):
		apierrors.DuplicatePlan(c, err.Error())
	case errors.Is(err, services.ErrPlanLocked):
		apierrors.PlanLocked(c, err.Error())
	case errors.Is(err, services.ErrPlanNotDeletable):
		apierrors.ForbiddenOperation(c, err.Error())
	case errors.Is(err, services.ErrPlanNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
