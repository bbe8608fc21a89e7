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

// ProjectHandler coordinates project-related HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	statusService  *services.StatusService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, statusService *services.StatusService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		statusService:  statusService,
	}
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Title    string `json:"title" binding:"required,min=1,max=255"`
		SheetURL string `json:"sheet_url" binding:"omitempty,url,max=500"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Title:    req.Title,
		SheetURL: req.SheetURL,
		OwnerID:  userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project, true))
}

// ListProjects lists the caller's projects with their role in each.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.projectService.ListMembershipsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": dto.ToProjectListItemDTOs(memberships),
	})
}

// JoinProject enrolls the caller into a project via invite code.
func (h *ProjectHandler) JoinProject(c *gin.Context) {
	type JoinProjectRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req JoinProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.JoinProjectByInvite(userID, req.InviteCode)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project, false))
}

// GetProject returns the project with its member list. The invite code is
// included for managers only.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project := c.MustGet("project").(models.Project)
	membership := c.MustGet("membership").(models.ProjectMember)

	_, members, err := h.projectService.GetProjectWithMembers(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	memberDTOs := make([]dto.ProjectMemberDTO, 0, len(members))
	for _, m := range members {
		memberDTOs = append(memberDTOs, dto.ToProjectMemberDTO(m))
	}

	c.JSON(http.StatusOK, dto.ProjectDetailDTO{
		Project: dto.ToProjectDTO(project, membership.Role == models.RoleManager),
		Members: memberDTOs,
	})
}

// RegenerateInviteCode replaces the project's invite code. Manager only.
func (h *ProjectHandler) RegenerateInviteCode(c *gin.Context) {
	project := c.MustGet("project").(models.Project)

	updated, err := h.projectService.RegenerateInviteCode(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated, true))
}

// RemoveMember removes a member from the project. Manager only.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	project := c.MustGet("project").(models.Project)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.projectService.RemoveMember(project.ID, userID, targetID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// GetOverview returns per-member day statuses for one date. Manager only.
// The date defaults to today when the query parameter is absent.
func (h *ProjectHandler) GetOverview(c *gin.Context) {
	project := c.MustGet("project").(models.Project)

	date := worklog.Today()
	if q := c.Query("date"); q != "" {
		normalized, err := worklog.NormalizeDate(q)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = normalized
	}

	overview, err := h.statusService.ProjectOverview(project.ID, date)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPlanDate) {
			apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	rows := make([]gin.H, 0, len(overview.Rows))
	for _, row := range overview.Rows {
		rows = append(rows, gin.H{
			"membership_id": row.Member.ID,
			"user":          dto.ToUserDTO(row.Member.User),
			"role":          string(row.Member.Role),
			"status":        string(row.Status),
			"plan_id":       row.PlanID,
			"report_id":     row.ReportID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        overview.Date,
		"jalali_date": worklog.Jalali(overview.Date).Full(),
		"rows":        rows,
		"counts":      overview.Counts,
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidProjectTitle):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyProjectMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.ForbiddenOperation(c, err.Error())
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
