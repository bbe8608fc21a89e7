package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hamgam/worklog-api/internal/dto"
	apierrors "github.com/hamgam/worklog-api/internal/errors"
	"github.com/hamgam/worklog-api/internal/middleware"
	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/services"
	"github.com/hamgam/worklog-api/internal/utils"
	"github.com/hamgam/worklog-api/internal/worklog"
)

// ReportHandler coordinates daily report HTTP handlers.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetReport returns the report for a plan. On the plan's own day the
// report is created on first access and its entries are synced from the
// plan's current blocks; on any other day only an existing report is
// returned, read-only.
func (h *ReportHandler) GetReport(c *gin.Context) {
	plan := c.MustGet("plan").(models.DailyPlan)
	membership := c.MustGet("membership").(models.ProjectMember)

	var report *models.DailyReport
	var err error
	if plan.Date == worklog.Today() {
		report, err = h.reportService.GetOrCreateTodayReport(&membership, &plan)
		if err == nil {
			err = h.reportService.SyncFromPlan(report)
		}
	} else {
		report, err = h.reportService.GetReportForPlan(&plan)
	}
	if err != nil {
		respondReportError(c, err)
		return
	}

	entries, states, extras, err := h.reportService.LoadDetail(report)
	if err != nil {
		respondReportError(c, err)
		return
	}

	report.ExtraActions = extras
	c.JSON(http.StatusOK, dto.ToReportDTO(*report, entries, states))
}

// SubmitReport records block outcomes, achievement flags, and extra
// actions for today's report.
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	type EntryRequest struct {
		EntryID uint64              `json:"entry_id" binding:"required"`
		Status  models.ReportStatus `json:"status"`
		Note    string              `json:"note"`
	}
	type ExtraActionRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
	}
	type SubmitReportRequest struct {
		Entries     []EntryRequest       `json:"entries"`
		AchievedIDs []uint64             `json:"achieved_ids"`
		Extras      []ExtraActionRequest `json:"extra_actions"`
	}

	plan := c.MustGet("plan").(models.DailyPlan)
	membership := c.MustGet("membership").(models.ProjectMember)

	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.reportService.GetOrCreateTodayReport(&membership, &plan)
	if err != nil {
		respondReportError(c, err)
		return
	}
	if err := h.reportService.SyncFromPlan(report); err != nil {
		respondReportError(c, err)
		return
	}

	input := services.SubmitInput{
		Statuses:    make(map[uint64]models.ReportStatus, len(req.Entries)),
		Notes:       make(map[uint64]string, len(req.Entries)),
		AchievedIDs: req.AchievedIDs,
	}
	for _, e := range req.Entries {
		input.Statuses[e.EntryID] = e.Status
		input.Notes[e.EntryID] = e.Note
	}
	for _, x := range req.Extras {
		input.Extras = append(input.Extras, services.ExtraActionInput{
			Title:       x.Title,
			Description: x.Description,
			Start:       x.StartTime,
			End:         x.EndTime,
		})
	}

	if err := h.reportService.SubmitReport(report, input); err != nil {
		respondReportError(c, err)
		return
	}

	entries, states, extras, err := h.reportService.LoadDetail(report)
	if err != nil {
		respondReportError(c, err)
		return
	}

	report.ExtraActions = extras
	c.JSON(http.StatusOK, dto.ToReportDTO(*report, entries, states))
}

// ListReports lists the caller's submitted reports, newest first.
func (h *ReportHandler) ListReports(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	reports, total, err := h.reportService.ListForUser(userID, params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	items := make([]dto.ReportListItemDTO, 0, len(reports))
	for _, r := range reports {
		items = append(items, dto.ToReportListItemDTO(r))
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWrongDate):
		apierrors.WrongDate(c, err.Error())
	case errors.Is(err, services.ErrReportLocked):
		apierrors.ReportLocked(c, err.Error())
	case errors.Is(err, services.ErrInvalidEntryStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrReportNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrReportPlanMismatch):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
