package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/repository"
	"github.com/hamgam/worklog-api/internal/utils"
	"github.com/hamgam/worklog-api/internal/worklog"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound     = errors.New("no report has been submitted for this day")
	ErrReportLocked       = errors.New("the submission window for this report has closed")
	ErrWrongDate          = errors.New("a report can only be filled in on its own day")
	ErrInvalidEntryStatus = errors.New("invalid entry status")
	ErrReportPlanMismatch = errors.New("report date does not match its plan")
)

// ReportService handles daily report business logic
type ReportService struct {
	reportRepo  repository.ReportRepository
	planRepo    repository.PlanRepository
	projectRepo repository.ProjectRepository
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo repository.ReportRepository, planRepo repository.PlanRepository, projectRepo repository.ProjectRepository) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		planRepo:    planRepo,
		projectRepo: projectRepo,
	}
}

// ExtraActionInput is one ad hoc activity as submitted with a report.
type ExtraActionInput struct {
	Title       string
	Description string
	Start       string
	End         string
}

// SubmitInput carries a full report submission.
type SubmitInput struct {
	Statuses    map[uint64]models.ReportStatus
	Notes       map[uint64]string
	AchievedIDs []uint64
	Extras      []ExtraActionInput
}

// GetOrCreateTodayReport idempotently returns the report for the plan's
// date, which must be today. The report is linked to the plan and locked at
// the end of its own day.
func (s *ReportService) GetOrCreateTodayReport(member *models.ProjectMember, plan *models.DailyPlan) (*models.DailyReport, error) {
	today := worklog.Today()
	if plan.Date != today {
		return nil, ErrWrongDate
	}

	d, err := worklog.ParseDate(today)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve today: %w", err)
	}

	report := &models.DailyReport{
		ProjectMemberID: member.ID,
		PlanID:          plan.ID,
		Date:            today,
		LockedAt:        worklog.ReportLock(d),
	}

	out, err := s.reportRepo.GetOrCreate(report)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create report: %w", err)
	}

	// The unique indexes keep report and plan dates aligned through the
	// normal flow; a mismatch here means rows were edited out of band.
	if out.Date != plan.Date {
		return nil, ErrReportPlanMismatch
	}
	return out, nil
}

// SyncFromPlan lazily materializes report entries and achievement states
// from the plan's blocks and goals. Existing rows keep their status and
// notes; only missing rows are created.
func (s *ReportService) SyncFromPlan(report *models.DailyReport) error {
	plan, err := s.planRepo.FindByID(report.PlanID, "Achievements", "ScheduleBlocks")
	if err != nil {
		return fmt.Errorf("failed to load plan for sync: %w", err)
	}

	blockIDs := make([]uint64, 0, len(plan.ScheduleBlocks))
	for _, block := range plan.ScheduleBlocks {
		blockIDs = append(blockIDs, block.ID)
	}
	if err := s.reportRepo.SyncEntries(report.ID, blockIDs); err != nil {
		return fmt.Errorf("failed to sync entries: %w", err)
	}

	achievementIDs := make([]uint64, 0, len(plan.Achievements))
	for _, ach := range plan.Achievements {
		achievementIDs = append(achievementIDs, ach.ID)
	}
	if err := s.reportRepo.SyncAchievementStates(report.ID, achievementIDs); err != nil {
		return fmt.Errorf("failed to sync achievement states: %w", err)
	}

	return nil
}

// AssertEditable fails with WrongDate on any day other than the report's
// own, and with ReportLocked once the lock instant has passed. The date
// check comes first: an unlocked report from another day is still frozen.
func (s *ReportService) AssertEditable(report *models.DailyReport) error {
	if worklog.Today() != report.Date {
		return ErrWrongDate
	}
	if worklog.IsLocked(report.LockedAt) {
		return ErrReportLocked
	}
	return nil
}

// SubmitReport applies entry statuses and notes, achievement flags, and the
// full replacement set of extra actions in one transaction.
func (s *ReportService) SubmitReport(report *models.DailyReport, input SubmitInput) error {
	if err := s.AssertEditable(report); err != nil {
		return err
	}

	for _, status := range input.Statuses {
		if !status.Valid() {
			return ErrInvalidEntryStatus
		}
	}

	existing, err := s.reportRepo.ListEntries(report.ID)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	var updates []models.ReportEntry
	for _, entry := range existing {
		changed := false
		if status, ok := input.Statuses[entry.ID]; ok {
			entry.Status = status
			changed = true
		}
		if note, ok := input.Notes[entry.ID]; ok {
			entry.Note = strings.TrimSpace(note)
			changed = true
		}
		if changed {
			updates = append(updates, entry)
		}
	}

	extras := buildExtraActions(input.Extras)

	if err := s.reportRepo.Submit(report.ID, updates, input.AchievedIDs, extras); err != nil {
		return fmt.Errorf("failed to submit report: %w", err)
	}
	return nil
}

// GetReportForPlan returns the existing report for a plan, or
// ErrReportNotFound when the day was never reported.
func (s *ReportService) GetReportForPlan(plan *models.DailyPlan) (*models.DailyReport, error) {
	report, err := s.reportRepo.FindByPlan(plan.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return report, nil
}

// ListForUser lists one page of reports across the user's memberships,
// newest first, with projects preloaded for display.
func (s *ReportService) ListForUser(userID uint64, params utils.PaginationParams) ([]models.DailyReport, int64, error) {
	memberships, err := s.projectRepo.ListMembershipsByUser(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list memberships: %w", err)
	}

	memberIDs := make([]uint64, len(memberships))
	for i, m := range memberships {
		memberIDs[i] = m.ID
	}

	reports, total, err := s.reportRepo.ListByMembersPaged(memberIDs, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// LoadDetail returns a report's entries (in block order), achievement
// states (in plan order), and extra actions for display.
func (s *ReportService) LoadDetail(report *models.DailyReport) ([]models.ReportEntry, []models.ReportAchievement, []models.ReportExtraAction, error) {
	entries, err := s.reportRepo.ListEntries(report.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load entries: %w", err)
	}

	states, err := s.reportRepo.ListAchievementStates(report.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load achievement states: %w", err)
	}

	loaded, err := s.reportRepo.FindByID(report.ID, "ExtraActions")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load extra actions: %w", err)
	}

	return entries, states, loaded.ExtraActions, nil
}

// buildExtraActions normalizes submitted extras: entries without a title
// are dropped, unparsable times become null instead of failing the batch.
func buildExtraActions(inputs []ExtraActionInput) []models.ReportExtraAction {
	var extras []models.ReportExtraAction
	for _, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			continue
		}
		extras = append(extras, models.ReportExtraAction{
			Title:       title,
			Description: strings.TrimSpace(in.Description),
			StartTime:   worklog.ParseClockPtr(in.Start),
			EndTime:     worklog.ParseClockPtr(in.End),
		})
	}
	return extras
}
