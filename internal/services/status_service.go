package services

import (
	"errors"
	"fmt"

	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/repository"
	"github.com/hamgam/worklog-api/internal/worklog"
	"gorm.io/gorm"
)

// StatusService projects per-member daily status for list and overview
// screens. Every call site classifies through worklog.DeriveStatus; the
// rule is never re-derived elsewhere.
type StatusService struct {
	projectRepo repository.ProjectRepository
	planRepo    repository.PlanRepository
	reportRepo  repository.ReportRepository
}

// NewStatusService creates a new StatusService
func NewStatusService(projectRepo repository.ProjectRepository, planRepo repository.PlanRepository, reportRepo repository.ReportRepository) *StatusService {
	return &StatusService{
		projectRepo: projectRepo,
		planRepo:    planRepo,
		reportRepo:  reportRepo,
	}
}

// MemberDayStatus is one member's classification for a single date.
type MemberDayStatus struct {
	Member   models.ProjectMember
	Status   worklog.DayStatus
	PlanID   *uint64
	ReportID *uint64
}

// Overview is the per-project status board for one date.
type Overview struct {
	Date   string
	Rows   []MemberDayStatus
	Counts map[worklog.DayStatus]int
}

// PlanDay pairs a plan with its derived status for list screens.
type PlanDay struct {
	Plan   models.DailyPlan
	Report *models.DailyReport
	Status worklog.DayStatus
}

// DailyStatus classifies a single member's day.
func (s *StatusService) DailyStatus(memberID uint64, date string) (worklog.DayStatus, error) {
	hasPlan := true
	plan, err := s.planRepo.FindByMemberAndDate(memberID, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to find plan: %w", err)
		}
		hasPlan = false
	}

	hasReport := true
	if _, err := s.reportRepo.FindByMemberAndDate(memberID, date); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to find report: %w", err)
		}
		hasReport = false
	}

	planDate := ""
	if hasPlan {
		planDate = plan.Date
	}
	return worklog.DeriveStatus(worklog.Today(), planDate, hasPlan, hasReport), nil
}

// ProjectOverview classifies every active member of a project for one date
// and aggregates the counts.
func (s *StatusService) ProjectOverview(projectID uint64, date string) (*Overview, error) {
	if _, err := worklog.ParseDate(date); err != nil {
		return nil, ErrInvalidPlanDate
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	memberIDs := make([]uint64, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	plans, err := s.planRepo.ListByMembersAndDate(memberIDs, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	planByMember := make(map[uint64]models.DailyPlan, len(plans))
	for _, p := range plans {
		planByMember[p.ProjectMemberID] = p
	}

	reports, err := s.reportRepo.ListByMembersAndDate(memberIDs, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	reportByMember := make(map[uint64]models.DailyReport, len(reports))
	for _, r := range reports {
		reportByMember[r.ProjectMemberID] = r
	}

	today := worklog.Today()
	overview := &Overview{
		Date:   date,
		Rows:   make([]MemberDayStatus, 0, len(members)),
		Counts: make(map[worklog.DayStatus]int),
	}

	for _, member := range members {
		plan, hasPlan := planByMember[member.ID]
		report, hasReport := reportByMember[member.ID]

		planDate := ""
		if hasPlan {
			planDate = plan.Date
		}
		status := worklog.DeriveStatus(today, planDate, hasPlan, hasReport)

		row := MemberDayStatus{Member: member, Status: status}
		if hasPlan {
			row.PlanID = &plan.ID
		}
		if hasReport {
			row.ReportID = &report.ID
		}

		overview.Rows = append(overview.Rows, row)
		overview.Counts[status]++
	}

	return overview, nil
}

// PlanDays classifies every plan of a user for the report list screen.
func (s *StatusService) PlanDays(userID uint64) ([]PlanDay, error) {
	plans, err := s.planRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	memberships, err := s.projectRepo.ListMembershipsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	memberIDs := make([]uint64, len(memberships))
	for i, m := range memberships {
		memberIDs[i] = m.ID
	}

	reports, err := s.reportRepo.ListByMembers(memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	type dayKey struct {
		member uint64
		date   string
	}
	reportByDay := make(map[dayKey]models.DailyReport, len(reports))
	for _, r := range reports {
		reportByDay[dayKey{r.ProjectMemberID, r.Date}] = r
	}

	today := worklog.Today()
	days := make([]PlanDay, 0, len(plans))
	for _, plan := range plans {
		day := PlanDay{Plan: plan}
		if report, ok := reportByDay[dayKey{plan.ProjectMemberID, plan.Date}]; ok {
			day.Report = &report
			day.Status = worklog.DeriveStatus(today, plan.Date, true, true)
		} else {
			day.Status = worklog.DeriveStatus(today, plan.Date, true, false)
		}
		days = append(days, day)
	}

	return days, nil
}
