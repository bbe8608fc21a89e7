package dto

import (
	"time"

	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/worklog"
)

// ReportEntryDTO represents the reported outcome of one schedule block
type ReportEntryDTO struct {
	ID              uint64              `json:"id"`
	ScheduleBlockID uint64              `json:"schedule_block_id"`
	Status          models.ReportStatus `json:"status"`
	Note            string              `json:"note,omitempty"`
	Block           ScheduleBlockDTO    `json:"block"`
}

// ReportAchievementDTO represents the achieved flag of one planned achievement
type ReportAchievementDTO struct {
	ID            uint64 `json:"id"`
	AchievementID uint64 `json:"achievement_id"`
	Title         string `json:"title"`
	Achieved      bool   `json:"achieved"`
}

// ExtraActionDTO represents an unplanned action recorded on a report
type ExtraActionDTO struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
}

// ReportDTO represents a daily report with its entries and extras
type ReportDTO struct {
	ID           uint64                 `json:"id"`
	PlanID       uint64                 `json:"plan_id"`
	Date         string                 `json:"date"`
	JalaliDate   string                 `json:"jalali_date"`
	LockedAt     time.Time              `json:"locked_at"`
	IsLocked     bool                   `json:"is_locked"`
	Entries      []ReportEntryDTO       `json:"entries"`
	Achievements []ReportAchievementDTO `json:"achievements"`
	ExtraActions []ExtraActionDTO       `json:"extra_actions"`
}

// ReportListItemDTO is a compact report row for history listings
type ReportListItemDTO struct {
	ID            uint64 `json:"id"`
	PlanID        uint64 `json:"plan_id"`
	Date          string `json:"date"`
	JalaliDate    string `json:"jalali_date"`
	JalaliWeekday string `json:"jalali_weekday"`
	IsToday       bool   `json:"is_today"`
	IsLocked      bool   `json:"is_locked"`
	ProjectTitle  string `json:"project_title,omitempty"`
}

// ToExtraActionDTO converts a ReportExtraAction model
func ToExtraActionDTO(e models.ReportExtraAction) ExtraActionDTO {
	return ExtraActionDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
	}
}

// ToReportDTO assembles a full report response from the loaded pieces
func ToReportDTO(report models.DailyReport, entries []models.ReportEntry, states []models.ReportAchievement) ReportDTO {
	entryDTOs := make([]ReportEntryDTO, 0, len(entries))
	for _, e := range entries {
		entryDTOs = append(entryDTOs, ReportEntryDTO{
			ID:              e.ID,
			ScheduleBlockID: e.ScheduleBlockID,
			Status:          e.Status,
			Note:            e.Note,
			Block:           ToScheduleBlockDTO(e.ScheduleBlock),
		})
	}
	stateDTOs := make([]ReportAchievementDTO, 0, len(states))
	for _, s := range states {
		stateDTOs = append(stateDTOs, ReportAchievementDTO{
			ID:            s.ID,
			AchievementID: s.AchievementID,
			Title:         s.Achievement.Title,
			Achieved:      s.Achieved,
		})
	}
	extras := make([]ExtraActionDTO, 0, len(report.ExtraActions))
	for _, e := range report.ExtraActions {
		extras = append(extras, ToExtraActionDTO(e))
	}
	return ReportDTO{
		ID:           report.ID,
		PlanID:       report.PlanID,
		Date:         report.Date,
		JalaliDate:   worklog.Jalali(report.Date).Full(),
		LockedAt:     report.LockedAt,
		IsLocked:     worklog.IsLocked(report.LockedAt),
		Entries:      entryDTOs,
		Achievements: stateDTOs,
		ExtraActions: extras,
	}
}

// ToReportListItemDTO converts a report to a history list row
func ToReportListItemDTO(report models.DailyReport) ReportListItemDTO {
	jd := worklog.Jalali(report.Date)
	item := ReportListItemDTO{
		ID:            report.ID,
		PlanID:        report.PlanID,
		Date:          report.Date,
		JalaliDate:    jd.Full(),
		JalaliWeekday: jd.Weekday,
		IsToday:       report.Date == worklog.Today(),
		IsLocked:      worklog.IsLocked(report.LockedAt),
	}
	if report.ProjectMember.Project.ID != 0 {
		item.ProjectTitle = report.ProjectMember.Project.Title
	}
	return item
}
