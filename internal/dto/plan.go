package dto

import (
	"time"

	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/worklog"
)

// AchievementDTO represents a planned achievement
type AchievementDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`
}

// ScheduleBlockDTO represents a timed block inside a plan
type ScheduleBlockDTO struct {
	ID          uint64 `json:"id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	TaskTitle   string `json:"task_title"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"is_required"`
	SortOrder   int    `json:"sort_order"`
}

// PlanDTO represents a daily plan with its schedule
type PlanDTO struct {
	ID             uint64             `json:"id"`
	Date           string             `json:"date"`
	JalaliDate     string             `json:"jalali_date"`
	LockedAt       time.Time          `json:"locked_at"`
	IsLocked       bool               `json:"is_locked"`
	IsToday        bool               `json:"is_today"`
	IsFuture       bool               `json:"is_future"`
	Achievements   []AchievementDTO   `json:"achievements"`
	ScheduleBlocks []ScheduleBlockDTO `json:"schedule_blocks"`
}

// PlanListItemDTO is a compact plan row with its derived day status
type PlanListItemDTO struct {
	ID               uint64   `json:"id"`
	Date             string   `json:"date"`
	JalaliDate       string   `json:"jalali_date"`
	JalaliWeekday    string   `json:"jalali_weekday"`
	IsToday          bool     `json:"is_today"`
	IsFuture         bool     `json:"is_future"`
	Status           string   `json:"status"`
	ReportID         *uint64  `json:"report_id,omitempty"`
	AchievementCount int      `json:"achievement_count"`
	Achievements     []string `json:"achievements"`
	BlockCount       int      `json:"block_count"`
	ProjectTitle     string   `json:"project_title,omitempty"`
}

// ToAchievementDTO converts a DailyAchievement model
func ToAchievementDTO(a models.DailyAchievement) AchievementDTO {
	return AchievementDTO{ID: a.ID, Title: a.Title, SortOrder: a.SortOrder}
}

// ToScheduleBlockDTO converts a DailyScheduleBlock model
func ToScheduleBlockDTO(b models.DailyScheduleBlock) ScheduleBlockDTO {
	return ScheduleBlockDTO{
		ID:          b.ID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		TaskTitle:   b.TaskTitle,
		Description: b.Description,
		IsRequired:  b.IsRequired,
		SortOrder:   b.SortOrder,
	}
}

// ToPlanDTO converts a DailyPlan with achievements and blocks preloaded
func ToPlanDTO(plan models.DailyPlan) PlanDTO {
	today := worklog.Today()
	achievements := make([]AchievementDTO, 0, len(plan.Achievements))
	for _, a := range plan.Achievements {
		achievements = append(achievements, ToAchievementDTO(a))
	}
	blocks := make([]ScheduleBlockDTO, 0, len(plan.ScheduleBlocks))
	for _, b := range plan.ScheduleBlocks {
		blocks = append(blocks, ToScheduleBlockDTO(b))
	}
	return PlanDTO{
		ID:             plan.ID,
		Date:           plan.Date,
		JalaliDate:     worklog.Jalali(plan.Date).Full(),
		LockedAt:       plan.LockedAt,
		IsLocked:       worklog.IsLocked(plan.LockedAt),
		IsToday:        plan.Date == today,
		IsFuture:       plan.Date > today,
		Achievements:   achievements,
		ScheduleBlocks: blocks,
	}
}

// ToPlanListItemDTO converts a plan plus its derived status to a list row.
// At most three achievement titles are included as a preview.
func ToPlanListItemDTO(plan models.DailyPlan, status worklog.DayStatus, reportID *uint64) PlanListItemDTO {
	today := worklog.Today()
	jd := worklog.Jalali(plan.Date)
	preview := make([]string, 0, 3)
	for _, a := range plan.Achievements {
		if len(preview) == 3 {
			break
		}
		preview = append(preview, a.Title)
	}
	item := PlanListItemDTO{
		ID:               plan.ID,
		Date:             plan.Date,
		JalaliDate:       jd.Full(),
		JalaliWeekday:    jd.Weekday,
		IsToday:          plan.Date == today,
		IsFuture:         plan.Date > today,
		Status:           string(status),
		ReportID:         reportID,
		AchievementCount: len(plan.Achievements),
		Achievements:     preview,
		BlockCount:       len(plan.ScheduleBlocks),
	}
	if plan.ProjectMember.Project.ID != 0 {
		item.ProjectTitle = plan.ProjectMember.Project.Title
	}
	return item
}
