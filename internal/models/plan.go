package models

import "time"

// DailyPlan is one member's intended schedule for a single calendar day.
// Dates are stored as "2006-01-02" strings; the unique index on
// (project_member_id, date) is what makes plan creation idempotent.
type DailyPlan struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	ProjectMemberID uint64    `gorm:"not null;uniqueIndex:idx_plan_member_date" json:"project_member_id"`
	Date            string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_plan_member_date;index" json:"date"`
	LockedAt        time.Time `gorm:"not null" json:"locked_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	ProjectMember  ProjectMember        `gorm:"foreignKey:ProjectMemberID" json:"project_member,omitempty"`
	Achievements   []DailyAchievement   `gorm:"foreignKey:PlanID" json:"achievements,omitempty"`
	ScheduleBlocks []DailyScheduleBlock `gorm:"foreignKey:PlanID" json:"schedule_blocks,omitempty"`
}

// DailyAchievement is a free-text goal attached to a plan.
type DailyAchievement struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	PlanID    uint64 `gorm:"not null;index" json:"plan_id"`
	Title     string `gorm:"type:varchar(255);not null" json:"title"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// DailyScheduleBlock is one time-boxed task inside a plan. Start and end
// are zero-padded "HH:MM" clock strings, start < end.
type DailyScheduleBlock struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	PlanID      uint64 `gorm:"not null;index:idx_block_plan_start" json:"plan_id"`
	StartTime   string `gorm:"type:varchar(5);not null;index:idx_block_plan_start" json:"start_time"`
	EndTime     string `gorm:"type:varchar(5);not null" json:"end_time"`
	TaskTitle   string `gorm:"type:varchar(255);not null" json:"task_title"`
	Description string `gorm:"type:text" json:"description"`
	IsRequired  bool   `gorm:"not null;default:false" json:"is_required"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`
}
