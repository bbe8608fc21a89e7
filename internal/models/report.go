package models

import "time"

// ReportStatus is the completion state of one schedule block.
type ReportStatus int

const (
	StatusNotDone    ReportStatus = 0
	StatusInProgress ReportStatus = 1
	StatusDone       ReportStatus = 2
	StatusBlocked    ReportStatus = 3
	StatusPartial    ReportStatus = 4
)

// Valid reports whether s is one of the defined statuses.
func (s ReportStatus) Valid() bool {
	return s >= StatusNotDone && s <= StatusPartial
}

// DailyReport records actual outcomes against a plan. A report only ever
// exists for its plan's own date, and only one per member per date.
type DailyReport struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	ProjectMemberID uint64    `gorm:"not null;uniqueIndex:idx_report_member_date" json:"project_member_id"`
	PlanID          uint64    `gorm:"not null;index" json:"plan_id"`
	Date            string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_report_member_date;index" json:"date"`
	LockedAt        time.Time `gorm:"not null" json:"locked_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	ProjectMember     ProjectMember       `gorm:"foreignKey:ProjectMemberID" json:"project_member,omitempty"`
	Plan              DailyPlan           `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Entries           []ReportEntry       `gorm:"foreignKey:ReportID" json:"entries,omitempty"`
	ExtraActions      []ReportExtraAction `gorm:"foreignKey:ReportID" json:"extra_actions,omitempty"`
	AchievementStates []ReportAchievement `gorm:"foreignKey:ReportID" json:"achievement_states,omitempty"`
}

// ReportEntry is the outcome for one schedule block within one report.
// Entries are created lazily by the sync and never deleted individually.
type ReportEntry struct {
	ID              uint64       `gorm:"primarykey" json:"id"`
	ReportID        uint64       `gorm:"not null;uniqueIndex:idx_entry_report_block" json:"report_id"`
	ScheduleBlockID uint64       `gorm:"not null;uniqueIndex:idx_entry_report_block;index" json:"schedule_block_id"`
	Status          ReportStatus `gorm:"not null;default:0" json:"status"`
	Note            string       `gorm:"type:text" json:"note"`
	UpdatedAt       time.Time    `json:"updated_at"`

	// Relations
	ScheduleBlock DailyScheduleBlock `gorm:"foreignKey:ScheduleBlockID" json:"schedule_block,omitempty"`
}

// ReportExtraAction is an ad hoc activity not tied to any schedule block.
// Times are optional "HH:MM" strings; the whole set is replaced on submit.
type ReportExtraAction struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ReportID    uint64    `gorm:"not null;index" json:"report_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartTime   *string   `gorm:"type:varchar(5)" json:"start_time"`
	EndTime     *string   `gorm:"type:varchar(5)" json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportAchievement tracks whether one of the plan's goals was achieved.
type ReportAchievement struct {
	ID            uint64 `gorm:"primarykey" json:"id"`
	ReportID      uint64 `gorm:"not null;uniqueIndex:idx_state_report_achievement" json:"report_id"`
	AchievementID uint64 `gorm:"not null;uniqueIndex:idx_state_report_achievement;index" json:"achievement_id"`
	Achieved      bool   `gorm:"not null;default:false" json:"achieved"`

	// Relations
	Achievement DailyAchievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}
