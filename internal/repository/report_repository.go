package repository

import (
	"github.com/hamgam/worklog-api/internal/database"
	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// GetOrCreate inserts the report unless a row already exists for the member
// and date, then returns the persisted row. Losing a concurrent race on the
// unique index degrades to the fetch.
func (r *GormReportRepository) GetOrCreate(report *models.DailyReport) (*models.DailyReport, error) {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_member_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(report).Error
	if err != nil && !IsUniqueViolation(err) {
		return nil, err
	}

	var out models.DailyReport
	if err := r.db.Where("project_member_id = ? AND date = ?", report.ProjectMemberID, report.Date).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID finds a report by ID with optional preloading
func (r *GormReportRepository) FindByID(id uint64, preload ...string) (*models.DailyReport, error) {
	var report models.DailyReport
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByPlan finds the report linked to a plan
func (r *GormReportRepository) FindByPlan(planID uint64) (*models.DailyReport, error) {
	var report models.DailyReport
	if err := r.db.Where("plan_id = ?", planID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByMemberAndDate finds the report for one member and date
func (r *GormReportRepository) FindByMemberAndDate(memberID uint64, date string) (*models.DailyReport, error) {
	var report models.DailyReport
	if err := r.db.Where("project_member_id = ? AND date = ?", memberID, date).
		First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByMembers lists reports across a set of memberships, newest first
func (r *GormReportRepository) ListByMembers(memberIDs []uint64) ([]models.DailyReport, error) {
	if len(memberIDs) == 0 {
		return []models.DailyReport{}, nil
	}
	var reports []models.DailyReport
	if err := r.db.Preload("ProjectMember.Project").
		Where("project_member_id IN ?", memberIDs).
		Order("date DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// ListByMembersPaged lists one page of reports across a set of
// memberships, newest first, together with the total row count
func (r *GormReportRepository) ListByMembersPaged(memberIDs []uint64, params utils.PaginationParams) ([]models.DailyReport, int64, error) {
	if len(memberIDs) == 0 {
		return []models.DailyReport{}, 0, nil
	}

	var total int64
	if err := r.db.Model(&models.DailyReport{}).
		Where("project_member_id IN ?", memberIDs).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.DailyReport
	if err := r.db.Preload("ProjectMember.Project").
		Where("project_member_id IN ?", memberIDs).
		Order("date DESC").
		Scopes(database.Paginate(params)).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// ListByMembersAndDate lists reports for a set of members on one date
func (r *GormReportRepository) ListByMembersAndDate(memberIDs []uint64, date string) ([]models.DailyReport, error) {
	if len(memberIDs) == 0 {
		return []models.DailyReport{}, nil
	}
	var reports []models.DailyReport
	if err := r.db.Where("project_member_id IN ? AND date = ?", memberIDs, date).
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// SyncEntries creates missing entries for the given blocks with the
// default not-done status. Existing entries are left untouched, so the
// call is safe to repeat and safe under concurrent callers.
func (r *GormReportRepository) SyncEntries(reportID uint64, blockIDs []uint64) error {
	if len(blockIDs) == 0 {
		return nil
	}

	entries := make([]models.ReportEntry, len(blockIDs))
	for i, blockID := range blockIDs {
		entries[i] = models.ReportEntry{
			ReportID:        reportID,
			ScheduleBlockID: blockID,
			Status:          models.StatusNotDone,
		}
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "report_id"}, {Name: "schedule_block_id"}},
			DoNothing: true,
		}).
		Create(&entries).Error
}

// SyncAchievementStates creates missing achievement states, default not
// achieved, leaving existing rows untouched.
func (r *GormReportRepository) SyncAchievementStates(reportID uint64, achievementIDs []uint64) error {
	if len(achievementIDs) == 0 {
		return nil
	}

	states := make([]models.ReportAchievement, len(achievementIDs))
	for i, achievementID := range achievementIDs {
		states[i] = models.ReportAchievement{
			ReportID:      reportID,
			AchievementID: achievementID,
		}
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "report_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(&states).Error
}

// ListEntries lists a report's entries ordered by block start time
func (r *GormReportRepository) ListEntries(reportID uint64) ([]models.ReportEntry, error) {
	var entries []models.ReportEntry
	if err := r.db.Preload("ScheduleBlock").
		Joins("JOIN daily_schedule_blocks ON daily_schedule_blocks.id = report_entries.schedule_block_id").
		Where("report_entries.report_id = ?", reportID).
		Order("daily_schedule_blocks.start_time ASC, daily_schedule_blocks.id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListAchievementStates lists a report's achievement states in plan order
func (r *GormReportRepository) ListAchievementStates(reportID uint64) ([]models.ReportAchievement, error) {
	var states []models.ReportAchievement
	if err := r.db.Preload("Achievement").
		Joins("JOIN daily_achievements ON daily_achievements.id = report_achievements.achievement_id").
		Where("report_achievements.report_id = ?", reportID).
		Order("daily_achievements.sort_order ASC, daily_achievements.id ASC").
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// Submit applies entry updates, achievement flags, and the replacement
// extra-action set in one all-or-nothing transaction.
func (r *GormReportRepository) Submit(reportID uint64, entries []models.ReportEntry, achievedIDs []uint64, extras []models.ReportExtraAction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if err := tx.Model(&models.ReportEntry{}).
				Where("id = ? AND report_id = ?", entry.ID, reportID).
				Updates(map[string]interface{}{
					"status": entry.Status,
					"note":   entry.Note,
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.ReportAchievement{}).
			Where("report_id = ?", reportID).
			Update("achieved", false).Error; err != nil {
			return err
		}
		if len(achievedIDs) > 0 {
			if err := tx.Model(&models.ReportAchievement{}).
				Where("report_id = ? AND achievement_id IN ?", reportID, achievedIDs).
				Update("achieved", true).Error; err != nil {
				return err
			}
		}

		// Extras are replaced wholesale, never merged.
		if err := tx.Where("report_id = ?", reportID).
			Delete(&models.ReportExtraAction{}).Error; err != nil {
			return err
		}
		if len(extras) > 0 {
			for i := range extras {
				extras[i].ReportID = reportID
			}
			if err := tx.Create(&extras).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
