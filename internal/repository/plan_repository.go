package repository

import (
	"github.com/hamgam/worklog-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPlanRepository is a GORM implementation of PlanRepository
type GormPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &GormPlanRepository{db: db}
}

// GetOrCreate inserts the plan unless a row already exists for the member
// and date. A concurrent insert losing the race on the unique index is the
// same outcome as the row pre-existing, so either way the persisted row is
// fetched and returned.
func (r *GormPlanRepository) GetOrCreate(plan *models.DailyPlan) (*models.DailyPlan, error) {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_member_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(plan).Error
	if err != nil && !IsUniqueViolation(err) {
		return nil, err
	}

	var out models.DailyPlan
	if err := r.db.Where("project_member_id = ? AND date = ?", plan.ProjectMemberID, plan.Date).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWithSchedule creates a plan with its achievements and schedule
// blocks in a single transaction. A unique violation on the plan insert
// surfaces unchanged so the caller can translate it.
func (r *GormPlanRepository) CreateWithSchedule(plan *models.DailyPlan, achievements []models.DailyAchievement, blocks []models.DailyScheduleBlock) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return err
		}

		if len(achievements) > 0 {
			for i := range achievements {
				achievements[i].PlanID = plan.ID
			}
			if err := tx.Create(&achievements).Error; err != nil {
				return err
			}
		}

		if len(blocks) > 0 {
			for i := range blocks {
				blocks[i].PlanID = plan.ID
			}
			if err := tx.Create(&blocks).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a plan by ID with optional preloading
func (r *GormPlanRepository) FindByID(id uint64, preload ...string) (*models.DailyPlan, error) {
	var plan models.DailyPlan
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindByMemberAndDate finds the plan for one member and date
func (r *GormPlanRepository) FindByMemberAndDate(memberID uint64, date string) (*models.DailyPlan, error) {
	var plan models.DailyPlan
	if err := r.db.Where("project_member_id = ? AND date = ?", memberID, date).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListByUser lists plans across a user's active memberships, newest first
func (r *GormPlanRepository) ListByUser(userID uint64) ([]models.DailyPlan, error) {
	var plans []models.DailyPlan
	if err := r.db.
		Preload("Achievements", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("ScheduleBlocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time ASC, id ASC")
		}).
		Preload("ProjectMember.Project").
		Joins("JOIN project_members ON project_members.id = daily_plans.project_member_id").
		Where("project_members.user_id = ? AND project_members.is_active = ?", userID, true).
		Order("daily_plans.date DESC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// ListByMembersAndDate lists plans for a set of members on one date
func (r *GormPlanRepository) ListByMembersAndDate(memberIDs []uint64, date string) ([]models.DailyPlan, error) {
	if len(memberIDs) == 0 {
		return []models.DailyPlan{}, nil
	}
	var plans []models.DailyPlan
	if err := r.db.Where("project_member_id IN ? AND date = ?", memberIDs, date).
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdateBlockTitles renames schedule blocks belonging to the plan. Block
// IDs outside the plan are ignored.
func (r *GormPlanRepository) UpdateBlockTitles(planID uint64, titles map[uint64]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for blockID, title := range titles {
			if err := tx.Model(&models.DailyScheduleBlock{}).
				Where("id = ? AND plan_id = ?", blockID, planID).
				Update("task_title", title).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a plan with its achievements and blocks
func (r *GormPlanRepository) Delete(planID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", planID).Delete(&models.DailyScheduleBlock{}).Error; err != nil {
			return err
		}

		if err := tx.Where("plan_id = ?", planID).Delete(&models.DailyAchievement{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.DailyPlan{}, planID).Error
	})
}
