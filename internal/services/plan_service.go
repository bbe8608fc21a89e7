package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hamgam/worklog-api/internal/models"
	"github.com/hamgam/worklog-api/internal/repository"
	"github.com/hamgam/worklog-api/internal/worklog"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrDuplicatePlan    = errors.New("a plan already exists for this date")
	ErrPlanLocked       = errors.New("the plan for this day is locked and can no longer be edited")
	ErrPlanNotDeletable = errors.New("only future plans can be deleted")
	ErrInvalidPlanDate  = errors.New("invalid plan date")
	ErrInvalidBlockTime = errors.New("block times must be HH:MM")
	ErrInvalidTimeRange = errors.New("block start must be before its end")
)

// PlanService handles daily plan business logic
type PlanService struct {
	planRepo repository.PlanRepository
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// BlockInput is one schedule block as submitted by the plan wizard.
type BlockInput struct {
	Start       string
	End         string
	Title       string
	Description string
}

// GetOrCreatePlan idempotently returns the plan for (member, date), creating
// it with the computed lock instant on first call. Safe under concurrent
// callers: at most one row ever exists per member and date.
func (s *PlanService) GetOrCreatePlan(member *models.ProjectMember, date string) (*models.DailyPlan, error) {
	d, err := worklog.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidPlanDate
	}

	plan := &models.DailyPlan{
		ProjectMemberID: member.ID,
		Date:            worklog.DateOf(d),
		LockedAt:        worklog.PlanLock(d),
	}

	out, err := s.planRepo.GetOrCreate(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create plan: %w", err)
	}
	return out, nil
}

// CreatePlanWithSchedule is the wizard entry point: it validates the whole
// payload, then persists the plan with its achievements and blocks as one
// atomic unit. An existing plan for the date is a user-facing DuplicatePlan
// error, not an idempotent return.
func (s *PlanService) CreatePlanWithSchedule(member *models.ProjectMember, date string, achievements []string, required, extra []BlockInput) (*models.DailyPlan, error) {
	d, err := worklog.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidPlanDate
	}

	blocks, err := buildBlocks(required, true, 0)
	if err != nil {
		return nil, err
	}
	extraBlocks, err := buildBlocks(extra, false, len(blocks))
	if err != nil {
		return nil, err
	}
	blocks = append(blocks, extraBlocks...)

	var bulkAch []models.DailyAchievement
	for idx, title := range achievements {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		bulkAch = append(bulkAch, models.DailyAchievement{Title: title, SortOrder: idx})
	}

	plan := &models.DailyPlan{
		ProjectMemberID: member.ID,
		Date:            worklog.DateOf(d),
		LockedAt:        worklog.PlanLock(d),
	}

	if err := s.planRepo.CreateWithSchedule(plan, bulkAch, blocks); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicatePlan
		}
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return s.planRepo.FindByID(plan.ID, "Achievements", "ScheduleBlocks")
}

// GetPlan returns a plan with its achievements and blocks.
func (s *PlanService) GetPlan(planID uint64) (*models.DailyPlan, error) {
	plan, err := s.planRepo.FindByID(planID, "Achievements", "ScheduleBlocks", "ProjectMember", "ProjectMember.Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	return plan, nil
}

// AssertEditable fails once the plan's lock instant has passed. Called
// before any mutation of the plan's blocks or achievements.
func (s *PlanService) AssertEditable(plan *models.DailyPlan) error {
	if worklog.IsLocked(plan.LockedAt) {
		return ErrPlanLocked
	}
	return nil
}

// RenameScheduleBlocks updates block titles on an editable plan. Blank
// titles are ignored rather than erased.
func (s *PlanService) RenameScheduleBlocks(plan *models.DailyPlan, titles map[uint64]string) error {
	if err := s.AssertEditable(plan); err != nil {
		return err
	}

	clean := make(map[uint64]string, len(titles))
	for id, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		clean[id] = title
	}
	if len(clean) == 0 {
		return nil
	}

	if err := s.planRepo.UpdateBlockTitles(plan.ID, clean); err != nil {
		return fmt.Errorf("failed to rename blocks: %w", err)
	}
	return nil
}

// DeletePlan removes a plan along with its achievements and blocks.
// Only plans dated strictly after today may be deleted.
func (s *PlanService) DeletePlan(plan *models.DailyPlan) error {
	if plan.Date <= worklog.Today() {
		return ErrPlanNotDeletable
	}

	if err := s.planRepo.Delete(plan.ID); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

// buildBlocks validates and normalizes wizard block inputs. Blocks with a
// missing start, end, or title are dropped from the batch; a start at or
// after its end rejects the whole submission.
func buildBlocks(inputs []BlockInput, required bool, orderOffset int) ([]models.DailyScheduleBlock, error) {
	var blocks []models.DailyScheduleBlock
	for _, in := range inputs {
		start := strings.TrimSpace(in.Start)
		end := strings.TrimSpace(in.End)
		title := strings.TrimSpace(in.Title)
		if start == "" || end == "" || title == "" {
			continue
		}

		startClock, err := worklog.ParseClock(start)
		if err != nil {
			return nil, ErrInvalidBlockTime
		}
		endClock, err := worklog.ParseClock(end)
		if err != nil {
			return nil, ErrInvalidBlockTime
		}
		if startClock >= endClock {
			return nil, ErrInvalidTimeRange
		}

		blocks = append(blocks, models.DailyScheduleBlock{
			StartTime:   startClock,
			EndTime:     endClock,
			TaskTitle:   title,
			Description: strings.TrimSpace(in.Description),
			IsRequired:  required,
			SortOrder:   orderOffset + len(blocks),
		})
	}
	return blocks, nil
}
