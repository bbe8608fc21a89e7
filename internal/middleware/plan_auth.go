package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hamgam/worklog-api/internal/database"
	"github.com/hamgam/worklog-api/internal/models"
	"gorm.io/gorm"
)

// RequirePlanAccess checks if the user owns the plan named in the URL.
// The plan is loaded with its schedule and stored in the context.
func RequirePlanAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		planIDStr := c.Param("id")
		planID, err := strconv.ParseUint(planIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid plan ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var plan models.DailyPlan
		if err := database.GetDB().
			Preload("Achievements", func(db *gorm.DB) *gorm.DB {
				return db.Order("sort_order ASC")
			}).
			Preload("ScheduleBlocks", func(db *gorm.DB) *gorm.DB {
				return db.Order("start_time ASC")
			}).
			Preload("ProjectMember").
			Preload("ProjectMember.Project").
			First(&plan, planID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Plan not found",
			})
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking plan existence
		if plan.ProjectMember.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Plan not found",
			})
			c.Abort()
			return
		}

		c.Set("plan", plan)
		c.Set("membership", plan.ProjectMember)
		c.Next()
	}
}
