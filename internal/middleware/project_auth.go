package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hamgam/worklog-api/internal/database"
	"github.com/hamgam/worklog-api/internal/models"
)

// RequireProjectAccess checks if the user is an active member of the
// project named in the URL. The project and the caller's membership are
// stored in the context for downstream handlers.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid project ID",
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

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
			})
			c.Abort()
			return
		}

		var member models.ProjectMember
		err = database.GetDB().
			Where("project_id = ? AND user_id = ? AND is_active = ?", projectID, userID, true).
			First(&member).Error
		if err != nil {
			// Return 404 instead of 403 to avoid leaking project existence
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
			})
			c.Abort()
			return
		}

		c.Set("project", project)
		c.Set("membership", member)
		c.Next()
	}
}

// RequireManager checks that the membership loaded by RequireProjectAccess
// carries the manager role
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("membership")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Manager role required",
			})
			c.Abort()
			return
		}

		member, ok := value.(models.ProjectMember)
		if !ok || member.Role != models.RoleManager {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Manager role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
