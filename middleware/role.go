package middleware

import (
	"pilateshub/models"

	"github.com/gin-gonic/gin"
)

// StudioOnly and InstructorOnly guard routes that act on the caller's own records.
func StudioOnly() gin.HandlerFunc {
	return RequireRole(models.RoleStudio)
}

func InstructorOnly() gin.HandlerFunc {
	return RequireRole(models.RoleInstructor)
}
