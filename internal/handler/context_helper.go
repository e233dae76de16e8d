package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusgrid/grading-api/internal/middleware"
	"github.com/campusgrid/grading-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.GraderClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.GraderClaims)
	if !ok {
		return nil
	}
	return claims
}
