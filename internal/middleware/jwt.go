package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusgrid/grading-api/internal/service"
	appErrors "github.com/campusgrid/grading-api/pkg/errors"
	"github.com/campusgrid/grading-api/pkg/response"
)

// ContextUserKey is the gin context key storing grader claims.
const ContextUserKey = "currentGrader"

// JWT protects routes by requiring a valid grader token.
func JWT(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
