package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lexledger/lexledger-api/internal/models"
	appErrors "github.com/lexledger/lexledger-api/pkg/errors"
	"github.com/lexledger/lexledger-api/pkg/response"
)

// RequireAdmin restricts a route to admin accounts. Must run after JWT.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok || claims.Kind != models.KindAdmin {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
