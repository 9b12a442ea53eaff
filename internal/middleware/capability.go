package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/escolar-mx/secundaria-api/internal/models"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
	"github.com/escolar-mx/secundaria-api/pkg/response"
)

// RequireCapability gates a route on the authenticated role holding the
// capability. Roles never appear at call sites; routes declare the action
// they need and models.Role decides who holds it.
func RequireCapability(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if !claims.Role.Can(capability) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
