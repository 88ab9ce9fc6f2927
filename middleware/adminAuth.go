package middleware

import (
	"net/http"

	"hotelbooking/models"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminOnly must run after JWTAuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != models.RoleAdmin {
			zap.L().Warn("Admin access denied",
				zap.String("user", c.GetString(CtxUserID)),
				zap.String("path", c.FullPath()))
			utils.JSONError(c, http.StatusForbidden, "Admin access required", "")
			return
		}
		c.Set("isAdmin", true)
		c.Next()
	}
}
