package handlers

import (
	"net/http"
	"strconv"

	"settlement-service/internal/models"
	"settlement-service/pkg/common"

	"github.com/gin-gonic/gin"
)

const roleContextKey = "settlement-role"

// IdentityContext builds the caller's Role from the gateway headers.
// The external auth provider owns authentication; this service trusts
// the forwarded (client, user, is_admin) context without re-validating.
func IdentityContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientId, err := strconv.Atoi(c.GetHeader("X-Client-Id"))
		if err != nil || clientId <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewErrorResponse("Missing or invalid X-Client-Id header", nil, http.StatusUnauthorized))
			return
		}

		userId, err := strconv.Atoi(c.GetHeader("X-User-Id"))
		if err != nil || userId <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewErrorResponse("Missing or invalid X-User-Id header", nil, http.StatusUnauthorized))
			return
		}

		isAdmin := c.GetHeader("X-Is-Admin") == "true"

		var role models.Role
		if isAdmin {
			role = models.AdminRole(clientId, userId)
		} else {
			role = models.MemberRole(clientId, userId)
		}

		c.Set(roleContextKey, role)
		c.Next()
	}
}

// RequireAdmin gates the administrative surface.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFrom(c)
		if !role.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				common.NewErrorResponse("Admin privileges required", nil, http.StatusForbidden))
			return
		}
		c.Next()
	}
}

// RoleFrom returns the Role stored by IdentityContext.
func RoleFrom(c *gin.Context) models.Role {
	value, _ := c.Get(roleContextKey)
	role, _ := value.(models.Role)
	return role
}
