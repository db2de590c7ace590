package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"threatlens/internal/dao"
	apperrors "threatlens/pkg/errors"
)

const ownerKey = "owner"

// AuthRequired resolves the Bearer token to an account and stores the
// owner id on the request context. Accounts are provisioned out of band.
func AuthRequired(users dao.UserDAO) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "error": "missing bearer token"})
			return
		}

		user, err := users.FindByToken(token)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.AbortWithStatusJSON(401, gin.H{"success": false, "error": "invalid token"})
				return
			}
			c.AbortWithStatusJSON(500, gin.H{"success": false, "error": "internal error"})
			return
		}

		c.Set(ownerKey, user.ID)
		c.Next()
	}
}

func ownerFrom(c *gin.Context) string {
	return c.GetString(ownerKey)
}
