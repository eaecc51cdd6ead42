package Middleware

import (
	"net/http"

	"github.com/Chidinma123456/AvaBuddie/Models"
	"github.com/Chidinma123456/AvaBuddie/Utils/Token"

	"github.com/gin-gonic/gin"
)

func JwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := Token.TokenValid(c)
		if err != nil {
			c.String(http.StatusUnauthorized, "Unauthorized Token Invalid")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetProfile resolves the caller's profile once and stores it on the context.
func SetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := Token.ExtractTokenID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		profile, err := Models.GetProfileByUserID(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
			c.Abort()
			return
		}

		c.Set("profile", profile)
		c.Next()
	}
}

// RequireRole gates a route group to the given profile roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("profile")
		if !exists {
			c.String(http.StatusUnauthorized, "Unauthorized Profile Not Set")
			c.Abort()
			return
		}
		profile := value.(Models.Profile)
		for _, role := range roles {
			if profile.Role == role {
				c.Next()
				return
			}
		}
		c.String(http.StatusForbidden, "Unauthorized Not Enough Permission")
		c.Abort()
	}
}
