package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// SetUser records the logged-in user for the rest of the request.
func SetUser(c *gin.Context, user *models.User) {
	c.Set(string(UserContextKey), user)
}

// GetUser returns the logged-in user, or nil for anonymous requests.
func GetUser(c *gin.Context) *models.User {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if u, ok := user.(*models.User); ok {
		return u
	}
	return nil
}
