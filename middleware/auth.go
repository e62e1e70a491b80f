package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/utils"
	"gorm.io/gorm"
)

const UnauthorizedMessage = "Access unauthorized."

// Sessions exposes the cookie store to the session helpers.
func Sessions(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.UseSessionStore(c, store)
		c.Next()
	}
}

// CurrentUser loads the user named by the session, if any. A session
// pointing at a user that no longer exists is treated as anonymous.
func CurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := utils.CurrentUserID(c)
		if !ok {
			c.Next()
			return
		}

		user, err := models.FindUser(db, userID)
		switch {
		case err == nil:
			utils.SetUser(c, user)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Logger.WithField("user_id", userID).Warn("Session references unknown user")
		default:
			utils.LogErrorWithUser(userID, err, "Failed to load session user")
		}

		c.Next()
	}
}

// RequireUser rejects anonymous requests with a flash and a redirect home.
func RequireUser(metrics *utils.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.GetUser(c) != nil {
			c.Next()
			return
		}

		metrics.Unauthorized.WithLabelValues(c.FullPath()).Inc()
		utils.AddFlash(c, "danger", UnauthorizedMessage)
		if err := utils.SaveSession(c); err != nil {
			utils.LogError(err, "Failed to save session")
		}
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}
