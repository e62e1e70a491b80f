package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/controllers"
)

func SetupInteractionRoutes(r *gin.Engine, requireUser gin.HandlerFunc, interactionController *controllers.InteractionController) {
	users := r.Group("/users", requireUser)
	{
		users.POST("/follow/:id", interactionController.FollowUser)
		users.POST("/stop-following/:id", interactionController.StopFollowing)
		users.POST("/like", interactionController.ToggleLike)
	}
}
