package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/controllers"
)

func SetupMessageRoutes(r *gin.Engine, requireUser gin.HandlerFunc, messageController *controllers.MessageController) {
	messages := r.Group("/messages")
	{
		messages.GET("/new", requireUser, messageController.NewMessagePage)
		messages.POST("/new", requireUser, messageController.CreateMessage)
		messages.GET("/:id", messageController.ShowMessage)
		messages.POST("/:id/delete", requireUser, messageController.DeleteMessage)
	}
}
