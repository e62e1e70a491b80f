package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/controllers"
)

func SetupUserRoutes(r *gin.Engine, requireUser gin.HandlerFunc, userController *controllers.UserController) {
	users := r.Group("/users")
	{
		// Public pages
		users.GET("", userController.ListUsers)
		users.GET("/:id", userController.ShowUser)
		users.GET("/:id/likes", userController.Likes)

		// Logged-in pages
		users.GET("/:id/following", requireUser, userController.Following)
		users.GET("/:id/followers", requireUser, userController.Followers)
		users.GET("/profile", requireUser, userController.EditProfilePage)
		users.POST("/profile", requireUser, userController.EditProfile)
		users.POST("/delete", requireUser, userController.DeleteUser)
	}
}
