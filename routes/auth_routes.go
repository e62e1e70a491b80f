package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/controllers"
)

func SetupAuthRoutes(r *gin.Engine, authController *controllers.AuthController) {
	r.GET("/signup", authController.SignupPage)
	r.POST("/signup", authController.Signup)
	r.GET("/login", authController.LoginPage)
	r.POST("/login", authController.Login)
	r.GET("/logout", authController.Logout)
}
