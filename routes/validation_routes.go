package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/controllers"
)

func SetupValidationRoutes(r *gin.Engine, validationController *controllers.ValidationController) {
	validation := r.Group("/validation")
	{
		validation.GET("/username/:username", validationController.ValidateUsername)
		validation.GET("/email/:email", validationController.ValidateEmail)
	}
}
