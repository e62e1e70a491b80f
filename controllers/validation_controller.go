package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/utils"
	"gorm.io/gorm"
)

// ValidationController answers the signup form's availability checks.
type ValidationController struct {
	DB *gorm.DB
}

type AvailabilityResponse struct {
	Exists bool `json:"exists"`
}

func NewValidationController(db *gorm.DB) *ValidationController {
	return &ValidationController{DB: db}
}

func (vc *ValidationController) ValidateUsername(c *gin.Context) {
	vc.respond(c, "username", c.Param("username"))
}

func (vc *ValidationController) ValidateEmail(c *gin.Context) {
	vc.respond(c, "email", c.Param("email"))
}

func (vc *ValidationController) respond(c *gin.Context, field, value string) {
	exists, err := models.UserFieldTaken(vc.DB, field, value)
	if err != nil {
		utils.LogError(err, "Failed to check "+field)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check " + field})
		return
	}
	c.JSON(http.StatusOK, AvailabilityResponse{Exists: exists})
}
