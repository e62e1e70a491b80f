package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/utils"
	"gorm.io/gorm"
)

type HomeController struct {
	DB *gorm.DB
}

func NewHomeController(db *gorm.DB) *HomeController {
	return &HomeController{DB: db}
}

// Home shows the timeline of the logged-in user, or the sign up pitch.
func (hc *HomeController) Home(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		render(c, http.StatusOK, "home_anon.html", nil)
		return
	}

	messages, err := models.Timeline(hc.DB, user, models.TimelineSize)
	if err != nil {
		serverError(c, err, "Failed to load timeline")
		return
	}
	liked, err := models.LikedMessageIDs(hc.DB, user)
	if err != nil {
		serverError(c, err, "Failed to load likes")
		return
	}
	stats, err := models.LoadUserStats(hc.DB, user)
	if err != nil {
		serverError(c, err, "Failed to load user stats")
		return
	}

	render(c, http.StatusOK, "home.html", gin.H{
		"Messages": messages,
		"Liked":    liked,
		"Stats":    stats,
	})
}

func (hc *HomeController) NotFound(c *gin.Context) {
	notFound(c)
}

// Health godoc
// @Summary Database health check
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (hc *HomeController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := hc.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		utils.LogError(err, "Database health check failed")
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "down"})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "up"})
}
