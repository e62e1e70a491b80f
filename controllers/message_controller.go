package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/warbler/web-go/middleware"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/utils"
	"gorm.io/gorm"
)

type MessageController struct {
	DB      *gorm.DB
	Metrics *utils.Metrics
}

func NewMessageController(db *gorm.DB, metrics *utils.Metrics) *MessageController {
	return &MessageController{
		DB:      db,
		Metrics: metrics,
	}
}

func (mc *MessageController) NewMessagePage(c *gin.Context) {
	render(c, http.StatusOK, "message_new.html", gin.H{"Form": MessageForm{}})
}

// CreateMessage accepts either the HTML form or the JSON body sent by the
// new message modal.
func (mc *MessageController) CreateMessage(c *gin.Context) {
	if c.ContentType() == binding.MIMEJSON {
		mc.createFromJSON(c)
		return
	}

	user := utils.GetUser(c)

	var form MessageForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "message_new.html", gin.H{
			"Form":   form,
			"Errors": utils.FormErrors(err, &form),
		})
		return
	}

	if _, err := models.CreateMessage(mc.DB, user, form.Text); err != nil {
		if errors.Is(err, models.ErrMessageText) {
			render(c, http.StatusOK, "message_new.html", gin.H{
				"Form":   form,
				"Errors": map[string][]string{"text": {"This field is required."}},
			})
			return
		}
		serverError(c, err, "Failed to create message")
		return
	}

	mc.Metrics.Messages.WithLabelValues("created").Inc()
	redirect(c, userPath(user.ID))
}

// createFromJSON godoc
// @Summary Post a message
// @Tags messages
// @Accept json
// @Produce json
// @Param body body MessageRequest true "Message text"
// @Success 200 {object} MessageResponse
// @Router /messages/new [post]
func (mc *MessageController) createFromJSON(c *gin.Context) {
	user := utils.GetUser(c)

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := models.CreateMessage(mc.DB, user, req.Text)
	if err != nil {
		if errors.Is(err, models.ErrMessageText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		utils.LogErrorWithUser(user.ID, err, "Failed to create message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	mc.Metrics.Messages.WithLabelValues("created").Inc()
	c.JSON(http.StatusOK, MessageResponse{
		ID:        msg.ID,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
		UserID:    msg.UserID,
	})
}

func (mc *MessageController) ShowMessage(c *gin.Context) {
	msg, ok := mc.loadMessage(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "message_show.html", gin.H{"Message": msg})
}

// DeleteMessage removes a message written by the current user. Anyone
// else is turned away like an anonymous visitor.
func (mc *MessageController) DeleteMessage(c *gin.Context) {
	user := utils.GetUser(c)
	msg, ok := mc.loadMessage(c)
	if !ok {
		return
	}

	if msg.UserID != user.ID {
		mc.Metrics.Unauthorized.WithLabelValues(c.FullPath()).Inc()
		utils.AddFlash(c, "danger", middleware.UnauthorizedMessage)
		redirect(c, "/")
		return
	}

	if err := models.DeleteMessage(mc.DB, msg); err != nil {
		serverError(c, err, "Failed to delete message")
		return
	}

	mc.Metrics.Messages.WithLabelValues("deleted").Inc()
	redirect(c, userPath(user.ID))
}

func (mc *MessageController) loadMessage(c *gin.Context) (*models.Message, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return nil, false
	}

	msg, err := models.FindMessage(mc.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return nil, false
		}
		serverError(c, err, "Failed to load message")
		return nil, false
	}
	return msg, true
}
