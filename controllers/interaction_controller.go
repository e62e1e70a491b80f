package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/utils"
	"gorm.io/gorm"
)

const (
	LikeAdded       = "like added"
	LikeRemoved     = "like removed"
	LikeOwnMessage  = "Cant like own message"
	SelfFollowError = "You can't follow yourself."
)

type InteractionController struct {
	DB      *gorm.DB
	Metrics *utils.Metrics
}

func NewInteractionController(db *gorm.DB, metrics *utils.Metrics) *InteractionController {
	return &InteractionController{
		DB:      db,
		Metrics: metrics,
	}
}

// FollowUser adds a follow edge from the current user to :id.
func (ic *InteractionController) FollowUser(c *gin.Context) {
	user := utils.GetUser(c)
	followed, ok := ic.loadTarget(c)
	if !ok {
		return
	}

	if err := models.FollowUser(ic.DB, user, followed); err != nil {
		if errors.Is(err, models.ErrSelfFollow) {
			utils.AddFlash(c, "danger", SelfFollowError)
			redirect(c, userPath(user.ID))
			return
		}
		serverError(c, err, "Failed to follow user")
		return
	}

	ic.Metrics.Follows.WithLabelValues("follow").Inc()
	redirect(c, userPath(user.ID)+"/following")
}

// StopFollowing removes the follow edge from the current user to :id.
func (ic *InteractionController) StopFollowing(c *gin.Context) {
	user := utils.GetUser(c)
	followed, ok := ic.loadTarget(c)
	if !ok {
		return
	}

	if err := models.UnfollowUser(ic.DB, user, followed); err != nil {
		serverError(c, err, "Failed to unfollow user")
		return
	}

	ic.Metrics.Follows.WithLabelValues("unfollow").Inc()
	redirect(c, userPath(user.ID)+"/following")
}

// ToggleLike godoc
// @Summary Like or unlike a message
// @Description Toggles the current user's like on msg_id
// @Tags interactions
// @Accept json
// @Produce json
// @Param body body LikeRequest true "Message to toggle"
// @Success 200 {object} ResultResponse
// @Router /users/like [post]
func (ic *InteractionController) ToggleLike(c *gin.Context) {
	user := utils.GetUser(c)

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msgID, err := req.MessageID.Int64()
	if err != nil || msgID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "msg_id must be a positive integer"})
		return
	}

	msg, err := models.FindMessage(ic.DB, uint(msgID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		utils.LogErrorWithUser(user.ID, err, "Failed to load message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	liked, err := models.ToggleLike(ic.DB, user, msg)
	switch {
	case errors.Is(err, models.ErrOwnMessage):
		ic.Metrics.Likes.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusOK, ResultResponse{Result: LikeOwnMessage})
	case err != nil:
		utils.LogErrorWithUser(user.ID, err, "Failed to toggle like")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
	case liked:
		ic.Metrics.Likes.WithLabelValues("added").Inc()
		c.JSON(http.StatusOK, ResultResponse{Result: LikeAdded})
	default:
		ic.Metrics.Likes.WithLabelValues("removed").Inc()
		c.JSON(http.StatusOK, ResultResponse{Result: LikeRemoved})
	}
}

func (ic *InteractionController) loadTarget(c *gin.Context) (*models.User, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return nil, false
	}

	target, err := models.FindUser(ic.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return nil, false
		}
		serverError(c, err, "Failed to load user")
		return nil, false
	}
	return target, true
}
