package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/utils"
	"gorm.io/gorm"
)

const WrongPasswordMessage = "Wrong password, please try again."

type UserController struct {
	DB      *gorm.DB
	Metrics *utils.Metrics
	Uploads *UploadController
}

func NewUserController(db *gorm.DB, metrics *utils.Metrics, uploads *UploadController) *UserController {
	return &UserController{
		DB:      db,
		Metrics: metrics,
		Uploads: uploads,
	}
}

// ListUsers shows every user, or those whose username contains ?q=.
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := models.SearchUsers(uc.DB, c.Query("q"))
	if err != nil {
		serverError(c, err, "Failed to list users")
		return
	}
	render(c, http.StatusOK, "users_index.html", gin.H{"Users": users})
}

func (uc *UserController) ShowUser(c *gin.Context) {
	profile, ok := uc.loadProfile(c)
	if !ok {
		return
	}

	messages, err := models.UserMessages(uc.DB, profile.ID, models.TimelineSize)
	if err != nil {
		serverError(c, err, "Failed to load user messages")
		return
	}

	data, ok := uc.profileData(c, profile)
	if !ok {
		return
	}
	data["Messages"] = messages
	render(c, http.StatusOK, "user_show.html", data)
}

func (uc *UserController) Following(c *gin.Context) {
	profile, ok := uc.loadProfile(c)
	if !ok {
		return
	}

	users, err := models.Following(uc.DB, profile)
	if err != nil {
		serverError(c, err, "Failed to load following")
		return
	}

	data, ok := uc.profileData(c, profile)
	if !ok {
		return
	}
	data["Users"] = users
	render(c, http.StatusOK, "user_following.html", data)
}

func (uc *UserController) Followers(c *gin.Context) {
	profile, ok := uc.loadProfile(c)
	if !ok {
		return
	}

	users, err := models.Followers(uc.DB, profile)
	if err != nil {
		serverError(c, err, "Failed to load followers")
		return
	}

	data, ok := uc.profileData(c, profile)
	if !ok {
		return
	}
	data["Users"] = users
	render(c, http.StatusOK, "user_followers.html", data)
}

func (uc *UserController) Likes(c *gin.Context) {
	profile, ok := uc.loadProfile(c)
	if !ok {
		return
	}

	messages, err := models.LikedMessages(uc.DB, profile)
	if err != nil {
		serverError(c, err, "Failed to load liked messages")
		return
	}

	data, ok := uc.profileData(c, profile)
	if !ok {
		return
	}
	data["Messages"] = messages
	render(c, http.StatusOK, "user_likes.html", data)
}

func (uc *UserController) EditProfilePage(c *gin.Context) {
	user := utils.GetUser(c)
	render(c, http.StatusOK, "user_edit.html", gin.H{
		"Form":           profileFormFor(user),
		"UploadsEnabled": uc.Uploads.Enabled(),
	})
}

// EditProfile applies the form after checking the user's password.
// Uploaded images take precedence over the URL fields.
func (uc *UserController) EditProfile(c *gin.Context) {
	user := utils.GetUser(c)

	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		uc.renderEdit(c, form, utils.FormErrors(err, &form))
		return
	}

	if _, err := models.Authenticate(uc.DB, user.Username, form.Password); err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			utils.AddFlash(c, "danger", WrongPasswordMessage)
			redirect(c, "/")
			return
		}
		serverError(c, err, "Failed to verify password")
		return
	}

	avatar, err := uc.Uploads.SaveFormImage(c, user.ID, "image_file", ProfileImageKind)
	if err != nil {
		uc.renderUploadError(c, form, err)
		return
	}
	header, err := uc.Uploads.SaveFormImage(c, user.ID, "header_image_file", HeaderImageKind)
	if err != nil {
		uc.Uploads.Discard(c.Request.Context(), avatar)
		uc.renderUploadError(c, form, err)
		return
	}
	if avatar != nil {
		form.ImageURL = avatar.URL
	}
	if header != nil {
		form.HeaderImageURL = header.URL
	}

	// Edit a copy so a rejected update leaves the request's user intact.
	updated := *user
	updated.EditUser(form.Username, form.Email, form.ImageURL, form.HeaderImageURL, form.Location, form.Bio)

	if err := models.SaveProfile(uc.DB, &updated); err != nil {
		uc.Uploads.Discard(c.Request.Context(), avatar, header)
		if errors.Is(err, models.ErrUsernameOrEmailTaken) {
			utils.AddFlash(c, "danger", TakenMessage)
			uc.renderEdit(c, form, nil)
			return
		}
		serverError(c, err, "Failed to update profile")
		return
	}

	utils.LogSuccessWithUser(user.ID, "Profile updated")
	redirect(c, userPath(user.ID))
}

// DeleteUser removes the account and ends the session.
func (uc *UserController) DeleteUser(c *gin.Context) {
	user := utils.GetUser(c)

	if err := models.DeleteUser(uc.DB, user); err != nil {
		serverError(c, err, "Failed to delete user")
		return
	}
	if err := utils.Logout(c); err != nil {
		serverError(c, err, "Failed to clear session")
		return
	}

	utils.LogSuccessWithUser(user.ID, "User deleted")
	c.Redirect(http.StatusFound, "/signup")
}

func (uc *UserController) loadProfile(c *gin.Context) (*models.User, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return nil, false
	}

	profile, err := models.FindUser(uc.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return nil, false
		}
		serverError(c, err, "Failed to load user")
		return nil, false
	}
	return profile, true
}

// profileData collects what the profile header shows.
func (uc *UserController) profileData(c *gin.Context, profile *models.User) (gin.H, bool) {
	stats, err := models.LoadUserStats(uc.DB, profile)
	if err != nil {
		serverError(c, err, "Failed to load user stats")
		return nil, false
	}

	isFollowing := false
	if user := utils.GetUser(c); user != nil && user.ID != profile.ID {
		isFollowing, err = user.IsFollowing(uc.DB, profile)
		if err != nil {
			serverError(c, err, "Failed to load follow state")
			return nil, false
		}
	}

	return gin.H{
		"Profile":     profile,
		"Stats":       stats,
		"IsFollowing": isFollowing,
	}, true
}

func (uc *UserController) renderEdit(c *gin.Context, form ProfileForm, errs map[string][]string) {
	form.Password = ""
	data := gin.H{
		"Form":           form,
		"UploadsEnabled": uc.Uploads.Enabled(),
	}
	if errs != nil {
		data["Errors"] = errs
	}
	render(c, http.StatusOK, "user_edit.html", data)
}

func (uc *UserController) renderUploadError(c *gin.Context, form ProfileForm, err error) {
	switch {
	case errors.Is(err, ErrInvalidImageType):
		uc.renderEdit(c, form, map[string][]string{"image_file": {"Images must be JPEG, PNG, WebP or GIF."}})
	case errors.Is(err, ErrImageTooLarge):
		uc.renderEdit(c, form, map[string][]string{"image_file": {"Images must be 5MB or smaller."}})
	default:
		serverError(c, err, "Failed to store image")
	}
}

func profileFormFor(user *models.User) ProfileForm {
	form := ProfileForm{
		Username:       user.Username,
		Email:          user.Email,
		ImageURL:       user.ImageURL,
		HeaderImageURL: user.HeaderImageURL,
	}
	if user.Location != nil {
		form.Location = *user.Location
	}
	if user.Bio != nil {
		form.Bio = *user.Bio
	}
	return form
}
