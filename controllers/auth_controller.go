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
	InvalidCredentialsMessage = "Invalid credentials."
	LogoutMessage             = "Logout Succesful"
	TakenMessage              = "Username or email already taken"
)

type AuthController struct {
	DB      *gorm.DB
	Metrics *utils.Metrics
}

func NewAuthController(db *gorm.DB, metrics *utils.Metrics) *AuthController {
	return &AuthController{
		DB:      db,
		Metrics: metrics,
	}
}

func (ac *AuthController) SignupPage(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{"Form": SignupForm{}})
}

// Signup creates the account and logs it in. Any existing login is
// replaced.
func (ac *AuthController) Signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "signup.html", gin.H{
			"Form":   form,
			"Errors": utils.FormErrors(err, &form),
		})
		return
	}

	user, err := models.Signup(ac.DB, models.SignupInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		ImageURL: form.ImageURL,
	})
	if err != nil {
		if errors.Is(err, models.ErrUsernameOrEmailTaken) {
			utils.AddFlash(c, "danger", TakenMessage)
			render(c, http.StatusOK, "signup.html", gin.H{"Form": form})
			return
		}
		serverError(c, err, "Failed to sign up user")
		return
	}

	ac.Metrics.Signups.Inc()
	if err := utils.Login(c, user.ID); err != nil {
		serverError(c, err, "Failed to start session")
		return
	}

	utils.LogSuccessWithUser(user.ID, "User signed up")
	c.Redirect(http.StatusFound, "/")
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"Form": LoginForm{}})
}

func (ac *AuthController) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "login.html", gin.H{
			"Form":   form,
			"Errors": utils.FormErrors(err, &form),
		})
		return
	}

	user, err := models.Authenticate(ac.DB, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			ac.Metrics.Logins.WithLabelValues("failure").Inc()
			utils.AddFlash(c, "danger", InvalidCredentialsMessage)
			render(c, http.StatusOK, "login.html", gin.H{"Form": form})
			return
		}
		serverError(c, err, "Failed to authenticate user")
		return
	}

	ac.Metrics.Logins.WithLabelValues("success").Inc()
	utils.AddFlash(c, "success", "Hello, "+user.Username+"!")
	if err := utils.Login(c, user.ID); err != nil {
		serverError(c, err, "Failed to start session")
		return
	}

	utils.LogSuccessWithUser(user.ID, "User logged in")
	c.Redirect(http.StatusFound, "/")
}

func (ac *AuthController) Logout(c *gin.Context) {
	utils.AddFlash(c, "success", LogoutMessage)
	if err := utils.Logout(c); err != nil {
		serverError(c, err, "Failed to clear session")
		return
	}
	if user := utils.GetUser(c); user != nil {
		utils.LogSuccessWithUser(user.ID, "User logged out")
	}
	c.Redirect(http.StatusFound, "/login")
}
