package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/utils"
)

// render fills in the data every page needs (current user, pending
// flashes and the form error map) and writes the named template.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = utils.GetUser(c)
	data["Flashes"] = utils.Flashes(c)
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string][]string{}
	}

	if err := utils.SaveSession(c); err != nil {
		utils.LogError(err, "Failed to save session")
	}
	c.HTML(status, name, data)
}

// redirect persists queued flashes and sends a 302 to location.
func redirect(c *gin.Context, location string) {
	if err := utils.SaveSession(c); err != nil {
		utils.LogError(err, "Failed to save session")
	}
	c.Redirect(http.StatusFound, location)
}

func notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "not_found.html", nil)
}

func serverError(c *gin.Context, err error, message string) {
	if user := utils.GetUser(c); user != nil {
		utils.LogErrorWithUser(user.ID, err, message)
	} else {
		utils.LogError(err, message)
	}
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func userPath(id uint) string {
	return "/users/" + strconv.FormatUint(uint64(id), 10)
}
