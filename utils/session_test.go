package utils_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warbler/web-go/utils"
)

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := utils.NewSessionStore("session-test-secret", false)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		utils.UseSessionStore(c, store)
		c.Next()
	})
	r.GET("/login", func(c *gin.Context) {
		utils.AddFlash(c, "success", "welcome")
		_ = utils.Login(c, 42)
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := utils.CurrentUserID(c)
		var messages []string
		for _, f := range utils.Flashes(c) {
			messages = append(messages, f.Category+":"+f.Message)
		}
		_ = utils.SaveSession(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok, "flashes": strings.Join(messages, ",")})
	})
	r.GET("/logout", func(c *gin.Context) {
		_ = utils.Logout(c)
		c.Status(http.StatusNoContent)
	})
	return r
}

func serve(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionLoginFlashLogout(t *testing.T) {
	r := sessionRouter()

	w := serve(r, "/login", nil)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	cookie := cookies[0]
	assert.Equal(t, utils.SessionName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 3600*16, cookie.MaxAge)

	w = serve(r, "/whoami", cookies)
	assert.JSONEq(t, `{"id": 42, "ok": true, "flashes": "success:welcome"}`, w.Body.String())

	// Flashes are consumed once.
	cookies = w.Result().Cookies()
	w = serve(r, "/whoami", cookies)
	assert.JSONEq(t, `{"id": 42, "ok": true, "flashes": ""}`, w.Body.String())

	w = serve(r, "/logout", cookies)
	w = serve(r, "/whoami", w.Result().Cookies())
	assert.JSONEq(t, `{"id": 0, "ok": false, "flashes": ""}`, w.Body.String())
}

func TestSessionTamperedCookie(t *testing.T) {
	r := sessionRouter()

	w := serve(r, "/whoami", []*http.Cookie{{Name: utils.SessionName, Value: "forged"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 0, "ok": false, "flashes": ""}`, w.Body.String())
}
