package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warbler/web-go/controllers"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/testutils"
	"gorm.io/gorm"
)

func TestAddMessage(t *testing.T) {
	f := setup(t)
	f.client.SetSessionUser(f.testuser.ID)

	w := f.client.PostJSON("/messages/new", map[string]string{"msg_text": "Hello"})
	assert.Equal(t, http.StatusOK, w.Code)

	var res controllers.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Hello", res.Text)
	assert.Equal(t, f.testuser.ID, res.UserID)

	msg, err := models.FindMessage(f.db, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Text)
}

func TestAddMessageForm(t *testing.T) {
	f := setup(t)
	f.login(t)

	w := f.client.PostForm("/messages/new", url.Values{"text": {"Hello from a form"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/1234", w.Header().Get("Location"))

	w = f.client.FollowRedirect(w)
	assert.Contains(t, w.Body.String(), "Hello from a form")
}

func TestAddMessageTooLong(t *testing.T) {
	f := setup(t)
	f.login(t)

	w := f.client.PostForm("/messages/new", url.Values{"text": {strings.Repeat("a", 141)}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Field cannot be longer than 140 characters.")

	w = f.client.PostJSON("/messages/new", map[string]string{"msg_text": strings.Repeat("a", 141)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, f.db.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewMessagePage(t *testing.T) {
	f := setup(t)
	f.login(t)

	w := f.client.Get("/messages/new")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="message-text"`)
}

func TestAddMessageNoSession(t *testing.T) {
	f := setup(t)

	w := f.client.PostForm("/messages/new", url.Values{"text": {"Hello"}})
	w = f.client.FollowRedirect(w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Access unauthorized")
}

func TestAddMessageInvalidUser(t *testing.T) {
	f := setup(t)
	f.client.SetSessionUser(99222224)

	w := f.client.PostForm("/messages/new", url.Values{"text": {"Hello"}})
	w = f.client.FollowRedirect(w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Access unauthorized")
}

func TestLoggedOutAddMessageJSON(t *testing.T) {
	f := setup(t)

	w := f.client.PostJSON("/messages/new", map[string]string{"msg_text": "My New Post"})
	w = f.client.FollowRedirect(w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Access unauthorized")

	var count int64
	require.NoError(t, f.db.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMessageShow(t *testing.T) {
	f := setup(t)
	testutils.CreateMessage(t, f.db, 1234, f.testuser.ID, "a test message")
	f.client.SetSessionUser(f.testuser.ID)

	w := f.client.Get("/messages/1234")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a test message")
	assert.Contains(t, w.Body.String(), `action="/messages/1234/delete"`)
}

func TestInvalidMessageShow(t *testing.T) {
	f := setup(t)
	f.client.SetSessionUser(f.testuser.ID)

	w := f.client.Get("/messages/99999999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoggedInAddMessageShowsOnHome(t *testing.T) {
	f := setup(t)
	f.login(t)

	w := f.client.PostJSON("/messages/new", map[string]string{"msg_text": "My New Post"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.client.Get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "My New Post")

	var msg models.Message
	require.NoError(t, f.db.Where("text = ?", "My New Post").First(&msg).Error)
	assert.Equal(t, uint(1234), msg.UserID)
}

func TestLoggedInDeleteMessage(t *testing.T) {
	f := setup(t)
	testutils.CreateMessage(t, f.db, 1, f.testuser.ID, "My New Post")
	f.login(t)

	w := f.client.PostForm("/messages/1/delete", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/1234", w.Header().Get("Location"))

	_, err := models.FindMessage(f.db, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLoggedOutDeleteMessage(t *testing.T) {
	f := setup(t)
	testutils.CreateMessage(t, f.db, 1234, f.testuser.ID, "test msg")

	w := f.client.PostForm("/messages/1234/delete", nil)
	w = f.client.FollowRedirect(w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Access unauthorized")

	_, err := models.FindMessage(f.db, 1234)
	assert.NoError(t, err)
}

func TestDeleteOthersMessage(t *testing.T) {
	f := setup(t)
	testutils.CreateMessage(t, f.db, 1111, f.testuser.ID, "not my message")
	f.client.SetSessionUser(f.u1.ID)

	w := f.client.PostForm("/messages/1111/delete", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = f.client.FollowRedirect(w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Access unauthorized")

	_, err := models.FindMessage(f.db, 1111)
	assert.NoError(t, err)
}
