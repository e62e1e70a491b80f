package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warbler/web-go/controllers"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/testutils"
)

func likeCount(t *testing.T, f *fixture) int64 {
	var count int64
	require.NoError(t, f.db.Model(&models.Like{}).Count(&count).Error)
	return count
}

func decodeResult(t *testing.T, body []byte) string {
	var res controllers.ResultResponse
	require.NoError(t, json.Unmarshal(body, &res))
	return res.Result
}

func TestLoggedInAddAndRemoveLike(t *testing.T) {
	f := setup(t)
	testutils.CreateMessage(t, f.db, 1111, f.u1.ID, "The earth is round")
	f.login(t)

	w := f.client.PostJSON("/users/like", map[string]interface{}{"msg_id": 1111})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "like added", decodeResult(t, w.Body.Bytes()))
	assert.Equal(t, int64(1), likeCount(t, f))

	w = f.client.PostJSON("/users/like", map[string]interface{}{"msg_id": 1111})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "like removed", decodeResult(t, w.Body.Bytes()))
	assert.Equal(t, int64(0), likeCount(t, f))
}

func TestLikeWithStringID(t *testing.T) {
	f := setup(t)
	testutils.CreateMessage(t, f.db, 1111, f.u1.ID, "The earth is round")
	f.login(t)

	w := f.client.PostJSON("/users/like", map[string]interface{}{"msg_id": "1111"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "like added", decodeResult(t, w.Body.Bytes()))
}

func TestLikeOwnMessage(t *testing.T) {
	f := setup(t)
	testutils.CreateMessage(t, f.db, 1111, f.testuser.ID, "The earth is round")
	f.login(t)

	w := f.client.PostJSON("/users/like", map[string]interface{}{"msg_id": 1111})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cant like own message", decodeResult(t, w.Body.Bytes()))
	assert.Equal(t, int64(0), likeCount(t, f))
}

func TestLikeUnknownMessage(t *testing.T) {
	f := setup(t)
	f.login(t)

	w := f.client.PostJSON("/users/like", map[string]interface{}{"msg_id": 424242})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeBadRequest(t *testing.T) {
	f := setup(t)
	f.login(t)

	w := f.client.PostJSON("/users/like", map[string]interface{}{"msg_id": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.client.PostJSON("/users/like", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoggedOutAddLike(t *testing.T) {
	f := setup(t)
	testutils.CreateMessage(t, f.db, 1111, f.u1.ID, "The earth is round")

	w := f.client.PostJSON("/users/like", map[string]interface{}{"msg_id": 1111})
	assert.Equal(t, http.StatusFound, w.Code)

	w = f.client.FollowRedirect(w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Access unauthorized")
	assert.Equal(t, int64(0), likeCount(t, f))
}

func TestHomeShowsLikedState(t *testing.T) {
	f := setup(t)
	msg := testutils.CreateMessage(t, f.db, 1111, f.u1.ID, "The earth is round")
	require.NoError(t, models.FollowUser(f.db, f.testuser, f.u1))
	f.login(t)

	w := f.client.Get("/")
	assert.Contains(t, w.Body.String(), "The earth is round")
	assert.Contains(t, w.Body.String(), "fa-thumbs-down")

	_, err := models.ToggleLike(f.db, f.testuser, msg)
	require.NoError(t, err)

	w = f.client.Get("/")
	assert.Contains(t, w.Body.String(), "fa-thumbs-up")
}
