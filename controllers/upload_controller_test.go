package controllers_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warbler/web-go/controllers"
	"github.com/warbler/web-go/models"
)

type memoryImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemoryImageStore() *memoryImageStore {
	return &memoryImageStore{objects: map[string][]byte{}}
}

func (s *memoryImageStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (s *memoryImageStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memoryImageStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

type upload struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func profileUploadRequest(t *testing.T, fields map[string]string, files ...upload) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.filename))
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func profileFields(password string) map[string]string {
	return map[string]string{
		"username": "testuser",
		"email":    "test@test.com",
		"password": password,
	}
}

func TestEditProfileUploadsImages(t *testing.T) {
	store := newMemoryImageStore()
	f := setupWithImages(t, store)
	f.login(t)

	w := f.client.Get("/users/profile")
	assert.Contains(t, w.Body.String(), `name="image_file"`)

	w = f.client.Do(profileUploadRequest(t, profileFields("testuser"),
		upload{"image_file", "me.PNG", "image/png", []byte("png-bytes")},
		upload{"header_image_file", "header.jpg", "image/jpeg", []byte("jpeg-bytes")},
	))
	require.Equal(t, http.StatusFound, w.Code)

	keys := store.keys()
	require.Len(t, keys, 2)

	user, err := models.FindUser(f.db, 1234)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(user.ImageURL, "https://cdn.test/users/1234/avatar/"))
	assert.True(t, strings.HasSuffix(user.ImageURL, ".png"))
	assert.True(t, strings.HasPrefix(user.HeaderImageURL, "https://cdn.test/users/1234/header/"))
}

func TestEditProfileRejectsBadImageType(t *testing.T) {
	store := newMemoryImageStore()
	f := setupWithImages(t, store)
	f.login(t)

	w := f.client.Do(profileUploadRequest(t, profileFields("testuser"),
		upload{"image_file", "notes.txt", "text/plain", []byte("hello")},
	))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Images must be JPEG, PNG, WebP or GIF.")
	assert.Empty(t, store.keys())

	user, err := models.FindUser(f.db, 1234)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultImageURL, user.ImageURL)
}

func TestEditProfileDiscardsImagesOnConflict(t *testing.T) {
	store := newMemoryImageStore()
	f := setupWithImages(t, store)
	f.login(t)

	fields := profileFields("testuser")
	fields["username"] = "abc"
	w := f.client.Do(profileUploadRequest(t, fields,
		upload{"image_file", "me.png", "image/png", []byte("png-bytes")},
	))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username or email already taken")
	assert.Empty(t, store.keys())
	assert.Len(t, store.deleted, 1)
}

func TestSaveFormImageRequestErrors(t *testing.T) {
	uploads := controllers.NewUploadController(newMemoryImageStore())

	formContext := func(req *http.Request) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = req
		return c
	}

	t.Run("no file field", func(t *testing.T) {
		c := formContext(profileUploadRequest(t, profileFields("testuser")))
		img, err := uploads.SaveFormImage(c, 1234, "image_file", controllers.ProfileImageKind)
		assert.NoError(t, err)
		assert.Nil(t, img)
	})

	t.Run("url encoded form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users/profile", strings.NewReader("username=testuser"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		img, err := uploads.SaveFormImage(formContext(req), 1234, "image_file", controllers.ProfileImageKind)
		assert.NoError(t, err)
		assert.Nil(t, img)
	})

	t.Run("broken multipart body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users/profile", strings.NewReader("not multipart at all"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
		img, err := uploads.SaveFormImage(formContext(req), 1234, "image_file", controllers.ProfileImageKind)
		assert.Error(t, err)
		assert.Nil(t, img)
	})
}
