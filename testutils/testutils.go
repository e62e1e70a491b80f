package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/warbler/web-go/controllers"
	"github.com/warbler/web-go/models"
	"github.com/warbler/web-go/routes"
	"github.com/warbler/web-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestSecret = "test-secret"

func InitTestMain() {
	gin.SetMode(gin.TestMode)
	utils.ConfigureLogger("error", io.Discard)
}

// SetupTestDB opens a private in-memory SQLite database with the schema
// migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %s", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %s", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %s", err)
	}
	return db
}

// SetupMockDB returns a gorm handle backed by sqlmock for failure paths.
func SetupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %s", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open gorm: %s", err)
	}
	return db, mock
}

// SetupTestRouter builds the full application router on db.
func SetupTestRouter(t *testing.T, db *gorm.DB, images controllers.ImageStore) *gin.Engine {
	t.Helper()

	r, err := routes.NewRouter(routes.Options{
		DB:       db,
		Sessions: utils.NewSessionStore(TestSecret, false),
		Metrics:  utils.NewMetrics(),
		Images:   images,
	})
	if err != nil {
		t.Fatalf("router: %s", err)
	}
	return r
}

// CreateUser inserts a user with a fixed ID. A cheap bcrypt cost keeps
// tests fast.
func CreateUser(t *testing.T, db *gorm.DB, id uint, username, email, password string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %s", err)
	}
	user := &models.User{
		ID:             id,
		Username:       username,
		Email:          email,
		Password:       string(hashed),
		ImageURL:       models.DefaultImageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %s", username, err)
	}
	return user
}

func CreateMessage(t *testing.T, db *gorm.DB, id, userID uint, text string) *models.Message {
	t.Helper()

	msg := &models.Message{ID: id, Text: text, UserID: userID}
	if err := db.Create(msg).Error; err != nil {
		t.Fatalf("create message: %s", err)
	}
	return msg
}

// Client sends requests to a router and keeps the cookies it sets, like
// a browser would.
type Client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func NewClient(t *testing.T, handler http.Handler) *Client {
	return &Client{t: t, handler: handler, cookies: map[string]*http.Cookie{}}
}

func (c *Client) SetCookie(cookie *http.Cookie) {
	c.cookies[cookie.Name] = cookie
}

func (c *Client) Cookie(name string) *http.Cookie {
	return c.cookies[name]
}

func (c *Client) Do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *Client) Get(path string) *httptest.ResponseRecorder {
	return c.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *Client) PostForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req)
}

func (c *Client) PostJSON(path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	if err != nil {
		c.t.Fatalf("marshal body: %s", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

// FollowRedirect issues a GET for the Location of a redirect response.
func (c *Client) FollowRedirect(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	location := w.Header().Get("Location")
	if location == "" {
		c.t.Fatalf("response %d has no Location header", w.Code)
	}
	return c.Get(location)
}

// Login posts the login form and fails the test unless it redirects.
func (c *Client) Login(username, password string) {
	w := c.PostForm("/login", url.Values{"username": {username}, "password": {password}})
	if w.Code != http.StatusFound {
		c.t.Fatalf("login as %s: status %d", username, w.Code)
	}
}

// SetSessionUser plants a signed session cookie naming userID, whether or
// not such a user exists.
func (c *Client) SetSessionUser(userID uint) {
	codecs := securecookie.CodecsFromPairs([]byte(TestSecret))
	values := map[interface{}]interface{}{utils.CurrUserKey: userID}
	encoded, err := securecookie.EncodeMulti(utils.SessionName, values, codecs...)
	if err != nil {
		c.t.Fatalf("encode session: %s", err)
	}
	c.SetCookie(&http.Cookie{Name: utils.SessionName, Value: encoded, Path: "/"})
}
