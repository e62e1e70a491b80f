package utils

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "warbler_session"
	CurrUserKey = "curr_user"

	sessionStoreKey = "session_store"
	sessionMaxAge   = 3600 * 16 // 16 hours
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// NewSessionStore returns the signed cookie store holding the session.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	// Also bounds the signed timestamp inside the cookie.
	store.MaxAge(sessionMaxAge)
	return store
}

// UseSessionStore makes store available to the session helpers.
func UseSessionStore(c *gin.Context, store sessions.Store) {
	c.Set(sessionStoreKey, store)
}

// GetSession returns the request's session. A cookie that fails to decode
// yields a fresh session.
func GetSession(c *gin.Context) *sessions.Session {
	store := c.MustGet(sessionStoreKey).(sessions.Store)
	session, err := store.Get(c.Request, SessionName)
	if err != nil {
		Logger.WithError(err).Debug("Discarding undecodable session cookie")
	}
	return session
}

func SaveSession(c *gin.Context) error {
	return GetSession(c).Save(c.Request, c.Writer)
}

// Login stores userID under the current-user key.
func Login(c *gin.Context, userID uint) error {
	session := GetSession(c)
	session.Values[CurrUserKey] = userID
	return session.Save(c.Request, c.Writer)
}

// Logout drops the current-user key, keeping pending flashes.
func Logout(c *gin.Context) error {
	session := GetSession(c)
	delete(session.Values, CurrUserKey)
	return session.Save(c.Request, c.Writer)
}

// CurrentUserID reports the ID stored under the current-user key.
func CurrentUserID(c *gin.Context) (uint, bool) {
	switch id := GetSession(c).Values[CurrUserKey].(type) {
	case uint:
		return id, true
	case int:
		return uint(id), id > 0
	case int64:
		return uint(id), id > 0
	default:
		return 0, false
	}
}

// AddFlash queues a message for the next rendered page. The caller saves
// the session, usually through a redirect or render helper.
func AddFlash(c *gin.Context, category, message string) {
	GetSession(c).AddFlash(Flash{Category: category, Message: message})
}

// Flashes pops the queued messages.
func Flashes(c *gin.Context) []Flash {
	var flashes []Flash
	for _, f := range GetSession(c).Flashes() {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
