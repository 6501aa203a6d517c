// Package session keeps the admin session in a fixed pair of cookies,
// the durable client storage of the console. The pair is written and
// cleared together; a half-present pair reads back as no session.
package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sudamericano/titulacion-console/internal/models"
	"github.com/sudamericano/titulacion-console/pkg/config"
)

const (
	tokenCookie    = "titulacion_token"
	usernameCookie = "titulacion_username"
)

// Store issues, reads and clears the session cookie pair. It is
// constructed once and injected wherever session state is needed.
type Store struct {
	secure bool
	maxAge int
}

// NewStore builds a Store from session configuration.
func NewStore(cfg config.SessionConfig) *Store {
	return &Store{
		secure: cfg.Secure,
		maxAge: int(cfg.MaxAge.Seconds()),
	}
}

// Issue writes both session cookies on the response. The pair travels in
// one response so no navigation can observe a half-updated session.
func (s *Store) Issue(c *gin.Context, sess models.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, sess.Token, s.maxAge, "/", "", s.secure, true)
	c.SetCookie(usernameCookie, sess.Username, s.maxAge, "/", "", s.secure, true)
}

// Clear expires both session cookies.
func (s *Store) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, "", -1, "/", "", s.secure, true)
	c.SetCookie(usernameCookie, "", -1, "/", "", s.secure, true)
}

// Current returns the session carried by the request. The second return
// is false when either cookie is missing or empty.
func (s *Store) Current(c *gin.Context) (models.Session, bool) {
	token, err := c.Cookie(tokenCookie)
	if err != nil {
		return models.Session{}, false
	}
	username, err := c.Cookie(usernameCookie)
	if err != nil {
		return models.Session{}, false
	}
	sess := models.Session{Token: token, Username: username}
	if !sess.Valid() {
		return models.Session{}, false
	}
	return sess, true
}
