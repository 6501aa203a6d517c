package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sudamericano/titulacion-console/internal/backend"
	"github.com/sudamericano/titulacion-console/internal/models"
	"github.com/sudamericano/titulacion-console/internal/session"
)

// ContextSessionKey is the gin context key storing the admin session.
const ContextSessionKey = "currentSession"

// RequireSession gates protected views on session presence. Without a
// full cookie pair the request is redirected to the login view. The
// check runs on every request, so a cleared session takes effect on the
// next navigation. With a session present, the bearer token is placed in
// the request context for the backend client.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := store.Current(c)
		if !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, sess)
		c.Request = c.Request.WithContext(backend.WithToken(c.Request.Context(), sess.Token))
		c.Next()
	}
}

// SessionFrom returns the session stashed by RequireSession.
func SessionFrom(c *gin.Context) (models.Session, bool) {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return models.Session{}, false
	}
	sess, ok := value.(models.Session)
	return sess, ok
}
