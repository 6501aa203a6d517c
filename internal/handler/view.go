package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/sudamericano/titulacion-console/internal/middleware"
	"github.com/sudamericano/titulacion-console/internal/session"
	appErrors "github.com/sudamericano/titulacion-console/pkg/errors"
)

// baseData assembles the fields every view template expects.
func baseData(c *gin.Context, title string) gin.H {
	data := gin.H{
		"Title":     title,
		"CSRFField": csrf.TemplateField(c.Request),
	}
	if sess, ok := middleware.SessionFrom(c); ok {
		data["Username"] = sess.Username
	}
	return data
}

// failView renders the failed state of a data view. The one cross-cutting
// transition lives here: an expired authorization clears the session and
// lands the user back on the login view, wherever they were.
func failView(c *gin.Context, sessions *session.Store, err error, retryURL string) {
	appErr := appErrors.FromError(err)
	if appErr.Code == appErrors.ErrSessionExpired.Code {
		sessions.Clear(c)
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}

	data := baseData(c, "Error")
	data["Message"] = appErr.Message
	data["RetryURL"] = retryURL
	c.HTML(appErr.Status, "error.html", data)
}
