package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/internal/models"
	"github.com/sudamericano/titulacion-console/internal/service"
	"github.com/sudamericano/titulacion-console/internal/session"
	appErrors "github.com/sudamericano/titulacion-console/pkg/errors"
)

// AuthHandler serves the login view and the session endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Store
	logger   *zap.Logger
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *session.Store, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, sessions: sessions, logger: logger}
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", baseData(c, "Sistema de Titulación"))
}

// Login authenticates against the backend, persists the session cookie
// pair and sends the admin to the gallery.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderRejected(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "ingrese usuario y contraseña"))
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.renderRejected(c, err)
		return
	}

	h.sessions.Issue(c, sess)
	c.Redirect(http.StatusFound, "/admin")
}

// Logout clears the session and returns to the login view. No network
// call: the backend does not revoke tokens in this client's scope.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Redirect(http.StatusFound, "/")
}

// renderRejected re-renders the login form with the failure inline.
// No session is created on any failed login.
func (h *AuthHandler) renderRejected(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	data := baseData(c, "Sistema de Titulación")
	data["Error"] = appErr.Message
	c.HTML(appErr.Status, "login.html", data)
}
