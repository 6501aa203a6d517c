package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/internal/middleware"
	"github.com/sudamericano/titulacion-console/internal/service"
	"github.com/sudamericano/titulacion-console/internal/session"
	"github.com/sudamericano/titulacion-console/pkg/logger"
	"github.com/sudamericano/titulacion-console/pkg/middleware/requestid"
	"github.com/sudamericano/titulacion-console/web"
)

// Services bundles everything the route table needs.
type Services struct {
	Auth      *service.AuthService
	Directory *service.DirectoryService
	Details   *service.DetailService
	Exports   *service.ExportService
	Metrics   *service.MetricsService
}

// NewRouter builds the console's route table. Everything under /admin is
// gated by the session guard; unknown paths land on the login view.
func NewRouter(logr *zap.Logger, sessions *session.Store, svcs Services) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(svcs.Metrics))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	auth := NewAuthHandler(svcs.Auth, sessions, logr)
	gallery := NewGalleryHandler(svcs.Directory, sessions, logr)
	roster := NewRosterHandler(svcs.Directory, svcs.Exports, sessions, logr)
	detail := NewDetailHandler(svcs.Details, sessions, logr)

	r.GET("/", auth.LoginPage)
	r.POST("/login", auth.Login)
	r.POST("/logout", auth.Logout)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(svcs.Metrics.Handler()))

	admin := r.Group("/admin", middleware.RequireSession(sessions))
	admin.GET("", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin/students")
	})
	admin.GET("/students", gallery.Show)
	admin.POST("/students/import", gallery.Import)
	admin.GET("/students/career/:careerName", roster.Show)
	admin.GET("/students/career/:careerName/export", roster.Export)
	admin.GET("/students/:id", detail.Show)

	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	return r, nil
}
