package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/internal/career"
	"github.com/sudamericano/titulacion-console/internal/service"
	"github.com/sudamericano/titulacion-console/internal/session"
)

// DetailHandler serves the per-student view with the incident and
// observation tabs.
type DetailHandler struct {
	details  *service.DetailService
	sessions *session.Store
	logger   *zap.Logger
}

// NewDetailHandler constructs DetailHandler.
func NewDetailHandler(details *service.DetailService, sessions *session.Store, logger *zap.Logger) *DetailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailHandler{details: details, sessions: sessions, logger: logger}
}

// Show fetches one student fresh and renders the detail view.
func (h *DetailHandler) Show(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		data := baseData(c, "Error")
		data["Message"] = "estudiante no encontrado"
		data["RetryURL"] = "/admin/students"
		c.HTML(http.StatusNotFound, "error.html", data)
		return
	}

	student, err := h.details.Get(c.Request.Context(), id)
	if err != nil {
		failView(c, h.sessions, err, c.Request.URL.RequestURI())
		return
	}

	data := baseData(c, student.FirstName+" "+student.LastName)
	data["Student"] = student
	data["CareerKey"] = career.Normalize(student.Career)
	data["SectionClass"] = career.ClassifySection(student.Section).TagClass()
	data["StatusClass"] = career.ClassifyStatus(student.Status).TagClass()
	c.HTML(http.StatusOK, "detail.html", data)
}
