package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/internal/career"
	"github.com/sudamericano/titulacion-console/internal/models"
	"github.com/sudamericano/titulacion-console/internal/service"
	"github.com/sudamericano/titulacion-console/internal/session"
	appErrors "github.com/sudamericano/titulacion-console/pkg/errors"
)

// RosterHandler serves the per-program roster table and its downloads.
type RosterHandler struct {
	directory *service.DirectoryService
	exports   *service.ExportService
	sessions  *session.Store
	logger    *zap.Logger
}

// NewRosterHandler constructs RosterHandler.
func NewRosterHandler(directory *service.DirectoryService, exports *service.ExportService, sessions *session.Store, logger *zap.Logger) *RosterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterHandler{directory: directory, exports: exports, sessions: sessions, logger: logger}
}

// rosterRow decorates a student row with the display classifications so
// templates stay free of string matching.
type rosterRow struct {
	models.StudentRow
	SectionKind  career.SectionKind
	SectionClass string
	StatusKind   career.StatusKind
	StatusClass  string
}

func decorate(rows []models.StudentRow) []rosterRow {
	out := make([]rosterRow, 0, len(rows))
	for _, r := range rows {
		sk := career.ClassifySection(r.Section)
		st := career.ClassifyStatus(r.Status)
		out = append(out, rosterRow{
			StudentRow:   r,
			SectionKind:  sk,
			SectionClass: sk.TagClass(),
			StatusKind:   st,
			StatusClass:  st.TagClass(),
		})
	}
	return out
}

// careerParam reads the program name from the route. gin hands the
// segment over already percent-decoded.
func careerParam(c *gin.Context) career.Key {
	return career.Key(c.Param("careerName"))
}

// Show fetches the full roster fresh and filters it client-side to the
// requested program plus the optional search text (?q=).
func (h *RosterHandler) Show(c *gin.Context) {
	key := careerParam(c)
	if !career.Valid(key) {
		data := baseData(c, "Error")
		data["Message"] = "programa desconocido"
		data["RetryURL"] = "/admin/students"
		c.HTML(http.StatusNotFound, "error.html", data)
		return
	}

	rows, err := h.directory.ListStudents(c.Request.Context())
	if err != nil {
		failView(c, h.sessions, err, c.Request.URL.RequestURI())
		return
	}

	query := c.Query("q")
	filtered := career.Filter(rows, key, query)

	data := baseData(c, string(key))
	data["Career"] = key
	data["Query"] = query
	data["Rows"] = decorate(filtered)
	data["Total"] = len(filtered)
	data["ExportBase"] = "/admin/students/career/" + url.PathEscape(string(key)) + "/export"
	c.HTML(http.StatusOK, "roster.html", data)
}

// Export downloads the filtered roster as CSV or PDF (?format=csv|pdf).
// It renders the same rows the roster view shows for the same query.
func (h *RosterHandler) Export(c *gin.Context) {
	key := careerParam(c)
	if !career.Valid(key) {
		c.Redirect(http.StatusFound, "/admin/students")
		return
	}

	rows, err := h.directory.ListStudents(c.Request.Context())
	if err != nil {
		failView(c, h.sessions, err, "/admin/students")
		return
	}
	filtered := career.Filter(rows, key, c.Query("q"))

	switch c.DefaultQuery("format", "csv") {
	case "pdf":
		payload, err := h.exports.RosterPDF(key, filtered)
		if err != nil {
			failView(c, h.sessions, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo generar el PDF"), "/admin/students")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(key, "pdf")))
		c.Data(http.StatusOK, "application/pdf", payload)
	case "csv":
		payload, err := h.exports.RosterCSV(filtered)
		if err != nil {
			failView(c, h.sessions, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo generar el CSV"), "/admin/students")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(key, "csv")))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
	default:
		data := baseData(c, "Error")
		data["Message"] = "formato de exportación desconocido"
		data["RetryURL"] = "/admin/students"
		c.HTML(http.StatusBadRequest, "error.html", data)
	}
}

func exportFilename(key career.Key, ext string) string {
	return fmt.Sprintf("estudiantes-%s.%s", url.PathEscape(string(key)), ext)
}
