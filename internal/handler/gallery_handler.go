package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/internal/career"
	"github.com/sudamericano/titulacion-console/internal/service"
	"github.com/sudamericano/titulacion-console/internal/session"
	appErrors "github.com/sudamericano/titulacion-console/pkg/errors"
)

// GalleryHandler serves the career gallery: one card per program with its
// student count, plus the spreadsheet import form.
type GalleryHandler struct {
	directory *service.DirectoryService
	sessions  *session.Store
	logger    *zap.Logger
}

// NewGalleryHandler constructs GalleryHandler.
func NewGalleryHandler(directory *service.DirectoryService, sessions *session.Store, logger *zap.Logger) *GalleryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryHandler{directory: directory, sessions: sessions, logger: logger}
}

type galleryCard struct {
	Key   career.Key
	Count int
	URL   string
}

// Show fetches the roster fresh and renders the gallery.
func (h *GalleryHandler) Show(c *gin.Context) {
	h.render(c, nil)
}

// Import uploads one spreadsheet, then re-fetches the roster and renders
// the gallery with the batch summary. A batch with failed rows is still
// a success: the import already happened server-side.
func (h *GalleryHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.render(c, gin.H{"Error": appErrors.Clone(appErrors.ErrImportRejected, "seleccione un archivo .xlsx").Message})
		return
	}

	file, err := fh.Open()
	if err != nil {
		h.render(c, gin.H{"Error": appErrors.ErrImportRejected.Message})
		return
	}
	defer file.Close() //nolint:errcheck

	batch, err := h.directory.ImportSpreadsheet(c.Request.Context(), fh.Filename, fh.Size, file)
	if err != nil {
		if appErrors.IsCode(err, appErrors.ErrSessionExpired.Code) {
			failView(c, h.sessions, err, "/admin/students")
			return
		}
		h.render(c, gin.H{"Error": appErrors.FromError(err).Message})
		return
	}

	h.render(c, gin.H{"Batch": batch})
}

// render fetches the roster and draws the gallery, merging in any
// import outcome the caller wants shown.
func (h *GalleryHandler) render(c *gin.Context, extra gin.H) {
	rows, err := h.directory.ListStudents(c.Request.Context())
	if err != nil {
		failView(c, h.sessions, err, "/admin/students")
		return
	}

	counts := career.Counts(rows)
	cards := make([]galleryCard, 0, len(career.Keys()))
	for _, key := range career.Keys() {
		cards = append(cards, galleryCard{
			Key:   key,
			Count: counts[key],
			URL:   "/admin/students/career/" + url.PathEscape(string(key)),
		})
	}

	data := baseData(c, "Administración · Estudiantes")
	data["Cards"] = cards
	data["TotalStudents"] = len(rows)
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(http.StatusOK, "gallery.html", data)
}
