package service

import (
	"fmt"

	"github.com/sudamericano/titulacion-console/internal/career"
	"github.com/sudamericano/titulacion-console/internal/models"
	"github.com/sudamericano/titulacion-console/pkg/export"
)

// ExportService renders an already-filtered roster slice as a download.
// It never fetches: the handler passes in the same rows the view showed.
type ExportService struct {
	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewExportService constructs the export service.
func NewExportService() *ExportService {
	return &ExportService{csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

var rosterHeaders = []string{
	"DNI", "Nombres", "Apellidos", "Email", "Corte", "Sección",
	"Modalidad", "Tipo titulación", "Estado", "Incidencias", "Observaciones",
}

// RosterCSV renders the rows as CSV.
func (s *ExportService) RosterCSV(rows []models.StudentRow) ([]byte, error) {
	return s.csv.Render(rosterDataset(rows))
}

// RosterPDF renders the rows as a tabular PDF titled with the program name.
func (s *ExportService) RosterPDF(key career.Key, rows []models.StudentRow) ([]byte, error) {
	return s.pdf.Render(rosterDataset(rows), string(key))
}

func rosterDataset(rows []models.StudentRow) export.Dataset {
	data := export.Dataset{Headers: rosterHeaders, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		data.Rows = append(data.Rows, []string{
			r.DNI,
			r.FirstName,
			r.LastName,
			r.Email,
			r.Corte,
			r.Section,
			r.Modality,
			r.TitulationType,
			r.Status,
			fmt.Sprintf("%d", r.IncidentCount),
			fmt.Sprintf("%d", r.ObservationCount),
		})
	}
	return data
}
