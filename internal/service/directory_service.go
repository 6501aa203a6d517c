package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/internal/models"
	appErrors "github.com/sudamericano/titulacion-console/pkg/errors"
)

type rosterClient interface {
	Get(ctx context.Context, path string, out interface{}) error
	PostFile(ctx context.Context, path, field, filename string, file io.Reader, out interface{}) error
}

// DirectoryService lists the student roster and forwards spreadsheet
// imports. The roster always comes back whole; grouping, counting and
// filtering happen client-side in the career package.
type DirectoryService struct {
	backend       rosterClient
	maxImportSize int64
	logger        *zap.Logger
}

// NewDirectoryService constructs the directory service.
func NewDirectoryService(backend rosterClient, maxImportSize int64, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{backend: backend, maxImportSize: maxImportSize, logger: logger}
}

// ListStudents fetches the entire roster in one call. No pagination and
// no server-side filtering exist on this endpoint.
func (s *DirectoryService) ListStudents(ctx context.Context) ([]models.StudentRow, error) {
	var rows []models.StudentRow
	if err := s.backend.Get(ctx, "/admin/students", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ImportSpreadsheet uploads one .xlsx file and returns the batch summary.
// By the time the call returns the import is already complete server-side;
// failedRows in the result is reporting, not an error.
func (s *DirectoryService) ImportSpreadsheet(ctx context.Context, filename string, size int64, file io.Reader) (*models.ImportBatchResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return nil, appErrors.Clone(appErrors.ErrImportRejected, "solo se aceptan archivos .xlsx")
	}
	if s.maxImportSize > 0 && size > s.maxImportSize {
		return nil, appErrors.Clone(appErrors.ErrImportRejected, fmt.Sprintf("el archivo supera el límite de %d MB", s.maxImportSize/(1024*1024)))
	}

	var result models.ImportBatchResult
	if err := s.backend.PostFile(ctx, "/admin/students/import/xlsx", "file", filename, file, &result); err != nil {
		if appErrors.IsCode(err, appErrors.ErrSessionExpired.Code) {
			return nil, err
		}
		return nil, appErrors.Clone(appErrors.ErrImportRejected, appErrors.FromError(err).Message)
	}

	s.logger.Info("spreadsheet imported",
		zap.Int64("batch_id", result.BatchID),
		zap.String("file", result.FileName),
		zap.Int("total", result.TotalRows),
		zap.Int("inserted", result.InsertedRows),
		zap.Int("updated", result.UpdatedRows),
		zap.Int("failed", result.FailedRows),
	)
	return &result, nil
}
