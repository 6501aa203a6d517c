package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/internal/models"
	appErrors "github.com/sudamericano/titulacion-console/pkg/errors"
)

type detailClient interface {
	Get(ctx context.Context, path string, out interface{}) error
}

// DetailService fetches one student with incident and observation
// histories. Every call is a fresh fetch; nothing is cached.
type DetailService struct {
	backend detailClient
	logger  *zap.Logger
}

// NewDetailService constructs the detail service.
func NewDetailService(backend detailClient, logger *zap.Logger) *DetailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailService{backend: backend, logger: logger}
}

// Get returns the StudentDetail for the given id.
func (s *DetailService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	var detail models.StudentDetail
	if err := s.backend.Get(ctx, fmt.Sprintf("/admin/students/%d", id), &detail); err != nil {
		if appErrors.IsCode(err, appErrors.ErrNotFound.Code) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "estudiante no encontrado")
		}
		return nil, err
	}
	return &detail, nil
}
