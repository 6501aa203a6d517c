package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/internal/models"
	appErrors "github.com/sudamericano/titulacion-console/pkg/errors"
)

type loginPoster interface {
	PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error
}

// AuthService authenticates the administrator against the backend.
// Logout is not here: it is a pure session clear with no network call,
// performed by the handler on the cookie store.
type AuthService struct {
	backend   loginPoster
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(backend loginPoster, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{backend: backend, validator: validate, logger: logger}
}

// Login sends the credentials to the backend and returns the session to
// persist. The backend's rejection message is surfaced unchanged; a 401
// here means rejected credentials, never an expired session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Session{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "ingrese usuario y contraseña")
	}

	var res models.LoginResponse
	if err := s.backend.PostJSON(ctx, "/auth/login", req, &res); err != nil {
		if appErrors.IsCode(err, appErrors.ErrSessionExpired.Code) {
			msg := appErrors.FromError(err).Message
			if msg == appErrors.ErrSessionExpired.Message {
				msg = ""
			}
			return models.Session{}, appErrors.Clone(appErrors.ErrInvalidCredentials, msg)
		}
		return models.Session{}, err
	}

	sess := models.Session{Token: res.Token, Username: res.Username}
	if !sess.Valid() {
		return models.Session{}, appErrors.Clone(appErrors.ErrBackendFailed, "respuesta de login incompleta")
	}

	s.logger.Info("login accepted", zap.String("username", sess.Username))
	return sess, nil
}
