package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"

	"github.com/sudamericano/titulacion-console/internal/backend"
	"github.com/sudamericano/titulacion-console/internal/handler"
	"github.com/sudamericano/titulacion-console/internal/service"
	"github.com/sudamericano/titulacion-console/internal/session"
	"github.com/sudamericano/titulacion-console/pkg/config"
	"github.com/sudamericano/titulacion-console/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	client := backend.New(cfg.Backend, logr)
	client.Instrument(metrics)
	sessions := session.NewStore(cfg.Session)
	validate := validator.New()

	svcs := handler.Services{
		Auth:      service.NewAuthService(client, validate, logr),
		Directory: service.NewDirectoryService(client, cfg.Import.MaxFileSizeBytes, logr),
		Details:   service.NewDetailService(client, logr),
		Exports:   service.NewExportService(),
		Metrics:   metrics,
	}

	r, err := handler.NewRouter(logr, sessions, svcs)
	if err != nil {
		logr.Sugar().Fatalw("router setup failed", "error", err)
	}

	// All form posts go through CSRF protection; the views embed the token.
	protect := csrf.Protect(
		[]byte(cfg.CSRF.Key),
		csrf.Secure(cfg.Session.Secure),
		csrf.Path("/"),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("console starting", "addr", addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
	if err := http.ListenAndServe(addr, protect(r)); err != nil {
		logr.Sugar().Fatalw("console failed", "error", err)
	}
}
