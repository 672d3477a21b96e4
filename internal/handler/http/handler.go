package http

import (
	"github.com/eduagent/eduagent/internal/config"
	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/service"
)

type Handler struct {
	services *service.Services

	// app carries the token TTLs (cookie lifetimes) and the environment
	// name (Secure cookie flag is off in development).
	app config.App

	logger *logger.Logger
}

func NewHandler(services *service.Services, app config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		app:      app,
		logger:   logger,
	}
}
