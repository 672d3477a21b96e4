package service

import (
	"github.com/eduagent/eduagent/internal/config"
	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/store"
)

// Services aggregates every service of the application behind one injection
// point for the transport layer.
type Services struct {
	AuthService AuthService
	UserService UserService
	ChatService ChatService
}

// NewServices wires the services to the repositories and configuration.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(storages.UserRepository, storages.TokenRepository, cfg.App, logger),
		UserService: NewUserService(storages.UserRepository, logger),
		ChatService: NewChatService(logger),
	}
}
