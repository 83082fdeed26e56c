package service

import (
	"github.com/savora-app/savora/internal/bus"
	"github.com/savora-app/savora/internal/config"
	"github.com/savora-app/savora/internal/repository"
)

type Services struct {
	User         *UserService
	Session      *SessionService
	Notification *NotificationService
}

func NewServices(repo *repository.Repository, hub *bus.Hub, cfg *config.Config) *Services {
	return &Services{
		User:         NewUserService(repo, cfg.JWTSecret, cfg.JWTTTL),
		Session:      NewSessionService(repo, hub),
		Notification: NewNotificationService(repo),
	}
}
