package app

import (
	"github.com/yungbote/intersection-backend/internal/db"
	"github.com/yungbote/intersection-backend/internal/handlers"
	"github.com/yungbote/intersection-backend/internal/logger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Institution *handlers.InstitutionHandler
	Matching    *handlers.MatchingHandler
	Internal    *handlers.InternalHandler
	Health      *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, pg *db.PostgresService) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(services.Auth),
		User:        handlers.NewUserHandler(services.User),
		Institution: handlers.NewInstitutionHandler(services.Institution),
		Matching:    handlers.NewMatchingHandler(log, services.Matching, services.Explanation, services.MatchCache),
		Internal:    handlers.NewInternalHandler(log, services.AnchorIndex, services.OpenAI, services.Explanation, cfg.ReindexPageSize),
		Health:      handlers.NewHealthHandler(pg),
	}
}
