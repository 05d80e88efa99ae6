package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/intersection-backend/internal/server"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        handlers.Auth,
		AuthMiddleware:     middleware.Auth,
		UserHandler:        handlers.User,
		InstitutionHandler: handlers.Institution,
		MatchingHandler:    handlers.Matching,
		InternalHandler:    handlers.Internal,
		HealthHandler:      handlers.Health,
	})
}
