package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/intersection-backend/internal/handlers"
	"github.com/yungbote/intersection-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	UserHandler        *handlers.UserHandler
	InstitutionHandler *handlers.InstitutionHandler
	MatchingHandler    *handlers.MatchingHandler
	InternalHandler    *handlers.InternalHandler
	HealthHandler      *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthHandler.Health)
	router.GET("/healthcheck/db", cfg.HealthHandler.HealthDB)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.GET("/institutions/search", cfg.InstitutionHandler.Search)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// User
	protected.GET("/users/me", cfg.UserHandler.GetMe)
	protected.POST("/users/me/school-anchors", cfg.UserHandler.UpsertSchoolAnchor)
	protected.GET("/users/me/school-anchors", cfg.UserHandler.ListSchoolAnchors)
	protected.POST("/users/me/keywords", cfg.UserHandler.AddKeyword)
	protected.GET("/users/me/keywords", cfg.UserHandler.ListKeywords)
	protected.POST("/users/me/blocks/:userID", cfg.UserHandler.BlockUser)
	protected.DELETE("/users/me/blocks/:userID", cfg.UserHandler.UnblockUser)
	// Matching
	protected.GET("/matching/anchors", cfg.MatchingHandler.GetAnchorMatches)
	protected.GET("/matching/anchors-with-explanation", cfg.MatchingHandler.GetAnchorMatchesWithExplanation)

	// ===============
	// || Internal  ||
	// ===============
	internal := router.Group("/internal")
	internal.POST("/reindex/school-anchors", cfg.InternalHandler.ReindexSchoolAnchors)
	internal.POST("/test-embedding", cfg.InternalHandler.TestEmbedding)
	internal.POST("/test-match-explanation", cfg.InternalHandler.TestMatchExplanation)

	return router
}
