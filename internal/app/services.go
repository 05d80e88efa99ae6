package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Institution services.InstitutionService

	Matching    services.MatchingService
	Explanation services.ExplanationService
	AnchorIndex services.AnchorIndexService
	MatchCache  services.MatchCacheService

	OpenAI services.OpenAIClient
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	openaiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		return Services{}, fmt.Errorf("init openai client: %w", err)
	}

	authService := services.NewAuthService(db, log, repos.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	userService := services.NewUserService(db, log, repos.User, repos.SchoolAnchor, repos.UserKeyword, repos.UserBlock)
	institutionService := services.NewInstitutionService(db, log, repos.Institution)

	matchingService := services.NewMatchingService(db, log, repos.SchoolAnchor, repos.UserBlock)
	explanationService := services.NewExplanationService(db, log, repos.User, repos.UserKeyword, openaiClient, cfg.ExplainTimeout)
	anchorIndexService := services.NewAnchorIndexService(log, repos.SchoolAnchor, openaiClient)

	// MatchCache is nil when REDIS_ADDR is unset; the matching handler treats
	// that as cache-off.
	matchCacheService, err := services.NewMatchCacheService(log, cfg.MatchCacheTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init match cache: %w", err)
	}

	return Services{
		Auth:        authService,
		User:        userService,
		Institution: institutionService,
		Matching:    matchingService,
		Explanation: explanationService,
		AnchorIndex: anchorIndexService,
		MatchCache:  matchCacheService,
		OpenAI:      openaiClient,
	}, nil
}
