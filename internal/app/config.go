package app

import (
	"time"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	MatchCacheTTL   time.Duration
	ExplainTimeout  time.Duration
	ReindexPageSize int
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	matchCacheTTLSeconds := utils.GetEnvAsInt("MATCH_CACHE_TTL", 60, log)
	explainTimeoutSeconds := utils.GetEnvAsInt("EXPLAIN_TIMEOUT", 20, log)
	reindexPageSize := utils.GetEnvAsInt("REINDEX_PAGE_SIZE", 100, log)
	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		MatchCacheTTL:   time.Duration(matchCacheTTLSeconds) * time.Second,
		ExplainTimeout:  time.Duration(explainTimeoutSeconds) * time.Second,
		ReindexPageSize: reindexPageSize,
	}
}
