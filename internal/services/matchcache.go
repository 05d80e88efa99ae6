package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/types"
)

// MatchCacheService holds ranking-only responses for a short TTL. Two queries
// moments apart may disagree while a reindex runs; serving a slightly stale
// ranking is the same accepted eventual consistency.
type MatchCacheService interface {
	Get(ctx context.Context, requesterID uuid.UUID, query MatchQuery) ([]*types.MatchCandidate, bool)
	Set(ctx context.Context, requesterID uuid.UUID, query MatchQuery, matches []*types.MatchCandidate)
}

type matchCacheService struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewMatchCacheService returns (nil, nil) when REDIS_ADDR is unset; callers
// treat a nil cache as disabled.
func NewMatchCacheService(log *logger.Logger, ttl time.Duration) (MatchCacheService, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = 60 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &matchCacheService{
		log: log.With("service", "MatchCacheService"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (mc *matchCacheService) key(requesterID uuid.UUID, query MatchQuery) string {
	level := "-"
	if query.Filters.SchoolLevel != nil {
		level = *query.Filters.SchoolLevel
	}
	from := "-"
	if query.Filters.EntryYearFrom != nil {
		from = fmt.Sprintf("%d", *query.Filters.EntryYearFrom)
	}
	to := "-"
	if query.Filters.EntryYearTo != nil {
		to = fmt.Sprintf("%d", *query.Filters.EntryYearTo)
	}
	return fmt.Sprintf("match:anchors:%s:%d:%.4f:%s:%s:%s", requesterID.String(), query.TopK, query.MinSimilarity, level, from, to)
}

func (mc *matchCacheService) Get(ctx context.Context, requesterID uuid.UUID, query MatchQuery) ([]*types.MatchCandidate, bool) {
	raw, err := mc.rdb.Get(ctx, mc.key(requesterID, query)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			mc.log.Warn("Match cache get failed", "error", err)
		}
		return nil, false
	}
	var matches []*types.MatchCandidate
	if err := json.Unmarshal(raw, &matches); err != nil {
		mc.log.Warn("Match cache decode failed", "error", err)
		return nil, false
	}
	return matches, true
}

func (mc *matchCacheService) Set(ctx context.Context, requesterID uuid.UUID, query MatchQuery, matches []*types.MatchCandidate) {
	raw, err := json.Marshal(matches)
	if err != nil {
		mc.log.Warn("Match cache encode failed", "error", err)
		return
	}
	if err := mc.rdb.Set(ctx, mc.key(requesterID, query), raw, mc.ttl).Err(); err != nil {
		mc.log.Warn("Match cache set failed", "error", err)
	}
}
