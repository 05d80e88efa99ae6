package services

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/repos"
	"github.com/yungbote/intersection-backend/internal/types"
)

// ErrInvalidYearRange signals a caller input error; it is never retried and
// maps to a 400 at the HTTP edge.
var ErrInvalidYearRange = errors.New("entry_year_from must not be greater than entry_year_to")

type MatchFilters struct {
	SchoolLevel   *string
	EntryYearFrom *int
	EntryYearTo   *int
}

type MatchQuery struct {
	TopK          int
	MinSimilarity float64
	Filters       MatchFilters
}

type MatchingService interface {
	// FindMatches is read-only and deterministic for a fixed store state:
	// an empty slice is a valid "no matches" answer, an error is either bad
	// input or an unreachable store.
	FindMatches(ctx context.Context, requesterID uuid.UUID, query MatchQuery) ([]*types.MatchCandidate, error)
}

type matchingService struct {
	db         *gorm.DB
	log        *logger.Logger
	anchorRepo repos.SchoolAnchorRepo
	blockRepo  repos.UserBlockRepo
}

func NewMatchingService(db *gorm.DB, log *logger.Logger, anchorRepo repos.SchoolAnchorRepo, blockRepo repos.UserBlockRepo) MatchingService {
	return &matchingService{
		db:         db,
		log:        log.With("service", "MatchingService"),
		anchorRepo: anchorRepo,
		blockRepo:  blockRepo,
	}
}

func (ms *matchingService) FindMatches(ctx context.Context, requesterID uuid.UUID, query MatchQuery) ([]*types.MatchCandidate, error) {
	if query.Filters.EntryYearFrom != nil && query.Filters.EntryYearTo != nil &&
		*query.Filters.EntryYearFrom > *query.Filters.EntryYearTo {
		return nil, ErrInvalidYearRange
	}
	if query.TopK <= 0 {
		return []*types.MatchCandidate{}, nil
	}

	mine, err := ms.anchorRepo.ListEmbeddedByUser(ctx, nil, requesterID)
	if err != nil {
		return nil, err
	}
	if len(mine) == 0 {
		ms.log.Info("Requester has no embedded anchors, skipping matching", "user_id", requesterID.String())
		return []*types.MatchCandidate{}, nil
	}

	blockedIDs, err := ms.blockRepo.ListBlockedUserIDs(ctx, nil, requesterID)
	if err != nil {
		return nil, err
	}
	blocked := make(map[uuid.UUID]struct{}, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = struct{}{}
	}

	candidateAnchors, err := ms.anchorRepo.ListEmbeddedCandidates(ctx, nil, requesterID, repos.CandidateFilter{
		SchoolLevel:   query.Filters.SchoolLevel,
		EntryYearFrom: query.Filters.EntryYearFrom,
		EntryYearTo:   query.Filters.EntryYearTo,
	})
	if err != nil {
		return nil, err
	}

	// Group candidate anchors by owning user and reduce by max similarity;
	// the winning anchor carries the attributes shown to the caller. Ties on
	// score keep the lowest anchor id so repeated queries agree.
	type candidateGroup struct {
		score  float64
		anchor *types.SchoolAnchor
	}
	groups := make(map[uuid.UUID]*candidateGroup)

	for _, cand := range candidateAnchors {
		if cand.User == nil || cand.AnchorEmbedding == nil {
			continue
		}
		if cand.UserID == requesterID {
			continue
		}
		if _, isBlocked := blocked[cand.UserID]; isBlocked {
			continue
		}

		candVec := cand.AnchorEmbedding.Slice()
		best := math.Inf(-1)
		for _, own := range mine {
			if own.AnchorEmbedding == nil {
				continue
			}
			sim := cosineSimilarity(own.AnchorEmbedding.Slice(), candVec)
			if sim > best {
				best = sim
			}
		}
		if math.IsInf(best, -1) {
			continue
		}

		g := groups[cand.UserID]
		if g == nil {
			groups[cand.UserID] = &candidateGroup{score: best, anchor: cand}
			continue
		}
		if best > g.score || (best == g.score && uuidLess(cand.ID, g.anchor.ID)) {
			g.score = best
			g.anchor = cand
		}
	}

	type rankedEntry struct {
		userID uuid.UUID
		group  *candidateGroup
	}
	ranked := make([]rankedEntry, 0, len(groups))
	for userID, g := range groups {
		if g.score < query.MinSimilarity {
			continue
		}
		ranked = append(ranked, rankedEntry{userID: userID, group: g})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].group.score != ranked[j].group.score {
			return ranked[i].group.score > ranked[j].group.score
		}
		return uuidLess(ranked[i].userID, ranked[j].userID)
	})
	if len(ranked) > query.TopK {
		ranked = ranked[:query.TopK]
	}

	results := make([]*types.MatchCandidate, 0, len(ranked))
	for _, entry := range ranked {
		anchor := entry.group.anchor
		m := &types.MatchCandidate{
			CandidateUserID:   entry.userID,
			CandidateNickname: anchor.User.Nickname,
			SimilarityScore:   entry.group.score,
			SchoolLevel:       strPtr(anchor.SchoolLevel),
			EntryYear:         anchor.EntryYear,
			GraduationYear:    anchor.GraduationYear,
		}
		if inst := anchor.Institution; inst != nil {
			m.SchoolName = strPtr(inst.Name)
			m.RegionCity = strPtr(inst.RegionCity)
			m.RegionDistrict = strPtr(inst.RegionDistrict)
		}
		m.OverlapFragments = m.BuildOverlapFragments()
		results = append(results, m)
	}

	ms.log.Info("Anchor matching finished",
		"user_id", requesterID.String(),
		"candidates", len(results),
		"top_k", query.TopK,
		"min_similarity", query.MinSimilarity,
	)
	return results, nil
}

// cosineSimilarity is 1 - cosine distance. Floating point noise can land
// marginally outside [0, 1]; callers must not assume strict bounds.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func uuidLess(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
