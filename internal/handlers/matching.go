package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/services"
	"github.com/yungbote/intersection-backend/internal/types"
)

type MatchingHandler struct {
	log                *logger.Logger
	matchingService    services.MatchingService
	explanationService services.ExplanationService
	matchCache         services.MatchCacheService
}

func NewMatchingHandler(log *logger.Logger, matchingService services.MatchingService, explanationService services.ExplanationService, matchCache services.MatchCacheService) *MatchingHandler {
	return &MatchingHandler{
		log:                log.With("handler", "MatchingHandler"),
		matchingService:    matchingService,
		explanationService: explanationService,
		matchCache:         matchCache,
	}
}

func parseMatchQuery(c *gin.Context, defaultTopK, maxTopK int) (services.MatchQuery, error) {
	query := services.MatchQuery{
		TopK:          defaultTopK,
		MinSimilarity: 0.3,
	}

	if v := c.Query("top_k"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return query, fmt.Errorf("top_k must be an integer")
		}
		if parsed < 1 || parsed > maxTopK {
			return query, fmt.Errorf("top_k must be between 1 and %d", maxTopK)
		}
		query.TopK = parsed
	}

	if v := c.Query("min_similarity"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return query, fmt.Errorf("min_similarity must be a number")
		}
		if parsed < 0 || parsed > 1 {
			return query, fmt.Errorf("min_similarity must be between 0 and 1")
		}
		query.MinSimilarity = parsed
	}

	if v := c.Query("school_level"); v != "" {
		if !types.ValidSchoolLevel(v) {
			return query, fmt.Errorf("invalid school_level %q", v)
		}
		level := v
		query.Filters.SchoolLevel = &level
	}

	parseYear := func(name string) (*int, error) {
		v := c.Query(name)
		if v == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", name)
		}
		if parsed < 1900 || parsed > 2100 {
			return nil, fmt.Errorf("%s must be between 1900 and 2100", name)
		}
		return &parsed, nil
	}
	from, err := parseYear("entry_year_from")
	if err != nil {
		return query, err
	}
	to, err := parseYear("entry_year_to")
	if err != nil {
		return query, err
	}
	query.Filters.EntryYearFrom = from
	query.Filters.EntryYearTo = to

	if from != nil && to != nil && *from > *to {
		return query, fmt.Errorf("entry_year_from must not be greater than entry_year_to")
	}
	return query, nil
}

func matchResponse(query services.MatchQuery, matches []*types.MatchCandidate) *types.MatchResponse {
	for _, m := range matches {
		m.SimilarityScore = math.Round(m.SimilarityScore*10000) / 10000
	}
	return &types.MatchResponse{
		Total:         len(matches),
		TopK:          query.TopK,
		MinSimilarity: query.MinSimilarity,
		Candidates:    matches,
	}
}

// GetAnchorMatches serves pure ranking; it never touches the text-generation
// provider.
func (h *MatchingHandler) GetAnchorMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	query, err := parseMatchQuery(c, 20, 50)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}

	ctx := c.Request.Context()
	if h.matchCache != nil {
		if cached, hit := h.matchCache.Get(ctx, userID, query); hit {
			RespondOK(c, matchResponse(query, cached))
			return
		}
	}

	matches, err := h.matchingService.FindMatches(ctx, userID, query)
	if err != nil {
		if errors.Is(err, services.ErrInvalidYearRange) {
			RespondError(c, http.StatusBadRequest, "invalid_query", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "matching_failed", err)
		return
	}

	if h.matchCache != nil {
		h.matchCache.Set(ctx, userID, query, matches)
	}
	RespondOK(c, matchResponse(query, matches))
}

// GetAnchorMatchesWithExplanation ranks, then narrates every returned
// candidate. Explanation failures degrade to fallback text and never change
// the candidate set.
func (h *MatchingHandler) GetAnchorMatchesWithExplanation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	query, err := parseMatchQuery(c, 10, 20)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}

	ctx := c.Request.Context()
	matches, err := h.matchingService.FindMatches(ctx, userID, query)
	if err != nil {
		if errors.Is(err, services.ErrInvalidYearRange) {
			RespondError(c, http.StatusBadRequest, "invalid_query", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "matching_failed", err)
		return
	}

	matches, err = h.explanationService.Enrich(ctx, userID, matches, query.TopK)
	if err != nil {
		// Enrich isolates provider failures per candidate; an error here is
		// infrastructure-level.
		RespondError(c, http.StatusInternalServerError, "enrichment_failed", err)
		return
	}
	RespondOK(c, matchResponse(query, matches))
}
