package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/repos"
	"github.com/yungbote/intersection-backend/internal/types"
)

// ExplanationFallback is returned verbatim for a candidate whose generation
// call failed; the rest of the batch is unaffected.
const ExplanationFallback = "Explanation generation failed, please retry."

const requesterNicknameFallback = "someone"

const explanationSystemPrompt = "You are the explanation writer for a friend recommendation app " +
	"that matches people by overlapping school and neighborhood memories. " +
	"In 2 to 4 sentences, explain why this candidate was recommended so the reader can easily understand. " +
	"Keep the tone warm and never exaggerated, and use a polite, formal register."

type ExplanationService interface {
	// Enrich populates explanations for the first maxCandidates entries and
	// returns the slice with order and length unchanged.
	Enrich(ctx context.Context, requesterID uuid.UUID, matches []*types.MatchCandidate, maxCandidates int) ([]*types.MatchCandidate, error)

	// GenerateOne produces a single explanation without the fallback
	// behavior, surfacing provider errors to the caller.
	GenerateOne(ctx context.Context, meNickname string, m *types.MatchCandidate) (string, error)
}

type explanationService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	keywordRepo repos.UserKeywordRepo
	generator   TextGenerator

	perCallTimeout time.Duration
	parallelism    int
}

func NewExplanationService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, keywordRepo repos.UserKeywordRepo, generator TextGenerator, perCallTimeout time.Duration) ExplanationService {
	if perCallTimeout <= 0 {
		perCallTimeout = 20 * time.Second
	}
	return &explanationService{
		db:             db,
		log:            log.With("service", "ExplanationService"),
		userRepo:       userRepo,
		keywordRepo:    keywordRepo,
		generator:      generator,
		perCallTimeout: perCallTimeout,
		parallelism:    4,
	}
}

func (es *explanationService) Enrich(ctx context.Context, requesterID uuid.UUID, matches []*types.MatchCandidate, maxCandidates int) ([]*types.MatchCandidate, error) {
	if len(matches) == 0 {
		return matches, nil
	}

	meNickname := requesterNicknameFallback
	me, err := es.userRepo.GetByID(ctx, nil, requesterID)
	if err != nil || me == nil {
		// Missing requester record degrades the prompt, never the call.
		es.log.Warn("Could not resolve requester nickname", "user_id", requesterID.String(), "error", err)
	} else if me.Nickname != "" {
		meNickname = me.Nickname
	}

	limit := maxCandidates
	if limit > len(matches) {
		limit = len(matches)
	}
	if limit <= 0 {
		return matches, nil
	}

	// Parallel fan-out is bounded and keyed to input order; each branch only
	// touches its own entry, so one failure never leaks into another.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(es.parallelism)
	for i := 0; i < limit; i++ {
		m := matches[i]
		g.Go(func() error {
			es.enrichOne(gctx, meNickname, m)
			return nil
		})
	}
	_ = g.Wait()

	return matches, nil
}

func (es *explanationService) enrichOne(ctx context.Context, meNickname string, m *types.MatchCandidate) {
	if len(m.OverlapFragments) == 0 {
		m.OverlapFragments = m.BuildOverlapFragments()
	}

	keywords, err := es.keywordRepo.TopByWeight(ctx, nil, m.CandidateUserID, 3)
	if err != nil {
		// Missing keyword context degrades to no extra hint.
		es.log.Warn("Failed to load keywords for candidate", "candidate_user_id", m.CandidateUserID.String(), "error", err)
		keywords = nil
	}
	if len(keywords) > 0 {
		parts := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			if kw.Keyword != "" {
				parts = append(parts, kw.Keyword)
			}
		}
		if len(parts) > 0 {
			hint := "Candidate's representative keywords: " + strings.Join(parts, ", ")
			m.ExtraHint = &hint
		}
	}

	userPrompt := buildExplanationPrompt(meNickname, m.CandidateNickname, m.OverlapFragments, m.ExtraHint)

	callCtx, cancel := context.WithTimeout(ctx, es.perCallTimeout)
	defer cancel()
	text, err := es.generator.GenerateText(callCtx, explanationSystemPrompt, userPrompt, 0.4, 256)
	if err != nil {
		es.log.Warn("Failed to generate match explanation", "candidate_user_id", m.CandidateUserID.String(), "error", err)
		fallback := ExplanationFallback
		m.Explanation = &fallback
		return
	}
	m.Explanation = &text
}

func (es *explanationService) GenerateOne(ctx context.Context, meNickname string, m *types.MatchCandidate) (string, error) {
	userPrompt := buildExplanationPrompt(meNickname, m.CandidateNickname, m.OverlapFragments, m.ExtraHint)
	callCtx, cancel := context.WithTimeout(ctx, es.perCallTimeout)
	defer cancel()
	return es.generator.GenerateText(callCtx, explanationSystemPrompt, userPrompt, 0.4, 256)
}

func buildExplanationPrompt(meNickname, candidateNickname string, overlapFragments []string, extraHint *string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "My nickname: %s\n", meNickname)
	fmt.Fprintf(&b, "Recommended candidate's nickname: %s\n\n", candidateNickname)

	if len(overlapFragments) > 0 {
		b.WriteString("The following overlapping memories were found:\n")
		for _, frag := range overlapFragments {
			fmt.Fprintf(&b, "- %s\n", frag)
		}
	} else {
		b.WriteString("No explicit overlap surfaced, but this candidate was recommended based on a combination of signals.\n")
	}

	if extraHint != nil && *extraHint != "" {
		fmt.Fprintf(&b, "\nAdditional hint:\n- %s\n", *extraHint)
	}
	return b.String()
}
