package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/intersection-backend/internal/types"
)

func matchFor(nickname string) *types.MatchCandidate {
	return &types.MatchCandidate{
		CandidateUserID:   uuid.New(),
		CandidateNickname: nickname,
		SimilarityScore:   0.8,
	}
}

func newEnrichFixture(t *testing.T, userRepo *fakeUserRepo, keywordRepo *fakeUserKeywordRepo, gen *fakeGenerator) ExplanationService {
	t.Helper()
	if userRepo == nil {
		userRepo = &fakeUserRepo{}
	}
	if keywordRepo == nil {
		keywordRepo = &fakeUserKeywordRepo{}
	}
	return NewExplanationService(nil, newTestLogger(t), userRepo, keywordRepo, gen, time.Second)
}

func TestEnrichEmptyInput(t *testing.T) {
	svc := newEnrichFixture(t, nil, nil, &fakeGenerator{text: "hi"})

	matches, err := svc.Enrich(context.Background(), uuid.New(), []*types.MatchCandidate{}, 10)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("matches: want=0 got=%d", len(matches))
	}
}

func TestEnrichBoundedToMaxCandidates(t *testing.T) {
	gen := &fakeGenerator{text: "You both went to the same school."}
	svc := newEnrichFixture(t, nil, nil, gen)

	input := []*types.MatchCandidate{matchFor("a"), matchFor("b"), matchFor("c")}
	matches, err := svc.Enrich(context.Background(), uuid.New(), input, 1)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("length changed: want=3 got=%d", len(matches))
	}
	if matches[0].Explanation == nil {
		t.Fatalf("first candidate not enriched")
	}
	if matches[1].Explanation != nil || matches[2].Explanation != nil {
		t.Fatalf("candidates beyond the bound were enriched")
	}
	for i, want := range []string{"a", "b", "c"} {
		if matches[i].CandidateNickname != want {
			t.Fatalf("order changed at %d: want=%q got=%q", i, want, matches[i].CandidateNickname)
		}
	}
}

func TestEnrichFallbackIsolatedPerCandidate(t *testing.T) {
	gen := &fakeGenerator{
		text:   "A warm explanation.",
		err:    errors.New("provider down"),
		failOn: map[string]bool{"brokenCandidate": true},
	}
	svc := newEnrichFixture(t, nil, nil, gen)

	input := []*types.MatchCandidate{matchFor("fineCandidate"), matchFor("brokenCandidate")}
	matches, err := svc.Enrich(context.Background(), uuid.New(), input, 10)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if matches[0].Explanation == nil || *matches[0].Explanation != "A warm explanation." {
		t.Fatalf("healthy candidate: %v", matches[0].Explanation)
	}
	if matches[1].Explanation == nil || *matches[1].Explanation != ExplanationFallback {
		t.Fatalf("failed candidate: %v", matches[1].Explanation)
	}
}

func TestEnrichSwallowsKeywordErrors(t *testing.T) {
	gen := &fakeGenerator{text: "Still fine."}
	keywordRepo := &fakeUserKeywordRepo{err: errors.New("keywords unavailable")}
	svc := newEnrichFixture(t, nil, keywordRepo, gen)

	matches, err := svc.Enrich(context.Background(), uuid.New(), []*types.MatchCandidate{matchFor("a")}, 10)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if matches[0].Explanation == nil || *matches[0].Explanation != "Still fine." {
		t.Fatalf("explanation lost to keyword failure: %v", matches[0].Explanation)
	}
	if matches[0].ExtraHint != nil {
		t.Fatalf("hint set despite keyword failure: %q", *matches[0].ExtraHint)
	}
}

func TestEnrichIncludesKeywordsAndNicknames(t *testing.T) {
	requester := uuid.New()
	cand := matchFor("roommate")
	gen := &fakeGenerator{text: "ok"}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*types.User{
		requester: {ID: requester, Nickname: "requesting_user"},
	}}
	keywordRepo := &fakeUserKeywordRepo{keywords: map[uuid.UUID][]*types.UserKeyword{
		cand.CandidateUserID: {
			{Keyword: "basketball", Weight: 5},
			{Keyword: "band", Weight: 3},
		},
	}}
	svc := newEnrichFixture(t, userRepo, keywordRepo, gen)

	if _, err := svc.Enrich(context.Background(), requester, []*types.MatchCandidate{cand}, 10); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("prompts: want=1 got=%d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	for _, want := range []string{"requesting_user", "roommate", "basketball, band"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if cand.ExtraHint == nil || !strings.Contains(*cand.ExtraHint, "basketball") {
		t.Fatalf("extra hint: %v", cand.ExtraHint)
	}
}

func TestEnrichRequesterLookupFailureDegrades(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	userRepo := &fakeUserRepo{err: errors.New("db down")}
	svc := newEnrichFixture(t, userRepo, nil, gen)

	matches, err := svc.Enrich(context.Background(), uuid.New(), []*types.MatchCandidate{matchFor("a")}, 10)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if matches[0].Explanation == nil {
		t.Fatalf("enrichment skipped on requester lookup failure")
	}
	if !strings.Contains(gen.prompts[0], "someone") {
		t.Fatalf("prompt missing nickname fallback:\n%s", gen.prompts[0])
	}
}
