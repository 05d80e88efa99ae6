package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intersection-backend/internal/services"
	"github.com/yungbote/intersection-backend/internal/types"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/matching/anchors?"+rawQuery, nil)
	return c
}

func TestParseMatchQueryDefaults(t *testing.T) {
	c := queryContext(t, "")
	query, err := parseMatchQuery(c, 20, 50)
	if err != nil {
		t.Fatalf("parseMatchQuery: %v", err)
	}
	if query.TopK != 20 {
		t.Fatalf("top_k default: want=20 got=%d", query.TopK)
	}
	if query.MinSimilarity != 0.3 {
		t.Fatalf("min_similarity default: want=0.3 got=%f", query.MinSimilarity)
	}
	if query.Filters.SchoolLevel != nil || query.Filters.EntryYearFrom != nil || query.Filters.EntryYearTo != nil {
		t.Fatalf("filters not empty by default: %+v", query.Filters)
	}
}

func TestParseMatchQueryExplicitValues(t *testing.T) {
	c := queryContext(t, "top_k=5&min_similarity=0.75&school_level=middle&entry_year_from=2005&entry_year_to=2010")
	query, err := parseMatchQuery(c, 20, 50)
	if err != nil {
		t.Fatalf("parseMatchQuery: %v", err)
	}
	if query.TopK != 5 {
		t.Fatalf("top_k: want=5 got=%d", query.TopK)
	}
	if query.MinSimilarity != 0.75 {
		t.Fatalf("min_similarity: want=0.75 got=%f", query.MinSimilarity)
	}
	if query.Filters.SchoolLevel == nil || *query.Filters.SchoolLevel != types.SchoolLevelMiddle {
		t.Fatalf("school_level: %v", query.Filters.SchoolLevel)
	}
	if query.Filters.EntryYearFrom == nil || *query.Filters.EntryYearFrom != 2005 {
		t.Fatalf("entry_year_from: %v", query.Filters.EntryYearFrom)
	}
	if query.Filters.EntryYearTo == nil || *query.Filters.EntryYearTo != 2010 {
		t.Fatalf("entry_year_to: %v", query.Filters.EntryYearTo)
	}
}

func TestParseMatchQueryRejections(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
	}{
		{"top_k not a number", "top_k=abc"},
		{"top_k zero", "top_k=0"},
		{"top_k above bound", "top_k=51"},
		{"min_similarity not a number", "min_similarity=high"},
		{"min_similarity negative", "min_similarity=-0.1"},
		{"min_similarity above one", "min_similarity=1.5"},
		{"unknown school level", "school_level=university"},
		{"entry_year_from too small", "entry_year_from=1800"},
		{"entry_year_to too large", "entry_year_to=2200"},
		{"inverted year range", "entry_year_from=2010&entry_year_to=2005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := queryContext(t, tt.rawQuery)
			if _, err := parseMatchQuery(c, 20, 50); err == nil {
				t.Fatalf("parseMatchQuery: expected error for %q", tt.rawQuery)
			}
		})
	}
}

func TestParseMatchQueryPerEndpointBounds(t *testing.T) {
	// The explanation surface carries a tighter cap: 20 is fine on the
	// ranking surface but rejected there.
	c := queryContext(t, "top_k=21")
	if _, err := parseMatchQuery(c, 10, 20); err == nil {
		t.Fatalf("parseMatchQuery: expected error above explanation cap")
	}
	c = queryContext(t, "top_k=21")
	if _, err := parseMatchQuery(c, 20, 50); err != nil {
		t.Fatalf("parseMatchQuery: %v", err)
	}
}

func TestMatchResponseRoundsScores(t *testing.T) {
	matches := []*types.MatchCandidate{
		{SimilarityScore: 0.123456789},
		{SimilarityScore: 0.99999},
	}
	resp := matchResponse(services.MatchQuery{TopK: 10, MinSimilarity: 0.3}, matches)
	if resp.Candidates[0].SimilarityScore != 0.1235 {
		t.Fatalf("rounding: want=0.1235 got=%f", resp.Candidates[0].SimilarityScore)
	}
	if resp.Candidates[1].SimilarityScore != 1 {
		t.Fatalf("rounding: want=1 got=%f", resp.Candidates[1].SimilarityScore)
	}
	if resp.Total != 2 {
		t.Fatalf("total: want=2 got=%d", resp.Total)
	}
}
