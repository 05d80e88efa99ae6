package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MatchCandidate is one ranked result. It is constructed per query and never
// persisted.
type MatchCandidate struct {
	CandidateUserID   uuid.UUID `json:"candidate_user_id"`
	CandidateNickname string    `json:"candidate_nickname"`
	SimilarityScore   float64   `json:"similarity_score"`

	SchoolName     *string `json:"school_name"`
	SchoolLevel    *string `json:"school_level"`
	EntryYear      *int    `json:"entry_year"`
	GraduationYear *int    `json:"graduation_year"`
	RegionCity     *string `json:"region_city"`
	RegionDistrict *string `json:"region_district"`

	OverlapFragments []string `json:"overlap_fragments"`
	ExtraHint        *string  `json:"extra_hint"`
	Explanation      *string  `json:"explanation"`
}

type MatchResponse struct {
	Total         int               `json:"total"`
	TopK          int               `json:"top_k"`
	MinSimilarity float64           `json:"min_similarity"`
	Candidates    []*MatchCandidate `json:"candidates"`
}

// BuildOverlapFragments renders the representative anchor's shared school and
// years as human-readable facts. No institution means no fragment; an empty
// list is a valid result.
func (m *MatchCandidate) BuildOverlapFragments() []string {
	fragments := []string{}
	if m.SchoolName == nil || *m.SchoolName == "" {
		return fragments
	}

	locParts := []string{}
	if m.RegionCity != nil && *m.RegionCity != "" {
		locParts = append(locParts, *m.RegionCity)
	}
	if m.RegionDistrict != nil && *m.RegionDistrict != "" {
		locParts = append(locParts, *m.RegionDistrict)
	}
	schoolPart := *m.SchoolName
	if len(locParts) > 0 {
		schoolPart = strings.Join(locParts, " ") + " " + schoolPart
	}

	switch {
	case m.EntryYear != nil && m.GraduationYear != nil:
		fragments = append(fragments, fmt.Sprintf("%s, attended %d-%d", schoolPart, *m.EntryYear, *m.GraduationYear))
	case m.EntryYear != nil:
		fragments = append(fragments, fmt.Sprintf("%s, entered in %d", schoolPart, *m.EntryYear))
	default:
		fragments = append(fragments, schoolPart)
	}
	return fragments
}
