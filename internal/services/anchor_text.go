package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/intersection-backend/internal/types"
)

func schoolLevelLabel(level string) string {
	switch level {
	case types.SchoolLevelElementary:
		return "elementary school"
	case types.SchoolLevelMiddle:
		return "middle school"
	case types.SchoolLevelHigh:
		return "high school"
	default:
		return "school"
	}
}

// BuildAnchorText renders one anchor as the canonical description string fed
// to the embedding model. Fragment order is fixed: the same anchor must
// produce byte-identical text on every reindex so regression tests can pin
// embeddings.
func BuildAnchorText(anchor *types.SchoolAnchor) string {
	parts := []string{}

	if inst := anchor.Institution; inst != nil {
		parts = append(parts, inst.Name)
		if inst.RegionCity != "" {
			parts = append(parts, inst.RegionCity)
		}
		if inst.RegionDistrict != "" {
			parts = append(parts, inst.RegionDistrict)
		}
	}

	parts = append(parts, fmt.Sprintf("enrolled in %s", schoolLevelLabel(anchor.SchoolLevel)))

	switch {
	case anchor.EntryYear != nil && anchor.GraduationYear != nil:
		parts = append(parts, fmt.Sprintf("entered %d, graduated %d", *anchor.EntryYear, *anchor.GraduationYear))
	case anchor.EntryYear != nil:
		parts = append(parts, fmt.Sprintf("entered %d", *anchor.EntryYear))
	}

	if anchor.User != nil && anchor.User.Nickname != "" {
		parts = append(parts, fmt.Sprintf("user nickname: %s", anchor.User.Nickname))
	}

	return strings.Join(parts, " / ")
}
