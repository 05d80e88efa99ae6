package types

import "testing"

func sp(s string) *string { return &s }
func ip(v int) *int       { return &v }

func TestBuildOverlapFragments(t *testing.T) {
	tests := []struct {
		name string
		m    MatchCandidate
		want []string
	}{
		{
			name: "no school name",
			m:    MatchCandidate{EntryYear: ip(2008)},
			want: []string{},
		},
		{
			name: "both years",
			m: MatchCandidate{
				SchoolName:     sp("Lakeside High"),
				RegionCity:     sp("Springfield"),
				RegionDistrict: sp("North"),
				EntryYear:      ip(2008),
				GraduationYear: ip(2011),
			},
			want: []string{"Springfield North Lakeside High, attended 2008-2011"},
		},
		{
			name: "entry year only",
			m: MatchCandidate{
				SchoolName: sp("Central Middle"),
				EntryYear:  ip(2015),
			},
			want: []string{"Central Middle, entered in 2015"},
		},
		{
			name: "school only",
			m: MatchCandidate{
				SchoolName: sp("Hillcrest Elementary"),
				RegionCity: sp("Riverton"),
			},
			want: []string{"Riverton Hillcrest Elementary"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.BuildOverlapFragments()
			if len(got) != len(tt.want) {
				t.Fatalf("fragments: want=%v got=%v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("fragment %d: want=%q got=%q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
