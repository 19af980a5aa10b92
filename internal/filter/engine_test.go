package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }

func TestMatch(t *testing.T) {
	sp := NewSpaceports([]int{27, 12}, []string{"vandenberg", "Cape Canaveral", "  ", "spacex"})

	tests := []struct {
		name string
		loc  *Location
		want bool
	}{
		{
			name: "listed id passes regardless of name",
			loc:  &Location{ID: intPtr(27), Name: "Somewhere Else"},
			want: true,
		},
		{
			name: "unlisted id passes via keyword",
			loc:  &Location{ID: intPtr(11), Name: "Vandenberg SLC-4E"},
			want: true,
		},
		{
			name: "keyword match is case insensitive both ways",
			loc:  &Location{ID: intPtr(80), Name: "CAPE CANAVERAL SFS, FL, USA"},
			want: true,
		},
		{
			name: "unlisted id and no keyword is dropped",
			loc:  &Location{ID: intPtr(99), Name: "Baikonur"},
			want: false,
		},
		{
			name: "missing id falls back to keyword",
			loc:  &Location{Name: "Vandenberg SFB"},
			want: true,
		},
		{
			name: "missing id and no keyword is dropped",
			loc:  &Location{Name: "Starbase"},
			want: false,
		},
		{
			name: "secondary placeholder passes only by keyword",
			loc:  &Location{ID: intPtr(0), Name: "SpaceX Facility"},
			want: true,
		},
		{
			name: "nil location is dropped",
			loc:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sp.Match(tt.loc)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBlankKeywordDoesNotMatchEverything(t *testing.T) {
	sp := NewSpaceports(nil, []string{"", " "})
	if sp.Match(&Location{Name: "Anywhere"}) {
		t.Error("blank keywords must not match")
	}
}

func TestPlaceholderWithoutKeyword(t *testing.T) {
	sp := NewSpaceports([]int{27}, []string{"vandenberg"})
	if sp.Match(&Location{ID: intPtr(0), Name: "SpaceX Facility"}) {
		t.Error("placeholder location must not match by id 0")
	}
}
