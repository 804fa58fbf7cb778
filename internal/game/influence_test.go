package game

import (
	"testing"

	"omerta/internal/content"
)

func TestControlsDistrictUsesPerDistrictThreshold(t *testing.T) {
	cases := []struct {
		district  content.District
		influence int64
		want      bool
	}{
		{content.DistrictLowrise, 1799, false},
		{content.DistrictLowrise, 1800, true},
		{content.DistrictCrown, 4999, false},
		{content.DistrictCrown, 5000, true},
		{content.DistrictDocks, 2500, true},
		{"atlantis", 1_000_000, false},
	}
	for _, tc := range cases {
		if got := controlsDistrict(tc.district, tc.influence); got != tc.want {
			t.Fatalf("controlsDistrict(%s, %d) = %v, want %v", tc.district, tc.influence, got, tc.want)
		}
	}
	// Every threshold must come straight from the content table.
	for _, spec := range content.Districts() {
		if controlsDistrict(spec.ID, spec.InfluenceThreshold-1) {
			t.Fatalf("%s controlled below its threshold %d", spec.ID, spec.InfluenceThreshold)
		}
		if !controlsDistrict(spec.ID, spec.InfluenceThreshold) {
			t.Fatalf("%s not controlled at its threshold %d", spec.ID, spec.InfluenceThreshold)
		}
	}
}

func TestClampLeaderboardLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 20},
		{-5, 20},
		{1, 1},
		{100, 100},
		{101, 100},
		{5000, 100},
	}
	for _, tc := range cases {
		if got := clampLeaderboardLimit(tc.in); got != tc.want {
			t.Fatalf("clampLeaderboardLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
