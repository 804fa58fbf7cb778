package sim

import (
	"testing"

	"omerta/internal/content"
)

func TestHeatDecayBounds(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	st.OwnedDistricts = []content.District{content.DistrictCrown}
	st.Villa = &Villa{Modules: []content.VillaModule{content.ModuleServerRoom}}
	st.Crew = []CrewMember{{Name: "Wires", Role: content.RoleHacker, Skill: 7}}
	st.Karma = 200

	for _, heat := range []int{0, 1, 5, 50, 100} {
		st.PersonalHeat = heat
		got := DecayPersonalHeat(st, tun)
		if got < 0 || got > 100 {
			t.Fatalf("personal heat %d decayed out of bounds: %d", heat, got)
		}
		v := Vehicle{ID: "v1", Type: content.CarSedan, Heat: heat}
		if got := DecayVehicleHeat(v, st, tun); got < 0 || got > 100 {
			t.Fatalf("vehicle heat %d decayed out of bounds: %d", heat, got)
		}
	}
}

func TestVehicleHeatDecayRate(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	if got := VehicleHeatDecayRate(st, tun); got != 8 {
		t.Fatalf("base vehicle decay = %d, want 8", got)
	}
	st.OwnedDistricts = []content.District{content.DistrictCrown}
	if got := VehicleHeatDecayRate(st, tun); got != 10 {
		t.Fatalf("crown vehicle decay = %d, want 10", got)
	}
	st.Villa = &Villa{Modules: []content.VillaModule{content.ModuleServerRoom}}
	if got := VehicleHeatDecayRate(st, tun); got != 15 {
		t.Fatalf("crown+server_room vehicle decay = %d, want 15", got)
	}
}

func TestSafehouseHeatDecayScenario(t *testing.T) {
	// Level-3 safehouse in the player's current district: decay = base 2 + 8.
	tun := DefaultTuning()
	st := NewPlayerState()
	st.Location = content.DistrictIron
	st.Safehouses = []Safehouse{{District: content.DistrictIron, Level: 3}}
	if got := PersonalHeatDecayRate(st, tun); got != 10 {
		t.Fatalf("decay rate = %d, want 10", got)
	}
}

func TestSafehouseContributionStacking(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	st.Location = content.DistrictIron
	st.Safehouses = []Safehouse{
		{District: content.DistrictIron, Level: 2},  // same district, level 2 -> 5
		{District: content.DistrictNeon, Level: 2},  // remote, level 2 -> 1
		{District: content.DistrictDocks, Level: 1}, // remote, level 1 -> 0
	}
	if got := PersonalHeatDecayRate(st, tun); got != 2+5+1 {
		t.Fatalf("stacked decay rate = %d, want 8", got)
	}
}

func TestClassifyHeat(t *testing.T) {
	tests := []struct {
		heat int
		want HeatLevel
	}{
		{0, HeatSafe},
		{40, HeatSafe},
		{41, HeatWarning},
		{70, HeatWarning},
		{71, HeatCritical},
		{100, HeatCritical},
	}
	for _, tc := range tests {
		if got := ClassifyHeat(tc.heat); got != tc.want {
			t.Fatalf("ClassifyHeat(%d) = %s, want %s", tc.heat, got, tc.want)
		}
	}
}
