package sim

import "omerta/internal/content"

// HeatLevel is the tri-level risk classification used by collaborating
// systems for checkpoint probability.
type HeatLevel string

const (
	HeatSafe     HeatLevel = "safe"
	HeatWarning  HeatLevel = "warning"
	HeatCritical HeatLevel = "critical"
)

// ClassifyHeat buckets a heat value: above 70 critical, above 40 warning.
func ClassifyHeat(heat int) HeatLevel {
	switch {
	case heat > 70:
		return HeatCritical
	case heat > 40:
		return HeatWarning
	default:
		return HeatSafe
	}
}

func clampHeat(h int) int {
	if h < 0 {
		return 0
	}
	if h > 100 {
		return 100
	}
	return h
}

// VehicleHeatDecayRate is the per-turn subtractive decay applied to every
// owned vehicle: base 8, +2 with the crown district, +5 with a villa
// server room.
func VehicleHeatDecayRate(st *PlayerState, tun Tuning) int {
	rate := tun.VehicleHeatBase
	if st.OwnsDistrict(content.DistrictCrown) {
		rate += tun.CrownVehicleBonus
	}
	if st.Villa.HasModule(content.ModuleServerRoom) {
		rate += tun.ServerRoomBonus
	}
	return rate
}

// DecayVehicleHeat returns the vehicle's heat after one turn of decay,
// clamped to [0,100].
func DecayVehicleHeat(v Vehicle, st *PlayerState, tun Tuning) int {
	return clampHeat(v.Heat - VehicleHeatDecayRate(st, tun))
}

// PersonalHeatDecayRate sums the per-turn personal heat decay: base 2,
// +1 crown district, +5 server room, +2 with a hacker on the crew, a
// karma-derived bonus, and the stacked safehouse contributions.
func PersonalHeatDecayRate(st *PlayerState, tun Tuning) int {
	rate := tun.PersonalHeatBase
	if st.OwnsDistrict(content.DistrictCrown) {
		rate += tun.CrownPersonalBonus
	}
	if st.Villa.HasModule(content.ModuleServerRoom) {
		rate += tun.ServerRoomBonus
	}
	if st.HasCrewRole(content.RoleHacker) {
		rate += tun.HackerBonus
	}
	rate += karmaHeatBonus(st.Karma)
	for _, sh := range st.Safehouses {
		rate += safehouseHeatContribution(sh, st.Location)
	}
	return rate
}

// DecayPersonalHeat returns the player's personal heat after one turn of
// decay, clamped to [0,100].
func DecayPersonalHeat(st *PlayerState, tun Tuning) int {
	return clampHeat(st.PersonalHeat - PersonalHeatDecayRate(st, tun))
}

// safehouseHeatContribution: staying in the safehouse's district gives 3/5/8
// for levels 1/2/3; a remote safehouse contributes 1 from level 2 up.
func safehouseHeatContribution(sh Safehouse, loc content.District) int {
	if sh.District == loc {
		switch {
		case sh.Level >= 3:
			return 8
		case sh.Level == 2:
			return 5
		default:
			return 3
		}
	}
	if sh.Level >= 2 {
		return 1
	}
	return 0
}

// karmaHeatBonus converts karma into extra decay. Only good karma helps;
// every 25 points adds one point of decay, capped at 4.
func karmaHeatBonus(karma int) int {
	if karma <= 0 {
		return 0
	}
	bonus := karma / 25
	if bonus > 4 {
		bonus = 4
	}
	return bonus
}
