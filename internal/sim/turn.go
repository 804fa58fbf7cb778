package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// TurnReport summarises everything that happened during one day advance.
type TurnReport struct {
	Day           int         `json:"day"`
	Interest      int64       `json:"interest"`
	Income        DailyIncome `json:"income"`
	RiskEvents    []RiskEvent `json:"risk_events,omitempty"`
	Dividends     int64       `json:"dividends"`
	VehicleDecay  int         `json:"vehicle_decay"`
	PersonalDecay int         `json:"personal_decay"`
}

// AdvanceDay runs the end-of-day sequence on a clone of st and returns the
// new state. The step order matters: interest compounds before income lands,
// risk resolves before production, prices move before dividends pay. On any
// failure the input state is untouched and (nil, nil, err) is returned, so a
// turn either fully applies or not at all.
func AdvanceDay(st *PlayerState, rng *rand.Rand, tun Tuning) (*PlayerState, *TurnReport, error) {
	if st.Debt > MaxDebtToAdvance {
		return nil, nil, fmt.Errorf("%w: %d owed, limit %d", ErrDebtTooHigh, st.Debt, MaxDebtToAdvance)
	}

	next := st.Clone()
	report := &TurnReport{Day: next.Day}

	// 1. Debt interest.
	if next.Debt > 0 {
		withInterest := int64(math.Round(float64(next.Debt) * (1 + tun.DebtInterestRate)))
		report.Interest = withInterest - next.Debt
		next.Debt = withInterest
	}

	// 2. Passive income. Dealer take is dirty, the rest is clean.
	report.Income = ComputeDailyIncome(next, tun)
	next.Money += report.Income.DistrictIncome + report.Income.BusinessIncome
	next.DirtyMoney += report.Income.DealerIncome

	// 3. Risk events, then the production cycle they gate.
	report.RiskEvents = RollRiskEvents(next.DrugEmpire, next.Day, rng, tun)
	ProduceCycle(next.DrugEmpire)

	// 4. Market walk and dividends.
	AdvanceMarket(&next.Market, rng, tun)
	report.Dividends = PayDividends(next)
	maybeSpawnMarketNews(&next.Market, rng)

	// 5. Heat decay.
	report.VehicleDecay = VehicleHeatDecayRate(next, tun)
	report.PersonalDecay = PersonalHeatDecayRate(next, tun)
	for i := range next.Vehicles {
		next.Vehicles[i].Heat = DecayVehicleHeat(next.Vehicles[i], next, tun)
	}
	next.PersonalHeat = DecayPersonalHeat(next, tun)
	next.Heat = clampHeat(next.Heat - report.PersonalDecay)

	// 6. Cooldowns.
	for i := range next.Vehicles {
		if next.Vehicles[i].RekatCooldown > 0 {
			next.Vehicles[i].RekatCooldown--
		}
	}
	TickNemesis(next, rng, tun)

	// 7. Fresh wash quota.
	next.WashUsed = 0

	// 8. New day.
	next.Day++

	return next, report, nil
}
