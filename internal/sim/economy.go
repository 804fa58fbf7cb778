package sim

import (
	"fmt"

	"omerta/internal/content"
)

// DailyIncome is the per-turn passive income breakdown.
type DailyIncome struct {
	DistrictIncome int64 `json:"district_income"`
	BusinessIncome int64 `json:"business_income"`
	DealerIncome   int64 `json:"dealer_income"`
	Total          int64 `json:"total"`
}

// ComputeDailyIncome aggregates district, business and dealer income for one
// turn. It reads state only.
func ComputeDailyIncome(st *PlayerState, tun Tuning) DailyIncome {
	var out DailyIncome
	for _, d := range st.OwnedDistricts {
		if spec, ok := content.DistrictByID(d); ok {
			out.DistrictIncome += spec.IncomePerDay
		}
	}
	for _, b := range st.OwnedBusinesses {
		if spec, ok := content.BusinessByID(b); ok {
			out.BusinessIncome += spec.IncomePerDay
		}
	}
	if st.DrugEmpire != nil {
		for _, d := range st.DrugEmpire.Dealers {
			out.DealerIncome += CalculateDealerIncome(d, st, tun)
		}
	}
	out.Total = out.DistrictIncome + out.BusinessIncome + out.DealerIncome
	return out
}

// CalculateDealerIncome is non-negative and monotonically non-decreasing in
// the dealer's market share. Quality of the best online lab scales the take;
// an active DEA investigation halves it.
func CalculateDealerIncome(d Dealer, st *PlayerState, tun Tuning) int64 {
	if !d.Active || d.MarketShare <= 0 {
		return 0
	}
	share := d.MarketShare
	if share > 100 {
		share = 100
	}
	quality := bestOnlineQuality(st.DrugEmpire)
	mult := tun.QualityIncomeBonus[0]
	if quality >= 1 && quality <= 3 {
		mult = tun.QualityIncomeBonus[quality-1]
	}
	income := int64(float64(int64(share)*tun.DealerIncomePerShare) * mult)
	if st.DrugEmpire != nil && st.DrugEmpire.DEACountdown > 0 {
		income /= 2
	}
	if income < 0 {
		return 0
	}
	return income
}

func bestOnlineQuality(e *DrugEmpire) int {
	if e == nil {
		return 1
	}
	best := 1
	for lab := range e.LabTiers {
		if e.LabOffline[lab] > 0 {
			continue
		}
		if q := e.SelectedQuality[lab]; q > best {
			best = q
		}
	}
	return best
}

// WashReceipt reports the outcome of a laundering operation.
type WashReceipt struct {
	Washed     int64 `json:"washed"`
	CleanGain  int64 `json:"clean_gain"`
	HeatGain   int64 `json:"heat_gain"`
	QuotaLeft  int64 `json:"quota_left"`
}

// WashQuotaLeft is the remaining laundering allowance for today.
func WashQuotaLeft(st *PlayerState, tun Tuning) int64 {
	left := tun.WashDailyQuota - st.WashUsed
	if left < 0 {
		return 0
	}
	return left
}

// cleanRate is 0.85, lifted to 0.98 when the neon district is owned.
func cleanRate(st *PlayerState, tun Tuning) float64 {
	if st.OwnsDistrict(content.DistrictNeon) {
		return tun.CleanRateNeon
	}
	return tun.CleanRate
}

// Wash launders amount dirty money into clean money at the current clean
// rate, consuming quota and raising heat by max(1, amount/500). Fails with no
// state change when amount exceeds dirty money or the remaining daily quota.
func Wash(st *PlayerState, amount int64, tun Tuning) (WashReceipt, error) {
	if amount <= 0 {
		return WashReceipt{}, ErrInvalidAmount
	}
	if amount > st.DirtyMoney {
		return WashReceipt{}, fmt.Errorf("%w: have %d dirty, tried to wash %d", ErrInsufficientDirty, st.DirtyMoney, amount)
	}
	if amount > WashQuotaLeft(st, tun) {
		return WashReceipt{}, fmt.Errorf("%w: %d left today", ErrWashQuotaExceeded, WashQuotaLeft(st, tun))
	}

	gain := int64(float64(amount) * cleanRate(st, tun))
	heat := amount / 500
	if heat < 1 {
		heat = 1
	}

	st.DirtyMoney -= amount
	st.Money += gain
	st.WashUsed += amount
	st.PersonalHeat = clampHeat(st.PersonalHeat + int(heat))

	return WashReceipt{
		Washed:    amount,
		CleanGain: gain,
		HeatGain:  heat,
		QuotaLeft: WashQuotaLeft(st, tun),
	}, nil
}

// PayDebt pays down debt from clean money.
func PayDebt(st *PlayerState, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > st.Money {
		return ErrInsufficientFunds
	}
	if amount > st.Debt {
		amount = st.Debt
	}
	st.Money -= amount
	st.Debt -= amount
	return nil
}

// TakeLoan adds borrowed clean money and matching debt.
func TakeLoan(st *PlayerState, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if st.Debt+amount > MaxDebtToAdvance {
		return fmt.Errorf("%w: the shark won't lend past %d", ErrDebtTooHigh, MaxDebtToAdvance)
	}
	st.Money += amount
	st.Debt += amount
	return nil
}
