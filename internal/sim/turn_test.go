package sim

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"omerta/internal/content"
)

func TestAdvanceDayDebtGate(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	st.Debt = MaxDebtToAdvance + 1

	before, _ := json.Marshal(st)
	next, report, err := AdvanceDay(st, rand.New(rand.NewSource(1)), tun)
	if !errors.Is(err, ErrDebtTooHigh) {
		t.Fatalf("expected ErrDebtTooHigh, got %v", err)
	}
	if next != nil || report != nil {
		t.Fatalf("rejected turn must return no state")
	}
	after, _ := json.Marshal(st)
	if string(before) != string(after) {
		t.Fatalf("rejected turn mutated input state")
	}
}

func TestAdvanceDayLeavesInputUntouched(t *testing.T) {
	// The turn works on a clone; the caller's state must be byte-identical
	// afterwards regardless of outcome.
	tun := DefaultTuning()
	st := NewPlayerState()
	st.OwnedDistricts = []content.District{content.DistrictIron}
	st.Vehicles = []Vehicle{{ID: "v1", Type: content.CarSedan, Condition: 80, Heat: 60, RekatCooldown: 2}}
	st.DrugEmpire = testEmpire()
	st.Holdings[content.StockHavok] = Holding{Shares: 3, AvgBuyPrice: 120}

	before, _ := json.Marshal(st)
	next, _, err := AdvanceDay(st, rand.New(rand.NewSource(5)), tun)
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	after, _ := json.Marshal(st)
	if string(before) != string(after) {
		t.Fatalf("AdvanceDay mutated its input")
	}
	if next.Day != st.Day+1 {
		t.Fatalf("next day = %d, want %d", next.Day, st.Day+1)
	}
}

func TestAdvanceDayStepEffects(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	st.Money = 1000
	st.Debt = 10000
	st.PersonalHeat = 50
	st.WashUsed = 4000
	st.OwnedDistricts = []content.District{content.DistrictIron}
	st.OwnedBusinesses = []content.Business{content.BusinessCarWash}
	st.Vehicles = []Vehicle{{ID: "v1", Type: content.CarSedan, Heat: 30, RekatCooldown: 1}}
	st.Nemesis.TruceDaysLeft = 2

	next, report, err := AdvanceDay(st, rand.New(rand.NewSource(11)), tun)
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}

	// 1. Interest at 3%, rounded.
	if next.Debt != 10300 {
		t.Fatalf("debt = %d, want 10300", next.Debt)
	}
	if report.Interest != 300 {
		t.Fatalf("interest = %d, want 300", report.Interest)
	}
	// 2. District + business income credited clean (plus any dividends).
	wantIncome := int64(700 + 150)
	if report.Income.Total != wantIncome {
		t.Fatalf("income total = %d, want %d", report.Income.Total, wantIncome)
	}
	if next.Money != 1000+wantIncome+report.Dividends {
		t.Fatalf("money = %d, want %d", next.Money, 1000+wantIncome+report.Dividends)
	}
	// 5. Heat decayed by the base rates.
	if next.Vehicles[0].Heat != 30-8 {
		t.Fatalf("vehicle heat = %d, want 22", next.Vehicles[0].Heat)
	}
	if next.PersonalHeat != 50-2 {
		t.Fatalf("personal heat = %d, want 48", next.PersonalHeat)
	}
	// 6. Cooldowns floored at zero.
	if next.Vehicles[0].RekatCooldown != 0 {
		t.Fatalf("rekat cooldown = %d, want 0", next.Vehicles[0].RekatCooldown)
	}
	if next.Nemesis.TruceDaysLeft != 1 {
		t.Fatalf("truce = %d, want 1", next.Nemesis.TruceDaysLeft)
	}
	// 7. Wash quota reset.
	if next.WashUsed != 0 {
		t.Fatalf("wash quota not reset")
	}
	// 8. Day advanced.
	if next.Day != st.Day+1 {
		t.Fatalf("day = %d, want %d", next.Day, st.Day+1)
	}
}

func TestAdvanceDayDeterministicWithSeed(t *testing.T) {
	tun := DefaultTuning()
	a := NewPlayerState()
	a.DrugEmpire = testEmpire()
	b := a.Clone()

	nextA, _, errA := AdvanceDay(a, rand.New(rand.NewSource(77)), tun)
	nextB, _, errB := AdvanceDay(b, rand.New(rand.NewSource(77)), tun)
	if errA != nil || errB != nil {
		t.Fatalf("advance failed: %v %v", errA, errB)
	}
	ja, _ := json.Marshal(nextA)
	jb, _ := json.Marshal(nextB)
	if string(ja) != string(jb) {
		t.Fatalf("same seed produced different states")
	}
}

func TestCloneIsDeep(t *testing.T) {
	st := NewPlayerState()
	st.DrugEmpire = testEmpire()
	st.Safehouses = []Safehouse{{District: content.DistrictIron, Level: 2}}
	st.Vehicles = []Vehicle{{ID: "v1", Upgrades: map[string]int{"engine": 2}}}

	cp := st.Clone()
	cp.DrugEmpire.LabTiers[content.LabSuperlab] = 3
	cp.Safehouses[0].Level = 3
	cp.Vehicles[0].Upgrades["engine"] = 9
	cp.Market.Prices[content.StockHavok] = 1
	cp.Holdings[content.StockStray] = Holding{Shares: 1}

	if _, ok := st.DrugEmpire.LabTiers[content.LabSuperlab]; ok {
		t.Fatalf("clone shares lab map")
	}
	if st.Safehouses[0].Level != 2 {
		t.Fatalf("clone shares safehouse slice")
	}
	if st.Vehicles[0].Upgrades["engine"] != 2 {
		t.Fatalf("clone shares upgrade map")
	}
	if st.Market.Prices[content.StockHavok] == 1 {
		t.Fatalf("clone shares market prices")
	}
	if _, ok := st.Holdings[content.StockStray]; ok {
		t.Fatalf("clone shares holdings map")
	}
}
