package sim

import (
	"errors"
	"math/rand"
	"testing"

	"omerta/internal/content"
)

func TestSellStolenCarRequiresCleaning(t *testing.T) {
	st := NewPlayerState()
	st.StolenCars = []StolenCar{{ID: "c1", Type: content.CarMuscle, Condition: 80}}

	if _, err := SellStolenCar(st, "c1"); !errors.Is(err, ErrCarNotCleaned) {
		t.Fatalf("expected ErrCarNotCleaned, got %v", err)
	}
	st.Money = 500
	if err := CleanStolenCar(st, "c1"); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	price, err := SellStolenCar(st, "c1")
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	spec, _ := content.CarByType(content.CarMuscle)
	if want := spec.BaseValue * 80 / 100; price != want {
		t.Fatalf("price = %d, want %d", price, want)
	}
	if st.DirtyMoney != price {
		t.Fatalf("proceeds must be dirty money")
	}
	if len(st.StolenCars) != 0 {
		t.Fatalf("sold car must be removed")
	}
}

func TestSafehouseUniquePerDistrict(t *testing.T) {
	st := NewPlayerState()
	st.Money = 100_000
	if err := BuySafehouse(st, content.DistrictIron); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if err := BuySafehouse(st, content.DistrictIron); !errors.Is(err, ErrSafehouseExists) {
		t.Fatalf("expected ErrSafehouseExists, got %v", err)
	}
	if err := UpgradeSafehouse(st, content.DistrictIron); err != nil {
		t.Fatalf("upgrade failed: %v", err)
	}
	sh, _ := st.SafehouseIn(content.DistrictIron)
	if sh.Level != 2 {
		t.Fatalf("level = %d, want 2", sh.Level)
	}
	if err := UpgradeSafehouse(st, content.DistrictNeon); !errors.Is(err, ErrSafehouseNotFound) {
		t.Fatalf("expected ErrSafehouseNotFound, got %v", err)
	}
}

func TestSetLabQualityBounds(t *testing.T) {
	st := NewPlayerState()
	st.Money = 200_000
	if err := BuyLab(st, content.LabWarehouse); err != nil {
		t.Fatalf("buy lab: %v", err)
	}
	if err := SetLabQuality(st, content.LabWarehouse, 2); err == nil {
		t.Fatalf("tier-1 lab must not cook at quality 2")
	}
	if err := BuyLab(st, content.LabWarehouse); err != nil {
		t.Fatalf("upgrade lab: %v", err)
	}
	if err := SetLabQuality(st, content.LabWarehouse, 2); err != nil {
		t.Fatalf("quality 2 on tier-2 lab: %v", err)
	}
	if err := SetLabQuality(st, content.LabSuperlab, 1); err == nil {
		t.Fatalf("unowned lab must be rejected")
	}
}

func TestAssignDealerValidation(t *testing.T) {
	st := NewPlayerState()
	if err := AssignDealer(st, "Slim", "nowhere", 50); !errors.Is(err, ErrUnknownDistrict) {
		t.Fatalf("expected ErrUnknownDistrict, got %v", err)
	}
	if err := AssignDealer(st, "Slim", content.DistrictDocks, 120); err == nil {
		t.Fatalf("share above 100 must be rejected")
	}
	if err := AssignDealer(st, "Slim", content.DistrictDocks, 60); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	// Re-assigning the same dealer updates in place.
	if err := AssignDealer(st, "Slim", content.DistrictNeon, 0); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if len(st.DrugEmpire.Dealers) != 1 {
		t.Fatalf("dealer duplicated on reassign")
	}
	if st.DrugEmpire.Dealers[0].Active {
		t.Fatalf("zero share dealer must be inactive")
	}
}

func TestStealCarRollsConditionAndHeat(t *testing.T) {
	st := NewPlayerState()
	r := rand.New(rand.NewSource(7))

	if _, err := StealCar(st, "hovercraft", r); !errors.Is(err, ErrUnknownCarType) {
		t.Fatalf("expected ErrUnknownCarType, got %v", err)
	}

	car, err := StealCar(st, content.CarExotic, r)
	if err != nil {
		t.Fatalf("steal failed: %v", err)
	}
	if car.Condition < 40 || car.Condition > 90 {
		t.Fatalf("condition = %d, want 40..90", car.Condition)
	}
	if car.Cleaned {
		t.Fatalf("fresh steal must not be cleaned")
	}
	if len(st.StolenCars) != 1 || st.StolenCars[0].ID != car.ID {
		t.Fatalf("stolen car not recorded: %+v", st.StolenCars)
	}
	// Exotic coupe: 4 + 21000/5000 = 8 personal heat.
	if st.PersonalHeat != 8 {
		t.Fatalf("personal heat = %d, want 8", st.PersonalHeat)
	}

	// Armored SUV would be 4 + 34000/5000 = 10.
	if _, err := StealCar(st, content.CarArmored, r); err != nil {
		t.Fatalf("steal failed: %v", err)
	}
	if st.PersonalHeat != 18 {
		t.Fatalf("personal heat = %d, want 18", st.PersonalHeat)
	}
	if st.StolenCars[0].ID == st.StolenCars[1].ID {
		t.Fatalf("stolen cars must get distinct ids")
	}
}

func TestBuyVehicleDealershipMarkup(t *testing.T) {
	st := NewPlayerState()
	if err := BuyVehicle(st, "hovercraft"); !errors.Is(err, ErrUnknownCarType) {
		t.Fatalf("expected ErrUnknownCarType, got %v", err)
	}

	spec, _ := content.CarByType(content.CarSedan)
	price := spec.BaseValue * vehicleMarkupPct / 100
	st.Money = price - 1
	if err := BuyVehicle(st, content.CarSedan); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(st.Vehicles) != 0 {
		t.Fatalf("failed buy must not add a vehicle")
	}

	st.Money = price
	if err := BuyVehicle(st, content.CarSedan); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if st.Money != 0 {
		t.Fatalf("money = %d, want 0", st.Money)
	}
	v := st.Vehicles[0]
	if v.Condition != 100 || v.Heat != 0 {
		t.Fatalf("legal car must start clean at full condition: %+v", v)
	}
}

func TestBuyVillaModuleFoundsVilla(t *testing.T) {
	st := NewPlayerState()
	st.Money = 200_000

	if err := BuyVillaModule(st, "moat"); !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
	if err := BuyVillaModule(st, content.ModuleServerRoom); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if !st.Villa.HasModule(content.ModuleServerRoom) {
		t.Fatalf("module not installed")
	}
	if err := BuyVillaModule(st, content.ModuleServerRoom); err == nil {
		t.Fatalf("duplicate module must be rejected")
	}
	spec, _ := content.VillaModuleByID(content.ModuleServerRoom)
	if st.Money != 200_000-spec.Price {
		t.Fatalf("money = %d, want %d", st.Money, 200_000-spec.Price)
	}
}

func TestHireCrewUniqueNames(t *testing.T) {
	st := NewPlayerState()
	st.Money = 100_000

	if err := HireCrew(st, "Wires", "astronaut"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if err := HireCrew(st, "  ", content.RoleHacker); err == nil {
		t.Fatalf("blank name must be rejected")
	}
	if err := HireCrew(st, "Wires", content.RoleHacker); err != nil {
		t.Fatalf("hire failed: %v", err)
	}
	if err := HireCrew(st, "Wires", content.RoleMuscle); err == nil {
		t.Fatalf("duplicate name must be rejected")
	}
	if !st.HasCrewRole(content.RoleHacker) {
		t.Fatalf("hacker not on the crew")
	}
	// A hacker on the crew speeds up personal heat decay.
	if got := PersonalHeatDecayRate(st, DefaultTuning()); got != DefaultTuning().PersonalHeatBase+DefaultTuning().HackerBonus {
		t.Fatalf("decay rate = %d, want base+hacker", got)
	}
}
