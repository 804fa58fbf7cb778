package sim

import (
	"fmt"
	"math/rand"
	"strings"

	"omerta/internal/content"
)

// Player-initiated operations outside the day advance. Each either fully
// applies or returns an error with no state change.

// BuyDistrict takes ownership of a district for its listed price.
func BuyDistrict(st *PlayerState, id content.District) error {
	spec, ok := content.DistrictByID(id)
	if !ok {
		return ErrUnknownDistrict
	}
	if st.OwnsDistrict(id) {
		return fmt.Errorf("district %s already owned", id)
	}
	if st.Money < spec.Price {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, spec.Price)
	}
	st.Money -= spec.Price
	st.OwnedDistricts = append(st.OwnedDistricts, id)
	return nil
}

// BuyBusiness purchases a front business.
func BuyBusiness(st *PlayerState, id content.Business) error {
	spec, ok := content.BusinessByID(id)
	if !ok {
		return fmt.Errorf("unknown business %q", id)
	}
	if st.OwnsBusiness(id) {
		return fmt.Errorf("business %s already owned", id)
	}
	if st.Money < spec.Price {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, spec.Price)
	}
	st.Money -= spec.Price
	st.OwnedBusinesses = append(st.OwnedBusinesses, id)
	return nil
}

// RepairVehicle restores condition at a flat per-point cost.
func RepairVehicle(st *PlayerState, vehicleID string) error {
	const costPerPoint = 15
	for i := range st.Vehicles {
		v := &st.Vehicles[i]
		if v.ID != vehicleID {
			continue
		}
		missing := 100 - v.Condition
		if missing <= 0 {
			return nil
		}
		cost := int64(missing) * costPerPoint
		if st.Money < cost {
			return fmt.Errorf("%w: repair costs %d", ErrInsufficientFunds, cost)
		}
		st.Money -= cost
		v.Condition = 100
		return nil
	}
	return ErrVehicleNotFound
}

// CleanStolenCar omkats a hot car so it can be sold or used. The chop shop
// wants clean money up front and the job burns a few days of plate cooldown
// if the car is later registered.
func CleanStolenCar(st *PlayerState, carID string) error {
	const cleanCost = 500
	for i := range st.StolenCars {
		c := &st.StolenCars[i]
		if c.ID != carID {
			continue
		}
		if c.Cleaned {
			return nil
		}
		if st.Money < cleanCost {
			return fmt.Errorf("%w: cleaning costs %d", ErrInsufficientFunds, cleanCost)
		}
		st.Money -= cleanCost
		c.Cleaned = true
		return nil
	}
	return ErrCarNotFound
}

// SellStolenCar sells a cleaned car for dirty money scaled by condition.
// Selling a hot car is an invalid state transition.
func SellStolenCar(st *PlayerState, carID string) (int64, error) {
	for i, c := range st.StolenCars {
		if c.ID != carID {
			continue
		}
		if !c.Cleaned {
			return 0, ErrCarNotCleaned
		}
		spec, ok := content.CarByType(c.Type)
		if !ok {
			return 0, ErrCarNotFound
		}
		price := spec.BaseValue * int64(c.Condition) / 100
		st.StolenCars = append(st.StolenCars[:i], st.StolenCars[i+1:]...)
		st.DirtyMoney += price
		return price, nil
	}
	return 0, ErrCarNotFound
}

// Dealership markup over a model's street value, in percent.
const vehicleMarkupPct = 160

// BuyVehicle buys a legal car at the dealership markup. Legal cars come in
// full condition with no heat on the plates.
func BuyVehicle(st *PlayerState, t content.CarType) error {
	spec, ok := content.CarByType(t)
	if !ok {
		return ErrUnknownCarType
	}
	price := spec.BaseValue * vehicleMarkupPct / 100
	if st.Money < price {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, price)
	}
	st.Money -= price
	st.Vehicles = append(st.Vehicles, Vehicle{
		ID:        nextAssetID(st, "veh"),
		Type:      t,
		Condition: 100,
	})
	return nil
}

// StealCar lifts a car off the street. Condition comes out of the roll and
// personal heat scales with how conspicuous the model is.
func StealCar(st *PlayerState, t content.CarType, r *rand.Rand) (StolenCar, error) {
	spec, ok := content.CarByType(t)
	if !ok {
		return StolenCar{}, ErrUnknownCarType
	}
	car := StolenCar{
		ID:        nextAssetID(st, "hot"),
		Type:      t,
		Condition: 40 + r.Intn(51),
		StolenDay: st.Day,
	}
	st.StolenCars = append(st.StolenCars, car)
	st.PersonalHeat = clampHeat(st.PersonalHeat + theftHeat(spec.BaseValue))
	return car, nil
}

// theftHeat: flat 4 plus one point per 5000 of street value, capped at 15.
func theftHeat(value int64) int {
	h := 4 + int(value/5000)
	if h > 15 {
		h = 15
	}
	return h
}

func nextAssetID(st *PlayerState, prefix string) string {
	st.AssetSeq++
	return fmt.Sprintf("%s_%d_%d", prefix, st.Day, st.AssetSeq)
}

// BuyVillaModule installs a villa expansion. The first purchase founds the
// villa itself.
func BuyVillaModule(st *PlayerState, m content.VillaModule) error {
	spec, ok := content.VillaModuleByID(m)
	if !ok {
		return ErrUnknownModule
	}
	if st.Villa.HasModule(m) {
		return fmt.Errorf("module %s already installed", m)
	}
	if st.Money < spec.Price {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, spec.Price)
	}
	st.Money -= spec.Price
	if st.Villa == nil {
		st.Villa = &Villa{}
	}
	st.Villa.Modules = append(st.Villa.Modules, m)
	return nil
}

// HireCrew signs a crew member for the role's hire cost. Names are unique
// within the crew.
func HireCrew(st *PlayerState, name string, role content.CrewRole) error {
	spec, ok := content.CrewRoleByID(role)
	if !ok {
		return ErrUnknownRole
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("crew member needs a name")
	}
	for _, c := range st.Crew {
		if c.Name == name {
			return fmt.Errorf("crew member %s already hired", name)
		}
	}
	if st.Money < spec.HireCost {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, spec.HireCost)
	}
	st.Money -= spec.HireCost
	st.Crew = append(st.Crew, CrewMember{Name: name, Role: role, Skill: 5})
	return nil
}

// safehouse pricing by level.
var safehousePrices = [3]int64{8000, 18000, 36000}

// BuySafehouse opens a level-1 safehouse; at most one per district.
func BuySafehouse(st *PlayerState, d content.District) error {
	if !content.ValidDistrict(d) {
		return ErrUnknownDistrict
	}
	if _, ok := st.SafehouseIn(d); ok {
		return ErrSafehouseExists
	}
	price := safehousePrices[0]
	if st.Money < price {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, price)
	}
	st.Money -= price
	st.Safehouses = append(st.Safehouses, Safehouse{District: d, Level: 1, PurchaseDay: st.Day})
	return nil
}

// UpgradeSafehouse raises the safehouse one level, max 3.
func UpgradeSafehouse(st *PlayerState, d content.District) error {
	for i := range st.Safehouses {
		sh := &st.Safehouses[i]
		if sh.District != d {
			continue
		}
		if sh.Level >= 3 {
			return fmt.Errorf("safehouse in %s already at max level", d)
		}
		price := safehousePrices[sh.Level]
		if st.Money < price {
			return fmt.Errorf("%w: need %d", ErrInsufficientFunds, price)
		}
		st.Money -= price
		sh.Level++
		return nil
	}
	return ErrSafehouseNotFound
}

// AssignDealer places or updates a dealer in a district with the given
// market share.
func AssignDealer(st *PlayerState, name string, d content.District, share int) error {
	if !content.ValidDistrict(d) {
		return ErrUnknownDistrict
	}
	if share < 0 || share > 100 {
		return fmt.Errorf("market share must be 0..100, got %d", share)
	}
	if st.DrugEmpire == nil {
		st.DrugEmpire = &DrugEmpire{
			LabTiers:        map[content.Lab]int{},
			SelectedQuality: map[content.Lab]int{},
		}
	}
	for i := range st.DrugEmpire.Dealers {
		dl := &st.DrugEmpire.Dealers[i]
		if dl.Name == name {
			dl.District = d
			dl.MarketShare = share
			dl.Active = share > 0
			return nil
		}
	}
	st.DrugEmpire.Dealers = append(st.DrugEmpire.Dealers, Dealer{
		Name: name, District: d, MarketShare: share, Active: share > 0,
	})
	return nil
}

// SetLabQuality selects the cook quality tier for an owned lab.
func SetLabQuality(st *PlayerState, lab content.Lab, tier int) error {
	if _, ok := content.LabByID(lab); !ok {
		return ErrUnknownLab
	}
	if st.DrugEmpire == nil || st.DrugEmpire.LabTiers[lab] == 0 {
		return fmt.Errorf("%w: lab %s not owned", ErrUnknownLab, lab)
	}
	if tier < 1 || tier > 3 {
		return fmt.Errorf("quality tier must be 1..3, got %d", tier)
	}
	if tier > st.DrugEmpire.LabTiers[lab] {
		return fmt.Errorf("lab %s is tier %d, cannot cook at %d", lab, st.DrugEmpire.LabTiers[lab], tier)
	}
	st.DrugEmpire.SelectedQuality[lab] = tier
	return nil
}

// BuyLab unlocks a lab at tier 1, or upgrades an owned lab one tier.
func BuyLab(st *PlayerState, lab content.Lab) error {
	spec, ok := content.LabByID(lab)
	if !ok {
		return ErrUnknownLab
	}
	if st.DrugEmpire == nil {
		st.DrugEmpire = &DrugEmpire{
			LabTiers:        map[content.Lab]int{},
			SelectedQuality: map[content.Lab]int{},
		}
	}
	tier := st.DrugEmpire.LabTiers[lab]
	if tier >= 3 {
		return fmt.Errorf("lab %s already at max tier", lab)
	}
	// Upgrades cost half the unlock price per tier step.
	price := spec.UnlockPrice
	if tier > 0 {
		price = spec.UnlockPrice / 2
	}
	if st.Money < price {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, price)
	}
	st.Money -= price
	st.DrugEmpire.LabTiers[lab] = tier + 1
	if st.DrugEmpire.SelectedQuality[lab] == 0 {
		st.DrugEmpire.SelectedQuality[lab] = 1
	}
	return nil
}

// TravelTo moves the player to another district.
func TravelTo(st *PlayerState, d content.District) error {
	if !content.ValidDistrict(d) {
		return ErrUnknownDistrict
	}
	st.Location = d
	return nil
}
