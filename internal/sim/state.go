// Package sim implements the deterministic daily economic simulation: heat
// decay, passive income, drug-empire risk rolls, the stock market walk and the
// turn orchestration that ties them together. Everything in this package is
// pure state-in/state-out; persistence and transport live elsewhere.
package sim

import (
	"errors"

	"omerta/internal/content"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientDirty  = errors.New("insufficient dirty money")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrWashQuotaExceeded  = errors.New("daily wash quota exceeded")
	ErrDebtTooHigh        = errors.New("debt too high to advance the day")
	ErrUnknownStock       = errors.New("unknown stock")
	ErrUnknownDistrict    = errors.New("unknown district")
	ErrUnknownLab         = errors.New("unknown lab")
	ErrCarNotCleaned      = errors.New("car must be cleaned before sale")
	ErrCarNotFound        = errors.New("stolen car not found")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrSafehouseExists    = errors.New("safehouse already owned in district")
	ErrSafehouseNotFound  = errors.New("no safehouse in district")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrUnknownGood        = errors.New("unknown good")
	ErrInsufficientGoods  = errors.New("not enough goods in inventory")
	ErrUnknownCarType     = errors.New("unknown car model")
	ErrUnknownModule      = errors.New("unknown villa module")
	ErrUnknownRole        = errors.New("unknown crew role")
)

// MaxDebtToAdvance is the hard gate on ending the day.
const MaxDebtToAdvance = int64(250_000)

// Vehicle is a legally owned car.
type Vehicle struct {
	ID        string          `json:"id"`
	Type      content.CarType `json:"type"`
	Condition int             `json:"condition"`
	Heat      int             `json:"heat"`
	// RekatCooldown is the days left before the car can be re-plated again.
	RekatCooldown int            `json:"rekat_cooldown"`
	Upgrades      map[string]int `json:"upgrades,omitempty"`
}

// StolenCar is a hot car awaiting cleaning, sale or the crusher.
type StolenCar struct {
	ID        string          `json:"id"`
	Type      content.CarType `json:"type"`
	Condition int             `json:"condition"`
	// Cleaned reports whether the car has been omgekat and may be sold.
	Cleaned   bool     `json:"cleaned"`
	Upgrades  []string `json:"upgrades,omitempty"`
	StolenDay int      `json:"stolen_day"`
}

// Safehouse is keyed by district; at most one per district.
type Safehouse struct {
	District    content.District `json:"district"`
	Level       int              `json:"level"`
	Upgrades    []string         `json:"upgrades,omitempty"`
	PurchaseDay int              `json:"purchase_day"`
}

// Villa with its purchased modules.
type Villa struct {
	Modules []content.VillaModule `json:"modules"`
}

// HasModule reports whether the villa has the given module installed.
func (v *Villa) HasModule(m content.VillaModule) bool {
	if v == nil {
		return false
	}
	for _, mod := range v.Modules {
		if mod == m {
			return true
		}
	}
	return false
}

// CrewMember of the player's crew.
type CrewMember struct {
	Name  string           `json:"name"`
	Role  content.CrewRole `json:"role"`
	Skill int              `json:"skill"`
}

// Dealer sells drug-empire product in one district.
type Dealer struct {
	Name        string           `json:"name"`
	District    content.District `json:"district"`
	MarketShare int              `json:"market_share"` // 0..100
	Active      bool             `json:"active"`
}

// DrugEmpire holds the production side of the operation.
type DrugEmpire struct {
	// LabTiers maps owned labs to their tier (1..3).
	LabTiers map[content.Lab]int `json:"lab_tiers"`
	// SelectedQuality is the quality tier each lab currently cooks at.
	SelectedQuality map[content.Lab]int `json:"selected_quality"`
	// LabOffline maps labs to remaining offline days after a raid or a bad batch.
	LabOffline map[content.Lab]int `json:"lab_offline,omitempty"`
	Dealers    []Dealer            `json:"dealers,omitempty"`
	// NoxCrystalStock is the produced-but-unsold inventory.
	NoxCrystalStock int64 `json:"nox_crystal_stock"`
	// HarvestBoost marks labs whose next cycle got a big-harvest bonus.
	HarvestBoost map[content.Lab]bool `json:"harvest_boost,omitempty"`
	// DEACountdown is the empire-wide investigation timer, 0 when idle.
	DEACountdown int `json:"dea_countdown"`
	// EventLog is append-only, capped at RiskLogCap entries.
	EventLog []RiskEvent `json:"event_log,omitempty"`
}

// Holding is one stock position.
type Holding struct {
	Shares      int64 `json:"shares"`
	AvgBuyPrice int64 `json:"avg_buy_price"`
}

// NemesisArchetype is a closed set of antagonist builds.
type NemesisArchetype string

const (
	ArchetypeEnforcer   NemesisArchetype = "enforcer"
	ArchetypeMastermind NemesisArchetype = "mastermind"
	ArchetypeGhost      NemesisArchetype = "ghost"
)

// Nemesis is the recurring antagonist. Generations run 1..MaxNemesisGeneration;
// once the final generation is defeated no successor spawns outside free play.
type Nemesis struct {
	Generation int              `json:"generation"`
	Alive      bool             `json:"alive"`
	HP         int              `json:"hp"`
	MaxHP      int              `json:"max_hp"`
	Power      int              `json:"power"`
	Archetype  NemesisArchetype `json:"archetype"`
	Abilities  []string         `json:"abilities,omitempty"`
	// TruceDaysLeft and RevengeDaysLeft tick down once per turn.
	TruceDaysLeft   int `json:"truce_days_left"`
	RevengeDaysLeft int `json:"revenge_days_left"`
	// SpawnCooldown is the days until the next generation appears.
	SpawnCooldown int `json:"spawn_cooldown"`
}

// PlayerState is the complete single-player simulation state. It is owned by
// one session and mutated only through the operations in this package.
type PlayerState struct {
	Day          int              `json:"day"`
	Money        int64            `json:"money"`
	DirtyMoney   int64            `json:"dirty_money"`
	Debt         int64            `json:"debt"`
	Heat         int              `json:"heat"`
	PersonalHeat int              `json:"personal_heat"`
	Karma        int              `json:"karma"`
	Location     content.District `json:"location"`
	FreePlay     bool             `json:"free_play"`

	// WashUsed counts dirty money laundered today; reset on day advance.
	WashUsed int64 `json:"wash_used"`

	// AssetSeq is a monotonic counter behind vehicle and stolen-car ids.
	AssetSeq int64 `json:"asset_seq,omitempty"`

	OwnedDistricts  []content.District `json:"owned_districts,omitempty"`
	OwnedBusinesses []content.Business `json:"owned_businesses,omitempty"`
	Vehicles        []Vehicle          `json:"vehicles,omitempty"`
	StolenCars      []StolenCar        `json:"stolen_cars,omitempty"`
	Safehouses      []Safehouse        `json:"safehouses,omitempty"`
	Villa           *Villa             `json:"villa,omitempty"`
	Crew            []CrewMember       `json:"crew,omitempty"`
	DrugEmpire      *DrugEmpire        `json:"drug_empire,omitempty"`

	Holdings  map[content.Stock]Holding `json:"holdings,omitempty"`
	Inventory map[content.Good]int64    `json:"inventory,omitempty"`
	Market    Market                    `json:"market"`

	Nemesis Nemesis `json:"nemesis"`
}

// NewPlayerState returns the starting state for a fresh player.
func NewPlayerState() *PlayerState {
	st := &PlayerState{
		Day:      1,
		Money:    2500,
		Debt:     20000,
		Location: content.DistrictLowrise,
		Holdings: map[content.Stock]Holding{},
		Nemesis: Nemesis{
			Generation: 1,
			Alive:      true,
			HP:         60,
			MaxHP:      60,
			Power:      10,
			Archetype:  ArchetypeEnforcer,
		},
	}
	st.Market = NewMarket()
	return st
}

// OwnsDistrict reports district ownership.
func (st *PlayerState) OwnsDistrict(d content.District) bool {
	for _, o := range st.OwnedDistricts {
		if o == d {
			return true
		}
	}
	return false
}

// OwnsBusiness reports business ownership.
func (st *PlayerState) OwnsBusiness(b content.Business) bool {
	for _, o := range st.OwnedBusinesses {
		if o == b {
			return true
		}
	}
	return false
}

// HasCrewRole reports whether any crew member holds the role.
func (st *PlayerState) HasCrewRole(r content.CrewRole) bool {
	for _, c := range st.Crew {
		if c.Role == r {
			return true
		}
	}
	return false
}

// SafehouseIn returns the safehouse for a district, if owned.
func (st *PlayerState) SafehouseIn(d content.District) (Safehouse, bool) {
	for _, s := range st.Safehouses {
		if s.District == d {
			return s, true
		}
	}
	return Safehouse{}, false
}

// NetWorth is clean money plus holdings at current prices, minus debt.
func (st *PlayerState) NetWorth() int64 {
	total := st.Money - st.Debt
	for id, h := range st.Holdings {
		if price, ok := st.Market.Prices[id]; ok {
			total += h.Shares * price
		}
	}
	return total
}

// Clone returns a deep copy. AdvanceDay mutates a clone so that a failed turn
// leaves the caller's state untouched.
func (st *PlayerState) Clone() *PlayerState {
	out := *st

	out.OwnedDistricts = append([]content.District(nil), st.OwnedDistricts...)
	out.OwnedBusinesses = append([]content.Business(nil), st.OwnedBusinesses...)
	out.StolenCars = append([]StolenCar(nil), st.StolenCars...)
	out.Crew = append([]CrewMember(nil), st.Crew...)

	out.Vehicles = make([]Vehicle, len(st.Vehicles))
	for i, v := range st.Vehicles {
		out.Vehicles[i] = v
		if v.Upgrades != nil {
			out.Vehicles[i].Upgrades = make(map[string]int, len(v.Upgrades))
			for k, lvl := range v.Upgrades {
				out.Vehicles[i].Upgrades[k] = lvl
			}
		}
	}
	for i, c := range out.StolenCars {
		out.StolenCars[i].Upgrades = append([]string(nil), c.Upgrades...)
	}

	out.Safehouses = make([]Safehouse, len(st.Safehouses))
	for i, s := range st.Safehouses {
		out.Safehouses[i] = s
		out.Safehouses[i].Upgrades = append([]string(nil), s.Upgrades...)
	}

	if st.Villa != nil {
		v := Villa{Modules: append([]content.VillaModule(nil), st.Villa.Modules...)}
		out.Villa = &v
	}
	if st.DrugEmpire != nil {
		out.DrugEmpire = st.DrugEmpire.clone()
	}

	out.Holdings = make(map[content.Stock]Holding, len(st.Holdings))
	for k, v := range st.Holdings {
		out.Holdings[k] = v
	}
	if st.Inventory != nil {
		out.Inventory = make(map[content.Good]int64, len(st.Inventory))
		for k, v := range st.Inventory {
			out.Inventory[k] = v
		}
	}
	out.Market = st.Market.clone()
	out.Nemesis.Abilities = append([]string(nil), st.Nemesis.Abilities...)
	return &out
}

func (e *DrugEmpire) clone() *DrugEmpire {
	out := &DrugEmpire{
		NoxCrystalStock: e.NoxCrystalStock,
		DEACountdown:    e.DEACountdown,
		LabTiers:        make(map[content.Lab]int, len(e.LabTiers)),
		SelectedQuality: make(map[content.Lab]int, len(e.SelectedQuality)),
	}
	for k, v := range e.LabTiers {
		out.LabTiers[k] = v
	}
	for k, v := range e.SelectedQuality {
		out.SelectedQuality[k] = v
	}
	if e.LabOffline != nil {
		out.LabOffline = make(map[content.Lab]int, len(e.LabOffline))
		for k, v := range e.LabOffline {
			out.LabOffline[k] = v
		}
	}
	if e.HarvestBoost != nil {
		out.HarvestBoost = make(map[content.Lab]bool, len(e.HarvestBoost))
		for k, v := range e.HarvestBoost {
			out.HarvestBoost[k] = v
		}
	}
	out.Dealers = append([]Dealer(nil), e.Dealers...)
	out.EventLog = append([]RiskEvent(nil), e.EventLog...)
	return out
}
