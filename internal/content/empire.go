package content

// Lab identifies a drug production site.
type Lab string

const (
	LabBasement   Lab = "basement"
	LabWarehouse  Lab = "warehouse"
	LabGreenhouse Lab = "greenhouse"
	LabSuperlab   Lab = "superlab"
)

type LabSpec struct {
	ID   Lab    `json:"id"`
	Name string `json:"name"`
	// OutputPerTier is the per-day production units for tiers 1..3.
	OutputPerTier [3]int64 `json:"output_per_tier"`
	UnlockPrice   int64    `json:"unlock_price"`
	// RaidWeight scales how attractive the lab is to law enforcement.
	RaidWeight float64 `json:"raid_weight"`
}

var labs = []LabSpec{
	{ID: LabBasement, Name: "Basement Kitchen", OutputPerTier: [3]int64{8, 14, 22}, UnlockPrice: 12000, RaidWeight: 0.8},
	{ID: LabWarehouse, Name: "Dockside Warehouse", OutputPerTier: [3]int64{16, 26, 40}, UnlockPrice: 34000, RaidWeight: 1.0},
	{ID: LabGreenhouse, Name: "Rooftop Greenhouse", OutputPerTier: [3]int64{12, 20, 30}, UnlockPrice: 22000, RaidWeight: 0.7},
	{ID: LabSuperlab, Name: "Superlab", OutputPerTier: [3]int64{30, 50, 80}, UnlockPrice: 90000, RaidWeight: 1.5},
}

func Labs() []LabSpec {
	out := make([]LabSpec, len(labs))
	copy(out, labs)
	return out
}

func LabByID(id Lab) (LabSpec, bool) {
	for _, l := range labs {
		if l.ID == id {
			return l, true
		}
	}
	return LabSpec{}, false
}

// CrewRole is a closed set of crew member specialisations.
type CrewRole string

const (
	RoleHacker CrewRole = "hacker"
	RoleMuscle CrewRole = "muscle"
	RoleDriver CrewRole = "driver"
	RoleFixer  CrewRole = "fixer"
)

type CrewRoleSpec struct {
	ID       CrewRole `json:"id"`
	Name     string   `json:"name"`
	HireCost int64    `json:"hire_cost"`
}

var crewRoles = []CrewRoleSpec{
	{ID: RoleHacker, Name: "Hacker", HireCost: 15000},
	{ID: RoleMuscle, Name: "Muscle", HireCost: 8000},
	{ID: RoleDriver, Name: "Driver", HireCost: 10000},
	{ID: RoleFixer, Name: "Fixer", HireCost: 12000},
}

func CrewRoles() []CrewRoleSpec {
	out := make([]CrewRoleSpec, len(crewRoles))
	copy(out, crewRoles)
	return out
}

func CrewRoleByID(id CrewRole) (CrewRoleSpec, bool) {
	for _, r := range crewRoles {
		if r.ID == id {
			return r, true
		}
	}
	return CrewRoleSpec{}, false
}

func ValidCrewRole(r CrewRole) bool {
	_, ok := CrewRoleByID(r)
	return ok
}

// VillaModule is a closed set of villa expansions.
type VillaModule string

const (
	ModuleServerRoom VillaModule = "server_room"
	ModuleGarage     VillaModule = "garage"
	ModuleVault      VillaModule = "vault"
	ModuleHelipad    VillaModule = "helipad"
)

type VillaModuleSpec struct {
	ID    VillaModule `json:"id"`
	Name  string      `json:"name"`
	Price int64       `json:"price"`
}

var villaModules = []VillaModuleSpec{
	{ID: ModuleServerRoom, Name: "Server Room", Price: 45000},
	{ID: ModuleGarage, Name: "Garage", Price: 30000},
	{ID: ModuleVault, Name: "Vault", Price: 60000},
	{ID: ModuleHelipad, Name: "Helipad", Price: 120000},
}

func VillaModules() []VillaModuleSpec {
	out := make([]VillaModuleSpec, len(villaModules))
	copy(out, villaModules)
	return out
}

func VillaModuleByID(id VillaModule) (VillaModuleSpec, bool) {
	for _, m := range villaModules {
		if m.ID == id {
			return m, true
		}
	}
	return VillaModuleSpec{}, false
}

func ValidVillaModule(m VillaModule) bool {
	_, ok := VillaModuleByID(m)
	return ok
}

// CarType identifies a stealable car model.
type CarType string

const (
	CarBeater  CarType = "beater"
	CarSedan   CarType = "sedan"
	CarMuscle  CarType = "muscle"
	CarExotic  CarType = "exotic"
	CarArmored CarType = "armored"
)

type CarSpec struct {
	ID        CarType `json:"id"`
	Name      string  `json:"name"`
	BaseValue int64   `json:"base_value"`
}

var cars = []CarSpec{
	{ID: CarBeater, Name: "Rustbucket Beater", BaseValue: 900},
	{ID: CarSedan, Name: "Grey Sedan", BaseValue: 3200},
	{ID: CarMuscle, Name: "Blacktop Muscle", BaseValue: 7800},
	{ID: CarExotic, Name: "Exotic Coupe", BaseValue: 21000},
	{ID: CarArmored, Name: "Armored SUV", BaseValue: 34000},
}

func Cars() []CarSpec {
	out := make([]CarSpec, len(cars))
	copy(out, cars)
	return out
}

func CarByType(id CarType) (CarSpec, bool) {
	for _, c := range cars {
		if c.ID == id {
			return c, true
		}
	}
	return CarSpec{}, false
}
