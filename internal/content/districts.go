// Package content holds the static game content tables: districts, businesses,
// stocks, drug labs, crew roles, villa modules and the world cycle enums. All
// identifiers are closed enumerations; lookups return an ok flag instead of a
// silent zero value.
package content

// District identifies one of the city's controllable districts.
type District string

const (
	DistrictCrown   District = "crown"
	DistrictNeon    District = "neon"
	DistrictIron    District = "iron"
	DistrictDocks   District = "docks"
	DistrictLowrise District = "lowrise"
	DistrictVelvet  District = "velvet"
)

// DistrictSpec is the static per-district content row.
type DistrictSpec struct {
	ID District `json:"id"`
	// Name is the display name shown by clients.
	Name string `json:"name"`
	// IncomePerDay is credited to the owner on every turn.
	IncomePerDay int64 `json:"income_per_day"`
	// Price to take ownership through the action surface.
	Price int64 `json:"price"`
	// InfluenceThreshold is the gang influence needed to control the district.
	InfluenceThreshold int64 `json:"influence_threshold"`
}

var districts = []DistrictSpec{
	{ID: DistrictCrown, Name: "Crown Heights", IncomePerDay: 1200, Price: 85000, InfluenceThreshold: 5000},
	{ID: DistrictNeon, Name: "Neon Strip", IncomePerDay: 950, Price: 60000, InfluenceThreshold: 4000},
	{ID: DistrictIron, Name: "Iron Borough", IncomePerDay: 700, Price: 40000, InfluenceThreshold: 3000},
	{ID: DistrictDocks, Name: "The Docks", IncomePerDay: 600, Price: 32000, InfluenceThreshold: 2500},
	{ID: DistrictLowrise, Name: "Lowrise", IncomePerDay: 400, Price: 18000, InfluenceThreshold: 1800},
	{ID: DistrictVelvet, Name: "Velvet Quarter", IncomePerDay: 850, Price: 52000, InfluenceThreshold: 3500},
}

// Districts returns the full district table in stable order.
func Districts() []DistrictSpec {
	out := make([]DistrictSpec, len(districts))
	copy(out, districts)
	return out
}

// DistrictByID looks up a district spec.
func DistrictByID(id District) (DistrictSpec, bool) {
	for _, d := range districts {
		if d.ID == id {
			return d, true
		}
	}
	return DistrictSpec{}, false
}

// ValidDistrict reports whether id names a known district.
func ValidDistrict(id District) bool {
	_, ok := DistrictByID(id)
	return ok
}
