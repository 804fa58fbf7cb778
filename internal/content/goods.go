package content

// Good identifies a tradeable contraband line. Street prices differ per
// district, which is what makes hauling goods across town worth the heat.
type Good string

const (
	GoodNoxCrystal Good = "nox_crystal"
	GoodMoonshine  Good = "moonshine"
	GoodHotParts   Good = "hot_parts"
	GoodFakePapers Good = "fake_papers"
)

type GoodSpec struct {
	ID        Good   `json:"id"`
	Name      string `json:"name"`
	BasePrice int64  `json:"base_price"`
	// HeatPerTrade is added to personal heat on every buy or sell.
	HeatPerTrade int `json:"heat_per_trade"`
}

var goodSpecs = []GoodSpec{
	{ID: GoodNoxCrystal, Name: "Nox Crystal", BasePrice: 140, HeatPerTrade: 3},
	{ID: GoodMoonshine, Name: "Moonshine", BasePrice: 35, HeatPerTrade: 1},
	{ID: GoodHotParts, Name: "Hot Parts", BasePrice: 80, HeatPerTrade: 2},
	{ID: GoodFakePapers, Name: "Fake Papers", BasePrice: 220, HeatPerTrade: 2},
}

func Goods() []GoodSpec {
	out := make([]GoodSpec, len(goodSpecs))
	copy(out, goodSpecs)
	return out
}

func GoodByID(id Good) (GoodSpec, bool) {
	for _, g := range goodSpecs {
		if g.ID == id {
			return g, true
		}
	}
	return GoodSpec{}, false
}

// goodDistrictPct is the street-price percentage per district. Rich districts
// pay over the odds, the lowrise is where goods are cheap.
var goodDistrictPct = map[District]map[Good]int64{
	DistrictCrown:   {GoodNoxCrystal: 135, GoodMoonshine: 120, GoodHotParts: 95, GoodFakePapers: 130},
	DistrictNeon:    {GoodNoxCrystal: 120, GoodMoonshine: 105, GoodHotParts: 110, GoodFakePapers: 100},
	DistrictIron:    {GoodNoxCrystal: 90, GoodMoonshine: 95, GoodHotParts: 125, GoodFakePapers: 90},
	DistrictDocks:   {GoodNoxCrystal: 100, GoodMoonshine: 90, GoodHotParts: 120, GoodFakePapers: 115},
	DistrictLowrise: {GoodNoxCrystal: 80, GoodMoonshine: 85, GoodHotParts: 85, GoodFakePapers: 105},
	DistrictVelvet:  {GoodNoxCrystal: 130, GoodMoonshine: 115, GoodHotParts: 90, GoodFakePapers: 125},
}

// GoodPrice returns the unit street price of a good in a district. Unknown
// combinations fall back to the base price.
func GoodPrice(id Good, d District) int64 {
	spec, ok := GoodByID(id)
	if !ok {
		return 0
	}
	pct := int64(100)
	if row, ok := goodDistrictPct[d]; ok {
		if p, ok := row[id]; ok {
			pct = p
		}
	}
	price := spec.BasePrice * pct / 100
	if price < 1 {
		price = 1
	}
	return price
}
