package content

// Business identifies a purchasable front business.
type Business string

const (
	BusinessCarWash    Business = "car_wash"
	BusinessNightclub  Business = "nightclub"
	BusinessPawnshop   Business = "pawnshop"
	BusinessChopShop   Business = "chop_shop"
	BusinessCasino     Business = "casino"
	BusinessLaundromat Business = "laundromat"
)

type BusinessSpec struct {
	ID           Business `json:"id"`
	Name         string   `json:"name"`
	District     District `json:"district"`
	IncomePerDay int64    `json:"income_per_day"`
	Price        int64    `json:"price"`
}

var businesses = []BusinessSpec{
	{ID: BusinessCarWash, Name: "Sparkle Car Wash", District: DistrictLowrise, IncomePerDay: 150, Price: 9000},
	{ID: BusinessPawnshop, Name: "Goldline Pawn", District: DistrictIron, IncomePerDay: 220, Price: 14000},
	{ID: BusinessLaundromat, Name: "Spin City Laundromat", District: DistrictDocks, IncomePerDay: 260, Price: 16500},
	{ID: BusinessChopShop, Name: "Redline Chop Shop", District: DistrictDocks, IncomePerDay: 380, Price: 26000},
	{ID: BusinessNightclub, Name: "Club Mirage", District: DistrictNeon, IncomePerDay: 520, Price: 38000},
	{ID: BusinessCasino, Name: "The Velvet Room", District: DistrictVelvet, IncomePerDay: 700, Price: 55000},
}

func Businesses() []BusinessSpec {
	out := make([]BusinessSpec, len(businesses))
	copy(out, businesses)
	return out
}

func BusinessByID(id Business) (BusinessSpec, bool) {
	for _, b := range businesses {
		if b.ID == id {
			return b, true
		}
	}
	return BusinessSpec{}, false
}
