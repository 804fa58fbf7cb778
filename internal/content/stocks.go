package content

// Stock identifies one of the in-game tickers.
type Stock string

const (
	StockHavok  Stock = "HAVOK"
	StockOrbita Stock = "ORBITA"
	StockVulcan Stock = "VULCAN"
	StockGilded Stock = "GILDED"
	StockNimrod Stock = "NIMROD"
	StockStray  Stock = "STRAY"
)

// Sector groups tickers for sector-wide stock events.
type Sector string

const (
	SectorTech      Sector = "tech"
	SectorIndustry  Sector = "industry"
	SectorFinance   Sector = "finance"
	SectorHospitals Sector = "hospitality"
)

type StockSpec struct {
	ID        Stock  `json:"id"`
	Name      string `json:"name"`
	Sector    Sector `json:"sector"`
	BasePrice int64  `json:"base_price"`
	// DividendRate is applied as shares * price * rate on every turn.
	DividendRate float64 `json:"dividend_rate"`
	// Volatility scales the daily random-walk step for this ticker.
	Volatility float64 `json:"volatility"`
}

var stocks = []StockSpec{
	{ID: StockHavok, Name: "Havok Security", Sector: SectorTech, BasePrice: 130, DividendRate: 0.004, Volatility: 0.06},
	{ID: StockOrbita, Name: "Orbita Logistics", Sector: SectorIndustry, BasePrice: 95, DividendRate: 0.006, Volatility: 0.04},
	{ID: StockVulcan, Name: "Vulcan Steelworks", Sector: SectorIndustry, BasePrice: 72, DividendRate: 0.008, Volatility: 0.03},
	{ID: StockGilded, Name: "Gilded Trust", Sector: SectorFinance, BasePrice: 160, DividendRate: 0.005, Volatility: 0.05},
	{ID: StockNimrod, Name: "Nimrod Media", Sector: SectorTech, BasePrice: 58, DividendRate: 0.002, Volatility: 0.09},
	{ID: StockStray, Name: "Stray Dog Hotels", Sector: SectorHospitals, BasePrice: 44, DividendRate: 0.007, Volatility: 0.05},
}

func Stocks() []StockSpec {
	out := make([]StockSpec, len(stocks))
	copy(out, stocks)
	return out
}

func StockByID(id Stock) (StockSpec, bool) {
	for _, s := range stocks {
		if s.ID == id {
			return s, true
		}
	}
	return StockSpec{}, false
}
