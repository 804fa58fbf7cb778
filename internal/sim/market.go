package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"omerta/internal/content"
)

// StockEvent is a temporary bias applied to the whole market or one sector.
type StockEvent struct {
	Headline string         `json:"headline"`
	Sector   content.Sector `json:"sector,omitempty"` // empty = market-wide
	Bias     float64        `json:"bias"`             // added to the daily return
	DaysLeft int            `json:"days_left"`
}

// InsiderTip is a one-shot directional hint offered to the player. It skews
// the next step for its ticker, it does not force the outcome.
type InsiderTip struct {
	Stock     content.Stock `json:"stock"`
	Direction int           `json:"direction"` // +1 or -1
	Strength  float64       `json:"strength"`  // 0..1
}

// Market is the player-local market snapshot: current prices, bounded FIFO
// history per ticker, the active event and pending tips.
type Market struct {
	Prices  map[content.Stock]int64   `json:"prices"`
	History map[content.Stock][]int64 `json:"history"`
	Event   *StockEvent               `json:"event,omitempty"`
	Tips    []InsiderTip              `json:"tips,omitempty"`
}

// NewMarket starts every ticker at its base price with one history point.
func NewMarket() Market {
	m := Market{
		Prices:  map[content.Stock]int64{},
		History: map[content.Stock][]int64{},
	}
	for _, s := range content.Stocks() {
		m.Prices[s.ID] = s.BasePrice
		m.History[s.ID] = []int64{s.BasePrice}
	}
	return m
}

func (m Market) clone() Market {
	out := Market{
		Prices:  make(map[content.Stock]int64, len(m.Prices)),
		History: make(map[content.Stock][]int64, len(m.History)),
	}
	for k, v := range m.Prices {
		out.Prices[k] = v
	}
	for k, v := range m.History {
		out.History[k] = append([]int64(nil), v...)
	}
	if m.Event != nil {
		ev := *m.Event
		out.Event = &ev
	}
	out.Tips = append([]InsiderTip(nil), m.Tips...)
	return out
}

func sortedStocks(m *Market) []content.Stock {
	ids := make([]content.Stock, 0, len(m.Prices))
	for id := range m.Prices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AdvanceMarket moves every price one bounded random-walk step, applies the
// active event bias and pending insider tips, appends to the capped history
// and ticks the event down. Prices never drop below 1.
func AdvanceMarket(m *Market, rng *rand.Rand, tun Tuning) {
	for _, id := range sortedStocks(m) {
		spec, ok := content.StockByID(id)
		if !ok {
			continue
		}
		step := spec.Volatility * (2*rng.Float64() - 1)
		if m.Event != nil && (m.Event.Sector == "" || m.Event.Sector == spec.Sector) {
			step += m.Event.Bias
		}
		step += consumeTip(m, id, tun)
		if step > tun.MarketMaxStep {
			step = tun.MarketMaxStep
		}
		if step < -tun.MarketMaxStep {
			step = -tun.MarketMaxStep
		}

		price := m.Prices[id]
		next := int64(math.Round(float64(price) * (1 + step)))
		if next < 1 {
			next = 1
		}
		m.Prices[id] = next
		m.History[id] = append(m.History[id], next)
		if tun.MarketHistoryCap > 0 && len(m.History[id]) > tun.MarketHistoryCap {
			m.History[id] = m.History[id][len(m.History[id])-tun.MarketHistoryCap:]
		}
	}
	if m.Event != nil {
		m.Event.DaysLeft--
		if m.Event.DaysLeft <= 0 {
			m.Event = nil
		}
	}
}

// consumeTip removes and applies the first pending tip for the ticker.
func consumeTip(m *Market, id content.Stock, tun Tuning) float64 {
	for i, tip := range m.Tips {
		if tip.Stock != id {
			continue
		}
		m.Tips = append(m.Tips[:i], m.Tips[i+1:]...)
		return float64(tip.Direction) * tip.Strength * tun.InsiderTipPower
	}
	return 0
}

// PayDividends credits shares * price * rate for every holding to clean money
// and returns the payout total.
func PayDividends(st *PlayerState) int64 {
	var total int64
	for _, id := range sortedStocks(&st.Market) {
		h, ok := st.Holdings[id]
		if !ok || h.Shares <= 0 {
			continue
		}
		spec, ok := content.StockByID(id)
		if !ok {
			continue
		}
		total += int64(math.Floor(float64(h.Shares*st.Market.Prices[id]) * spec.DividendRate))
	}
	st.Money += total
	return total
}

// BuyStock purchases shares at the current price, recomputing the weighted
// average cost basis. Fails without mutation on insufficient clean money.
func BuyStock(st *PlayerState, id content.Stock, shares int64) error {
	if shares <= 0 {
		return ErrInvalidAmount
	}
	price, ok := st.Market.Prices[id]
	if !ok {
		return ErrUnknownStock
	}
	cost := price * shares
	if cost > st.Money {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, cost, st.Money)
	}

	h := st.Holdings[id]
	newShares := h.Shares + shares
	// Weighted average of the existing basis and this purchase.
	h.AvgBuyPrice = (h.AvgBuyPrice*h.Shares + cost) / newShares
	h.Shares = newShares
	if st.Holdings == nil {
		st.Holdings = map[content.Stock]Holding{}
	}
	st.Holdings[id] = h
	st.Money -= cost
	return nil
}

// SellStock sells shares at the current price and returns realized profit
// (possibly negative). The average buy price never changes on a sell; the
// holding is removed when shares reach zero.
func SellStock(st *PlayerState, id content.Stock, shares int64) (int64, error) {
	if shares <= 0 {
		return 0, ErrInvalidAmount
	}
	price, ok := st.Market.Prices[id]
	if !ok {
		return 0, ErrUnknownStock
	}
	h, ok := st.Holdings[id]
	if !ok || h.Shares < shares {
		return 0, fmt.Errorf("%w: have %d", ErrInsufficientShares, h.Shares)
	}

	proceeds := price * shares
	profit := (price - h.AvgBuyPrice) * shares
	h.Shares -= shares
	if h.Shares == 0 {
		delete(st.Holdings, id)
	} else {
		st.Holdings[id] = h
	}
	st.Money += proceeds
	return profit, nil
}

// maybeSpawnMarketNews rolls a fresh stock event or insider tip for the next
// cycle when none is active.
func maybeSpawnMarketNews(m *Market, rng *rand.Rand) {
	if m.Event == nil && rng.Float64() < 0.12 {
		all := content.Stocks()
		pick := all[rng.Intn(len(all))]
		bias := 0.03 + 0.05*rng.Float64()
		if rng.Float64() < 0.5 {
			bias = -bias
		}
		headline := "Sector rally: " + string(pick.Sector)
		if bias < 0 {
			headline = "Scandal rocks " + string(pick.Sector)
		}
		m.Event = &StockEvent{Headline: headline, Sector: pick.Sector, Bias: bias, DaysLeft: 2 + rng.Intn(3)}
	}
	if len(m.Tips) == 0 && rng.Float64() < 0.10 {
		all := content.Stocks()
		pick := all[rng.Intn(len(all))]
		dir := 1
		if rng.Float64() < 0.5 {
			dir = -1
		}
		m.Tips = append(m.Tips, InsiderTip{Stock: pick.ID, Direction: dir, Strength: 0.4 + 0.6*rng.Float64()})
	}
}
