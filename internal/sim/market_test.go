package sim

import (
	"errors"
	"math/rand"
	"testing"

	"omerta/internal/content"
)

func TestBuySellRoundTrip(t *testing.T) {
	st := NewPlayerState()
	st.Money = 100_000
	price := st.Market.Prices[content.StockHavok]

	if err := BuyStock(st, content.StockHavok, 10); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	profit, err := SellStock(st, content.StockHavok, 10)
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if profit != 0 {
		t.Fatalf("round trip at fixed price %d: profit = %d, want 0", price, profit)
	}
	if _, ok := st.Holdings[content.StockHavok]; ok {
		t.Fatalf("holding not removed at zero shares")
	}
	if st.Money != 100_000 {
		t.Fatalf("money = %d, want 100000 after round trip", st.Money)
	}
}

func TestAverageCostInvariant(t *testing.T) {
	st := NewPlayerState()
	st.Money = 1_000_000

	var totalCost, totalShares int64
	buys := []struct {
		price  int64
		shares int64
	}{
		{100, 10}, {140, 5}, {80, 20}, {125, 3},
	}
	for _, b := range buys {
		st.Market.Prices[content.StockGilded] = b.price
		if err := BuyStock(st, content.StockGilded, b.shares); err != nil {
			t.Fatalf("buy failed: %v", err)
		}
		totalCost += b.price * b.shares
		totalShares += b.shares
	}
	h := st.Holdings[content.StockGilded]
	want := totalCost / totalShares
	if diff := h.AvgBuyPrice - want; diff < -1 || diff > 1 {
		t.Fatalf("avg buy price = %d, want %d (±1)", h.AvgBuyPrice, want)
	}

	// Sells never touch the basis.
	if _, err := SellStock(st, content.StockGilded, 5); err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if st.Holdings[content.StockGilded].AvgBuyPrice != h.AvgBuyPrice {
		t.Fatalf("sell changed avg buy price")
	}
}

func TestBuyInsufficientFundsNoMutation(t *testing.T) {
	st := NewPlayerState()
	st.Money = 10
	before := st.Money
	if err := BuyStock(st, content.StockHavok, 100); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if st.Money != before || len(st.Holdings) != 0 {
		t.Fatalf("failed buy mutated state")
	}
}

func TestSellInsufficientShares(t *testing.T) {
	st := NewPlayerState()
	if _, err := SellStock(st, content.StockHavok, 1); !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("expected ErrInsufficientShares, got %v", err)
	}
}

func TestAdvanceMarketFloorAndHistoryCap(t *testing.T) {
	tun := DefaultTuning()
	tun.MarketHistoryCap = 30
	st := NewPlayerState()
	rng := rand.New(rand.NewSource(7))

	// Force a crash regime with a strong negative market-wide event.
	st.Market.Event = &StockEvent{Headline: "crash", Bias: -1.0, DaysLeft: 1000}
	for day := 0; day < 200; day++ {
		AdvanceMarket(&st.Market, rng, tun)
	}
	for id, price := range st.Market.Prices {
		if price < 1 {
			t.Fatalf("stock %s price %d below floor", id, price)
		}
	}
	for id, hist := range st.Market.History {
		if len(hist) > tun.MarketHistoryCap {
			t.Fatalf("stock %s history length %d exceeds cap %d", id, len(hist), tun.MarketHistoryCap)
		}
	}
}

func TestAdvanceMarketStepBounded(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	rng := rand.New(rand.NewSource(99))
	for day := 0; day < 50; day++ {
		prev := map[content.Stock]int64{}
		for id, p := range st.Market.Prices {
			prev[id] = p
		}
		AdvanceMarket(&st.Market, rng, tun)
		for id, p := range st.Market.Prices {
			lo := float64(prev[id]) * (1 - tun.MarketMaxStep)
			hi := float64(prev[id]) * (1 + tun.MarketMaxStep)
			if float64(p) < lo-1 || float64(p) > hi+1 {
				t.Fatalf("stock %s moved %d -> %d, outside ±%.0f%%", id, prev[id], p, tun.MarketMaxStep*100)
			}
		}
	}
}

func TestInsiderTipConsumedOnce(t *testing.T) {
	tun := DefaultTuning()
	st := NewPlayerState()
	rng := rand.New(rand.NewSource(3))
	st.Market.Tips = []InsiderTip{{Stock: content.StockStray, Direction: 1, Strength: 1}}
	AdvanceMarket(&st.Market, rng, tun)
	if len(st.Market.Tips) != 0 {
		t.Fatalf("tip not consumed")
	}
}

func TestPayDividends(t *testing.T) {
	st := NewPlayerState()
	st.Money = 0
	st.Market.Prices[content.StockVulcan] = 100
	st.Holdings[content.StockVulcan] = Holding{Shares: 50, AvgBuyPrice: 90}

	got := PayDividends(st)
	// 50 shares * 100 * 0.008 = 40.
	if got != 40 {
		t.Fatalf("dividends = %d, want 40", got)
	}
	if st.Money != 40 {
		t.Fatalf("dividends not credited to clean money")
	}
}
