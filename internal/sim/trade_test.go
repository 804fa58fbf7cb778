package sim

import (
	"errors"
	"testing"

	"omerta/internal/content"
)

func TestTradeBuyThenSellSameDistrictIsNeutral(t *testing.T) {
	st := NewPlayerState()
	st.DirtyMoney = 10_000

	buy, err := TradeGood(st, content.GoodMoonshine, TradeBuy, 20)
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if st.Inventory[content.GoodMoonshine] != 20 {
		t.Fatalf("inventory = %d, want 20", st.Inventory[content.GoodMoonshine])
	}

	sell, err := TradeGood(st, content.GoodMoonshine, TradeSell, 20)
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if buy.Total != sell.Total {
		t.Fatalf("same-district round trip should be neutral, bought %d sold %d", buy.Total, sell.Total)
	}
	if st.DirtyMoney != 10_000 {
		t.Fatalf("dirty = %d, want 10000", st.DirtyMoney)
	}
	if _, ok := st.Inventory[content.GoodMoonshine]; ok {
		t.Fatalf("inventory entry should be removed at zero")
	}
}

func TestTradeArbitrageAcrossDistricts(t *testing.T) {
	st := NewPlayerState()
	st.DirtyMoney = 100_000
	st.Location = content.DistrictLowrise

	buy, err := TradeGood(st, content.GoodNoxCrystal, TradeBuy, 10)
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	st.Location = content.DistrictCrown
	sell, err := TradeGood(st, content.GoodNoxCrystal, TradeSell, 10)
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if sell.Total <= buy.Total {
		t.Fatalf("crown should pay more than lowrise: bought %d, sold %d", buy.Total, sell.Total)
	}
}

func TestTradeAddsPersonalHeat(t *testing.T) {
	st := NewPlayerState()
	st.DirtyMoney = 10_000
	st.PersonalHeat = 0

	spec, ok := content.GoodByID(content.GoodNoxCrystal)
	if !ok {
		t.Fatalf("good spec missing")
	}
	if _, err := TradeGood(st, content.GoodNoxCrystal, TradeBuy, 1); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if st.PersonalHeat != spec.HeatPerTrade {
		t.Fatalf("personal heat = %d, want %d", st.PersonalHeat, spec.HeatPerTrade)
	}
}

func TestTradeValidation(t *testing.T) {
	st := NewPlayerState()
	st.DirtyMoney = 50

	if _, err := TradeGood(st, "glitter", TradeBuy, 1); !errors.Is(err, ErrUnknownGood) {
		t.Fatalf("err = %v, want ErrUnknownGood", err)
	}
	if _, err := TradeGood(st, content.GoodMoonshine, TradeBuy, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := TradeGood(st, content.GoodMoonshine, "barter", 1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount for bad mode", err)
	}
	if _, err := TradeGood(st, content.GoodFakePapers, TradeBuy, 5); !errors.Is(err, ErrInsufficientDirty) {
		t.Fatalf("err = %v, want ErrInsufficientDirty", err)
	}
	if _, err := TradeGood(st, content.GoodMoonshine, TradeSell, 1); !errors.Is(err, ErrInsufficientGoods) {
		t.Fatalf("err = %v, want ErrInsufficientGoods", err)
	}
}
