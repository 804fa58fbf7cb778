package sim

import (
	"fmt"

	"omerta/internal/content"
)

// TradeMode selects the direction of a goods trade.
type TradeMode string

const (
	TradeBuy  TradeMode = "buy"
	TradeSell TradeMode = "sell"
)

// TradeReceipt records one goods trade at the street price of the player's
// current district.
type TradeReceipt struct {
	Good      content.Good `json:"good"`
	Mode      TradeMode    `json:"mode"`
	Quantity  int64        `json:"quantity"`
	UnitPrice int64        `json:"unit_price"`
	Total     int64        `json:"total"`
	Heat      int          `json:"heat"`
}

// TradeGood buys or sells contraband at the price of the player's location.
// Contraband moves dirty money only: buys spend it, sells earn it. Every
// trade adds the good's heat to personal heat. Prices differ per district,
// so profit comes from hauling between cheap and expensive markets.
func TradeGood(st *PlayerState, id content.Good, mode TradeMode, qty int64) (TradeReceipt, error) {
	spec, ok := content.GoodByID(id)
	if !ok {
		return TradeReceipt{}, fmt.Errorf("%w: %s", ErrUnknownGood, id)
	}
	if qty <= 0 {
		return TradeReceipt{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, qty)
	}

	price := content.GoodPrice(id, st.Location)
	total := price * qty

	switch mode {
	case TradeBuy:
		if st.DirtyMoney < total {
			return TradeReceipt{}, fmt.Errorf("%w: need %d dirty", ErrInsufficientDirty, total)
		}
		st.DirtyMoney -= total
		if st.Inventory == nil {
			st.Inventory = map[content.Good]int64{}
		}
		st.Inventory[id] += qty
	case TradeSell:
		if st.Inventory[id] < qty {
			return TradeReceipt{}, fmt.Errorf("%w: have %d %s", ErrInsufficientGoods, st.Inventory[id], id)
		}
		st.Inventory[id] -= qty
		if st.Inventory[id] == 0 {
			delete(st.Inventory, id)
		}
		st.DirtyMoney += total
	default:
		return TradeReceipt{}, fmt.Errorf("%w: mode must be buy or sell", ErrInvalidAmount)
	}

	st.PersonalHeat = clampHeat(st.PersonalHeat + spec.HeatPerTrade)

	return TradeReceipt{
		Good:      id,
		Mode:      mode,
		Quantity:  qty,
		UnitPrice: price,
		Total:     total,
		Heat:      spec.HeatPerTrade,
	}, nil
}
