package game

import (
	"encoding/json"
	"errors"
	"testing"

	"omerta/internal/content"
	"omerta/internal/sim"
)

func testService() *Service {
	return NewService(nil, nil, nil, sim.DefaultTuning())
}

func TestValidActionCoversDispatch(t *testing.T) {
	names := []ActionName{
		ActionEndTurn, ActionTrade, ActionWashMoney, ActionBuyStock, ActionSellStock,
		ActionBuyDistrict, ActionBuyBusiness, ActionStealCar, ActionBuyVehicle,
		ActionRepairVehicle, ActionCleanVehicle, ActionSellStolenCar,
		ActionBuySafehouse, ActionUpgradeSafehouse, ActionAssignDealer,
		ActionSetLabQuality, ActionBuyLab, ActionBuyVillaModule, ActionHireCrew,
		ActionPayDebt, ActionTakeLoan, ActionTravel, ActionContribute,
	}
	for _, name := range names {
		if !ValidAction(name) {
			t.Fatalf("ValidAction(%q) = false", name)
		}
	}
	if ValidAction("steal_the_moon") {
		t.Fatalf("unknown action accepted")
	}
}

func TestCodeForErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{sim.ErrInsufficientFunds, "insufficient_funds"},
		{sim.ErrInsufficientDirty, "insufficient_dirty_money"},
		{sim.ErrInsufficientShares, "insufficient_shares"},
		{sim.ErrWashQuotaExceeded, "wash_quota_exceeded"},
		{sim.ErrDebtTooHigh, "debt_too_high"},
		{sim.ErrCarNotCleaned, "car_not_cleaned"},
		{sim.ErrUnknownStock, "not_found"},
		{sim.ErrUnknownDistrict, "not_found"},
		{sim.ErrUnknownCarType, "not_found"},
		{sim.ErrUnknownModule, "not_found"},
		{sim.ErrUnknownRole, "not_found"},
		{sim.ErrSafehouseExists, "already_exists"},
		{sim.ErrInvalidAmount, "invalid_amount"},
		{ErrDuplicateIdempotency, "duplicate_request"},
		{ErrNoGang, "gang_required"},
		{errors.New("payload is required"), "invalid_action"},
	}
	for _, tc := range cases {
		if got := codeForError(tc.err); got != tc.code {
			t.Fatalf("codeForError(%v) = %q, want %q", tc.err, got, tc.code)
		}
	}
}

func TestDecodePayloadRejectsUnknownFields(t *testing.T) {
	var p washPayload
	err := decodePayload(json.RawMessage(`{"amount":100,"bogus":true}`), &p)
	if err == nil {
		t.Fatalf("expected unknown-field rejection")
	}
	if err := decodePayload(nil, &p); err == nil {
		t.Fatalf("expected error for missing payload")
	}
	if err := decodePayload(json.RawMessage(`{"amount":2500}`), &p); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if p.Amount != 2500 {
		t.Fatalf("amount = %d, want 2500", p.Amount)
	}
}

func TestDispatchWashMutatesState(t *testing.T) {
	svc := testService()
	st := sim.NewPlayerState()
	st.DirtyMoney = 5000

	next, res, err := svc.dispatch(st, Action{
		Name:    ActionWashMoney,
		Payload: json.RawMessage(`{"amount":2000}`),
	})
	if err != nil {
		t.Fatalf("wash failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("wash result not successful: %+v", res)
	}
	if next.DirtyMoney != 3000 {
		t.Fatalf("dirty = %d, want 3000", next.DirtyMoney)
	}
	if next.Money != 2500+1700 {
		t.Fatalf("clean = %d, want %d", next.Money, 2500+1700)
	}
}

func TestDispatchWashInsufficientDirty(t *testing.T) {
	svc := testService()
	st := sim.NewPlayerState()
	st.DirtyMoney = 100

	_, _, err := svc.dispatch(st, Action{
		Name:    ActionWashMoney,
		Payload: json.RawMessage(`{"amount":2000}`),
	})
	if !errors.Is(err, sim.ErrInsufficientDirty) {
		t.Fatalf("err = %v, want ErrInsufficientDirty", err)
	}
	if !isDomainError(err) {
		t.Fatalf("insufficient dirty should be a domain error")
	}
}

func TestDispatchEndTurnReturnsFreshState(t *testing.T) {
	svc := testService()
	st := sim.NewPlayerState()
	st.Debt = 0

	next, res, err := svc.dispatch(st, Action{Name: ActionEndTurn})
	if err != nil {
		t.Fatalf("end_turn failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("end_turn result not successful: %+v", res)
	}
	if next == st {
		t.Fatalf("end_turn should return a cloned state")
	}
	if next.Day != st.Day+1 {
		t.Fatalf("day = %d, want %d", next.Day, st.Day+1)
	}
	if st.Day != 1 {
		t.Fatalf("input state mutated, day = %d", st.Day)
	}
}

func TestDispatchEndTurnDebtGate(t *testing.T) {
	svc := testService()
	st := sim.NewPlayerState()
	st.Debt = sim.MaxDebtToAdvance + 1

	_, _, err := svc.dispatch(st, Action{Name: ActionEndTurn})
	if !errors.Is(err, sim.ErrDebtTooHigh) {
		t.Fatalf("err = %v, want ErrDebtTooHigh", err)
	}
}

func TestDispatchStockRoundTrip(t *testing.T) {
	svc := testService()
	st := sim.NewPlayerState()
	st.Money = 1_000_000

	_, res, err := svc.dispatch(st, Action{
		Name:    ActionBuyStock,
		Payload: json.RawMessage(`{"stock_id":"HAVOK","shares":10}`),
	})
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("buy result not successful: %+v", res)
	}
	h, ok := st.Holdings[content.Stock("HAVOK")]
	if !ok || h.Shares != 10 {
		t.Fatalf("holding = %+v, want 10 shares", h)
	}

	_, res, err = svc.dispatch(st, Action{
		Name:    ActionSellStock,
		Payload: json.RawMessage(`{"stock_id":"HAVOK","shares":10}`),
	})
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("sell result not successful: %+v", res)
	}
	if _, ok := st.Holdings[content.Stock("HAVOK")]; ok {
		t.Fatalf("holding should be removed after selling out")
	}
}

func TestDispatchTradeGoods(t *testing.T) {
	svc := testService()
	st := sim.NewPlayerState()
	st.DirtyMoney = 10_000

	_, res, err := svc.dispatch(st, Action{
		Name:    ActionTrade,
		Payload: json.RawMessage(`{"good_id":"moonshine","mode":"buy","quantity":5}`),
	})
	if err != nil {
		t.Fatalf("trade failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("trade result not successful: %+v", res)
	}
	if st.Inventory[content.Good("moonshine")] != 5 {
		t.Fatalf("inventory = %d, want 5", st.Inventory[content.Good("moonshine")])
	}

	_, _, err = svc.dispatch(st, Action{
		Name:    ActionTrade,
		Payload: json.RawMessage(`{"good_id":"moonshine","mode":"sell","quantity":9}`),
	})
	if !errors.Is(err, sim.ErrInsufficientGoods) {
		t.Fatalf("err = %v, want ErrInsufficientGoods", err)
	}
}

func TestDispatchTravelValidation(t *testing.T) {
	svc := testService()
	st := sim.NewPlayerState()

	_, _, err := svc.dispatch(st, Action{
		Name:    ActionTravel,
		Payload: json.RawMessage(`{"district":"atlantis"}`),
	})
	if !errors.Is(err, sim.ErrUnknownDistrict) {
		t.Fatalf("err = %v, want ErrUnknownDistrict", err)
	}
}

func TestUsernameFromEmail(t *testing.T) {
	cases := map[string]string{
		"Don.Vito@example.com": "don_vito",
		"a@b.c":                "player_a",
		"__x__@example.com":    "player_x",
		"nobody":               "player",
	}
	for in, want := range cases {
		if got := usernameFromEmail(in); got != want {
			t.Fatalf("usernameFromEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDispatchCarTheftPipeline(t *testing.T) {
	svc := testService()
	st := sim.NewPlayerState()
	st.Money = 1000

	_, res, err := svc.dispatch(st, Action{
		Name:    ActionStealCar,
		Payload: json.RawMessage(`{"car_type":"sedan"}`),
	})
	if err != nil || !res.Success {
		t.Fatalf("steal failed: err=%v res=%+v", err, res)
	}
	if len(st.StolenCars) != 1 {
		t.Fatalf("stolen car not recorded")
	}
	if st.PersonalHeat == 0 {
		t.Fatalf("theft must add personal heat")
	}
	carID := st.StolenCars[0].ID

	if _, _, err := svc.dispatch(st, Action{
		Name:    ActionCleanVehicle,
		Payload: json.RawMessage(`{"vehicle_id":"` + carID + `"}`),
	}); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if _, _, err := svc.dispatch(st, Action{
		Name:    ActionSellStolenCar,
		Payload: json.RawMessage(`{"vehicle_id":"` + carID + `"}`),
	}); err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if st.DirtyMoney == 0 || len(st.StolenCars) != 0 {
		t.Fatalf("sale must pay dirty money and remove the car")
	}
}

func TestDispatchCrewAndVillaPurchases(t *testing.T) {
	svc := testService()
	st := sim.NewPlayerState()
	st.Money = 100_000

	if _, _, err := svc.dispatch(st, Action{
		Name:    ActionHireCrew,
		Payload: json.RawMessage(`{"name":"Wires","role":"hacker"}`),
	}); err != nil {
		t.Fatalf("hire failed: %v", err)
	}
	if !st.HasCrewRole(content.RoleHacker) {
		t.Fatalf("hacker not hired")
	}

	if _, _, err := svc.dispatch(st, Action{
		Name:    ActionBuyVillaModule,
		Payload: json.RawMessage(`{"module":"server_room"}`),
	}); err != nil {
		t.Fatalf("villa buy failed: %v", err)
	}
	if !st.Villa.HasModule(content.ModuleServerRoom) {
		t.Fatalf("server room not installed")
	}

	_, _, err := svc.dispatch(st, Action{
		Name:    ActionBuyVehicle,
		Payload: json.RawMessage(`{"car_type":"submarine"}`),
	})
	if !errors.Is(err, sim.ErrUnknownCarType) {
		t.Fatalf("err = %v, want ErrUnknownCarType", err)
	}
}
